// Package csvfile persists a slice of gocsv-tagged rows in a single CSV file.
// It backs the file-based catalog and ledger stores.
package csvfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
)

// File serialises access to one CSV file within the process. Writes go to a
// temporary file that is renamed over the target.
type File[T any] struct {
	path string
	mu   sync.Mutex
}

func New[T any](path string) *File[T] {
	return &File[T]{path: path}
}

func (f *File[T]) Path() string { return f.path }

func (f *File[T]) ReadAll() ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *File[T]) WriteAll(rows []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(rows)
}

// Update runs fn over the current rows and writes back what it returns.
// Nothing is written when fn fails.
func (f *File[T]) Update(fn func(rows []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows, err := f.read()
	if err != nil {
		return err
	}
	updated, err := fn(rows)
	if err != nil {
		return err
	}
	return f.write(updated)
}

// Append adds rows at the end of the file. A new file gets the header. When
// the file's header differs from T's columns (an older layout, reordered
// columns, a blank file) the file is decoded by column name and rewritten in
// the current layout instead. A failed append leaves the file at its prior size.
func (f *File[T]) Append(rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	header, body, _ := bytes.Cut(buf.Bytes(), []byte("\n"))

	fileHeader, size, endsWithNewline, err := inspect(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f.write(rows)
	}
	if err != nil {
		return err
	}
	if fileHeader != normalizeHeader(string(header)) {
		current, err := f.read()
		if err != nil {
			return err
		}
		return f.write(append(current, rows...))
	}

	out, err := os.OpenFile(f.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", f.path, err)
	}
	defer out.Close()

	if !endsWithNewline {
		body = append([]byte("\n"), body...)
	}
	if _, err := out.Write(body); err != nil {
		if tErr := out.Truncate(size); tErr != nil {
			return errors.Join(fmt.Errorf("append to %s: %w", f.path, err), tErr)
		}
		return fmt.Errorf("append to %s: %w", f.path, err)
	}
	return out.Sync()
}

// inspect returns the normalised first line of the file, its size and
// whether it ends in a newline. A blank file reports an empty header.
func inspect(path string) (header string, size int64, endsWithNewline bool, err error) {
	in, err := os.Open(path)
	if err != nil {
		return "", 0, false, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, false, fmt.Errorf("stat %s: %w", path, err)
	}
	size = info.Size()
	if size == 0 {
		return "", 0, true, nil
	}

	first, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", size, false, fmt.Errorf("read header of %s: %w", path, err)
	}
	last := make([]byte, 1)
	if _, err := in.ReadAt(last, size-1); err != nil {
		return "", size, false, fmt.Errorf("read %s: %w", path, err)
	}
	return normalizeHeader(first), size, last[0] == '\n', nil
}

func normalizeHeader(line string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
}

func (f *File[T]) read() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	rows := []T{}
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return rows, nil
}

func (f *File[T]) write(rows []T) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.path, err)
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
