// Package apperr holds the error taxonomy shared by the stores and services.
// Each typed error matches its sentinel through errors.Is, so callers can branch
// on the category and still use errors.As for details.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStoreIO           = errors.New("store i/o error")
)

// ValidationError reports missing or invalid input. Fields names the offending
// inputs (columns, request fields) when known.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Validation(message string, fields ...string) error {
	return &ValidationError{Message: message, Fields: fields}
}

type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// StoreIOError wraps a failure of a backing store (database, file, cache).
type StoreIOError struct {
	Op  string
	Err error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreIOError) Unwrap() error { return e.Err }

func (e *StoreIOError) Is(target error) bool { return target == ErrStoreIO }

func StoreIO(op string, err error) error {
	if err == nil {
		return nil
	}
	var sErr *StoreIOError
	if errors.As(err, &sErr) {
		return err
	}
	return &StoreIOError{Op: op, Err: err}
}

// Details flattens a possibly joined error into one message per failure.
func Details(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, Details(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
