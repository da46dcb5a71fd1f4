package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/paleteria/paleteria-pos/internal/ledger/domain"
	"github.com/paleteria/paleteria-pos/internal/platform/apperr"
	"github.com/paleteria/paleteria-pos/internal/platform/csvfile"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

type csvLedgerStore struct {
	file *csvfile.File[domain.SaleLine]
}

func NewCSVLedgerStore(path string) LedgerStore {
	return &csvLedgerStore{file: csvfile.New[domain.SaleLine](path)}
}

func (r *csvLedgerStore) ReadAll(ctx context.Context) ([]domain.SaleLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, err := r.file.ReadAll()
	if err != nil {
		logger.Error("Ledger ReadAll: csv read failed", err, "path", r.file.Path())
		return nil, apperr.StoreIO("read ledger", err)
	}
	return lines, nil
}

func (r *csvLedgerStore) Append(ctx context.Context, lines ...domain.SaleLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.file.Append(lines); err != nil {
		logger.Error("Ledger Append: csv append failed", err, "path", r.file.Path())
		return apperr.StoreIO("append ledger", err)
	}
	return nil
}

func (r *csvLedgerStore) DeleteAt(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.file.Update(func(lines []domain.SaleLine) ([]domain.SaleLine, error) {
		if index < 0 || index >= len(lines) {
			return nil, apperr.Validation(fmt.Sprintf("sale row %d does not exist", index), "index")
		}
		return append(lines[:index], lines[index+1:]...), nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return err
		}
		logger.Error("Ledger DeleteAt: csv rewrite failed", err, "path", r.file.Path())
		return apperr.StoreIO("delete ledger row", err)
	}
	return nil
}
