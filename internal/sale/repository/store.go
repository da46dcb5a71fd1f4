package repository

import (
	"context"
	"errors"

	"github.com/paleteria/paleteria-pos/internal/sale/domain"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore keeps sessions between requests. Save refreshes the idle TTL.
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
