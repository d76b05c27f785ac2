package cache

import (
	"context"
	"errors"

	"service-request-form/internal/form"
)

const keyPrefix = "requisicao:"

var (
	ErrNotFound = errors.New("form session not found")
	ErrConflict = errors.New("form session changed concurrently")
)

// Store keeps form sessions. Update runs fn on the current state and saves
// the result atomically; when fn fails nothing is written.
type Store interface {
	Save(ctx context.Context, f *form.RequestForm) error
	Get(ctx context.Context, id string) (*form.RequestForm, error)
	Update(ctx context.Context, id string, fn func(*form.RequestForm) error) (*form.RequestForm, error)
	Delete(ctx context.Context, id string) error
}

func stateKey(id string) string {
	return keyPrefix + id
}
