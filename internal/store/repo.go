package store

import (
	"context"
	"errors"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
)

// ErrNotFound is returned by GetUser for a chat that was never seen.
var ErrNotFound = errors.New("user not found")

// Repo defines storage operations for user profiles.
//
// UpsertUser is field-wise: nil fields of the patch preserve whatever is
// already stored, so updating coordinates never erases a notification time.
// Storage I/O failures propagate to the caller, they are never swallowed.
type Repo interface {
	GetUser(ctx context.Context, chatID int64) (*domain.User, error)
	UpsertUser(ctx context.Context, chatID int64, p domain.Patch) error
	// ListScheduled returns all profiles with a notification time set,
	// including inconsistent ones missing a timezone.
	ListScheduled(ctx context.Context) ([]domain.User, error)
	Close() error
}
