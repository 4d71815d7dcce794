// Package userstore persists user accounts. One Store interface, two
// interchangeable SQL backends selected by configuration.
package userstore

import (
	"context"

	"github.com/avelez/photodeck-be/internal/models"
)

// Store defines the persistence operations for user accounts. Username
// uniqueness is enforced by the backing store and surfaced as a conflict
// error; absent rows are surfaced as not-found errors.
type Store interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	Search(ctx context.Context, term string, offset, limit int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id string) error
}
