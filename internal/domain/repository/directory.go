package repository

import (
	"context"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/entity"
)

// Directory defines the storage operations for users and their hobbies.
type Directory interface {
	// CreateUser inserts a user and assigns u.ID from the database.
	CreateUser(ctx context.Context, u *entity.User) error
	// AddHobby inserts one association row. The user id is not checked
	// beyond the foreign key constraint.
	AddHobby(ctx context.Context, userID int64, hobby string) error
	// DeleteUser removes the user row. Deleting an id that does not exist
	// is not an error; hobby rows cascade at the schema level.
	DeleteUser(ctx context.Context, id int64) error
	// ListUsers returns the full aggregate: every user joined with its
	// deduplicated hobby labels.
	ListUsers(ctx context.Context) ([]entity.UserAggregate, error)
}
