package repository

import (
	"context"

	"github.com/iliyamo/account-service/internal/model"
)

// UserStore captures the persistence operations the auth service needs.
// Implementations return ErrNotFound and ErrEmailExists for the matching
// conditions and wrap everything else.
type UserStore interface {
	// Create inserts u and fills in ID and timestamps.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail expects an already normalized email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns every user in store order.
	List(ctx context.Context) ([]model.User, error)
	// Update overwrites every mutable column of the row with u.ID.
	Update(ctx context.Context, u *model.User) error
	// UpdateProfile writes only the non-nil fields of ch to the row with id.
	// Role and active status are never touched.
	UpdateProfile(ctx context.Context, id int64, ch ProfileChanges) error
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	Ping(ctx context.Context) error
}

// ProfileChanges lists the self-service columns a profile update may set.
// Nil fields keep their stored value.
type ProfileChanges struct {
	Username     *string
	Email        *string
	PhoneNumber  *string
	PasswordHash *string
}

// Empty reports whether no column would change.
func (ch ProfileChanges) Empty() bool {
	return ch.Username == nil && ch.Email == nil && ch.PhoneNumber == nil && ch.PasswordHash == nil
}
