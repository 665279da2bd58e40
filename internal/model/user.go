package model

import "time"

// Role is the access level attached to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// DefaultPhoneNumber is stored when a user never supplied a phone number.
const DefaultPhoneNumber = "0"

// User mirrors a row of the `users` table.
//
// Fields:
//  ID           – primary key, assigned by the store and never changed.
//  Username     – display label; not unique.
//  Email        – unique login handle, stored lower-cased.
//  PasswordHash – bcrypt digest; never serialized.
//  Role         – user or admin.
//  IsActive     – account status flag.
//  PhoneNumber  – optional, "0" when unset.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is what a user sees about their own account.
type PublicUser struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// AdminUser is the view returned by admin endpoints.
type AdminUser struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	IsActive    bool   `json:"is_active"`
	PhoneNumber string `json:"phone_number"`
}

// Public returns the self-facing view of u.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, PhoneNumber: u.PhoneNumber}
}

// Admin returns the admin-facing view of u.
func (u User) Admin() AdminUser {
	return AdminUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		PhoneNumber: u.PhoneNumber,
	}
}

// SelfPatch carries the fields a user may change on their own account.
// Nil pointers mean "not sent" and leave the stored value untouched.
type SelfPatch struct {
	Username    *string `json:"username" validate:"omitempty,max=255"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Password    *string `json:"password" validate:"omitempty,min=1,maxbytes=72"`
}

// Empty reports whether no field was sent.
func (p SelfPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.PhoneNumber == nil && p.Password == nil
}

// AdminPatch is a SelfPatch aimed at an arbitrary user that may also change
// role and active status. The target comes from ID, never from the caller.
type AdminPatch struct {
	ID int64 `json:"id" validate:"required,gt=0"`
	SelfPatch
	Role     *Role `json:"role"`
	IsActive *bool `json:"is_active"`
}

// Empty reports whether no mutable field was sent.
func (p AdminPatch) Empty() bool {
	return p.SelfPatch.Empty() && p.Role == nil && p.IsActive == nil
}
