package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/account-service/internal/model"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	a := &model.User{Username: "a", Email: "a@example.com", Role: model.RoleUser}
	b := &model.User{Username: "b", Email: "b@example.com", Role: model.RoleAdmin}
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())

	assert.ErrorIs(t, r.Create(ctx, &model.User{Email: "a@example.com"}), ErrEmailExists)

	got, err := r.GetByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	// returned records are copies
	got.Username = "changed"
	again, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", again.Username)

	n, err := r.CountByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
}

func TestMemoryRepoUpdateMovesEmail(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	a := &model.User{Email: "a@example.com"}
	b := &model.User{Email: "b@example.com"}
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	a.Email = "b@example.com"
	assert.ErrorIs(t, r.Update(ctx, a), ErrEmailExists)

	a.Email = "new@example.com"
	require.NoError(t, r.Update(ctx, a))
	_, err := r.GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := r.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	assert.ErrorIs(t, r.Update(ctx, &model.User{ID: 42, Email: "x@example.com"}), ErrNotFound)
}

func TestMemoryRepoDelete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	a := &model.User{Email: "a@example.com"}
	require.NoError(t, r.Create(ctx, a))

	require.NoError(t, r.Delete(ctx, a.ID))
	assert.ErrorIs(t, r.Delete(ctx, a.ID), ErrNotFound)
	_, err := r.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, r.Create(ctx, &model.User{Email: "a@example.com"}))
}

func TestMemoryRepoUpdateProfileLeavesRoleAlone(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	a := &model.User{Username: "a", Email: "a@example.com", Role: model.RoleUser, IsActive: true}
	b := &model.User{Username: "b", Email: "b@example.com", Role: model.RoleUser, IsActive: true}
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	promoted := *a
	promoted.Role = model.RoleAdmin
	promoted.IsActive = false
	require.NoError(t, r.Update(ctx, &promoted))

	taken := "b@example.com"
	assert.ErrorIs(t, r.UpdateProfile(ctx, a.ID, ProfileChanges{Email: &taken}), ErrEmailExists)
	assert.ErrorIs(t, r.UpdateProfile(ctx, 42, ProfileChanges{Email: &taken}), ErrNotFound)

	email, phone := "a2@example.com", "555"
	require.NoError(t, r.UpdateProfile(ctx, a.ID, ProfileChanges{Email: &email, PhoneNumber: &phone}))

	got, err := r.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.False(t, got.IsActive)
	assert.Equal(t, "a2@example.com", got.Email)
	assert.Equal(t, "555", got.PhoneNumber)
	assert.Equal(t, "a", got.Username)

	_, err = r.GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	byEmail, err := r.GetByEmail(ctx, "a2@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byEmail.ID)
}
