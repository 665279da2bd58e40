package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iliyamo/account-service/internal/database"
	"github.com/iliyamo/account-service/internal/model"
)

var _ UserStore = (*UserRepo)(nil)

const userColumns = "id,username,email,password_hash,role,is_active,phone_number,created_at,updated_at"

// UserRepo is the SQL-backed UserStore. It speaks MySQL or Postgres; the
// dialect only changes placeholders and how the new id is read back.
type UserRepo struct {
	DB      *sql.DB
	Dialect database.Dialect
	now     func() time.Time
}

func NewUserRepo(db *sql.DB, dialect database.Dialect) *UserRepo {
	return &UserRepo{DB: db, Dialect: dialect, now: time.Now}
}

// Create inserts user and sets its ID and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	now := r.now().UTC().Truncate(time.Second)
	const insert = "INSERT INTO users (username,email,password_hash,role,is_active,phone_number,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?)"
	args := []any{u.Username, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.PhoneNumber, now, now}

	var id int64
	switch r.Dialect {
	case database.Postgres:
		err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(insert)+" RETURNING id", args...).Scan(&id)
		if err != nil {
			return classify(err, "create user")
		}
	default:
		res, err := r.DB.ExecContext(ctx, insert, args...)
		if err != nil {
			return classify(err, "create user")
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("create user: read id: %w", err)
		}
	}

	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind("SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1"), id)
	return scanUser(row)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind("SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1"), email)
	return scanUser(row)
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update writes every mutable column. The id and created_at never change.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	now := r.now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		r.Dialect.Rebind("UPDATE users SET username=?, email=?, password_hash=?, role=?, is_active=?, phone_number=?, updated_at=? WHERE id=?"),
		u.Username, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.PhoneNumber, now, u.ID)
	if err != nil {
		return classify(err, fmt.Sprintf("update user id %d", u.ID))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user id %d: %w", u.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	u.UpdatedAt = now
	return nil
}

// UpdateProfile sets only the columns present in ch, so a concurrent admin
// change to role or is_active is never overwritten.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, ch ProfileChanges) error {
	if ch.Empty() {
		return nil
	}
	var (
		sets []string
		args []any
	)
	for _, col := range []struct {
		name string
		val  *string
	}{
		{"username", ch.Username},
		{"email", ch.Email},
		{"phone_number", ch.PhoneNumber},
		{"password_hash", ch.PasswordHash},
	} {
		if col.val != nil {
			sets = append(sets, col.name+"=?")
			args = append(args, *col.val)
		}
	}
	sets = append(sets, "updated_at=?")
	args = append(args, r.now().UTC().Truncate(time.Second), id)

	res, err := r.DB.ExecContext(ctx,
		r.Dialect.Rebind("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?"), args...)
	if err != nil {
		return classify(err, fmt.Sprintf("update profile id %d", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile id %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row permanently.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, r.Dialect.Rebind("DELETE FROM users WHERE id=?"), id)
	if err != nil {
		return fmt.Errorf("delete user id %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user id %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByRole counts users holding role.
func (r *UserRepo) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind("SELECT COUNT(*) FROM users WHERE role=?"), string(role)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

func (r *UserRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = model.Role(role)
	return &u, nil
}

// classify maps unique-constraint violations of either driver to
// ErrEmailExists; email is the only unique column besides the key.
func classify(err error, op string) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrEmailExists
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailExists
	}
	return fmt.Errorf("%s: %w", op, err)
}
