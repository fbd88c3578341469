package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/riskdash/internal/domain/patient"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- User Repository --

type userRepoPG struct {
	db queryable
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{db: pool}
}

const userColumns = `id, name, email, role, status, last_login, created_at, updated_at`

func (r *userRepoPG) Create(ctx context.Context, user *User) error {
	user.ID = uuid.New()
	err := r.db.QueryRow(ctx, `
		INSERT INTO staff_user (id, name, email, role, status, last_login)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		user.ID, user.Name, user.Email, user.Role, user.Status, lastLoginTime(user),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM staff_user WHERE id = $1`, id))
}

func (r *userRepoPG) Update(ctx context.Context, user *User) error {
	err := r.db.QueryRow(ctx, `
		UPDATE staff_user SET
			name=$2, email=$3, role=$4, status=$5, last_login=$6, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		user.ID, user.Name, user.Email, user.Role, user.Status, lastLoginTime(user),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return nil
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM staff_user WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM staff_user`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM staff_user ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	var lastLogin *time.Time
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if lastLogin != nil {
		d := patient.NewDate(*lastLogin)
		u.LastLogin = &d
	}
	return u, nil
}

func lastLoginTime(u *User) *time.Time {
	if u.LastLogin == nil {
		return nil
	}
	t := u.LastLogin.Time
	return &t
}

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
