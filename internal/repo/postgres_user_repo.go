package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "github.com/aamishhussain23/finacplus-assignment/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	publicColumns = `id, name, age, dob, gender, about, created_at`
	secretColumns = `id, name, age, dob, gender, about, password_hash, created_at`
)

// PGUserRepo implements UserRepo with Postgres. The name column uses a
// case-insensitive collation, so equality on name ignores letter case.
type PGUserRepo struct {
	db DBTX
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db DBTX) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts u under a new id and returns it with id and created_at set.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (id, name, age, dob, gender, about, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	u.ID = newID()
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Name, u.Age, u.DOB, u.Gender, u.About, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return dom.User{}, ErrDuplicate
		}
		return dom.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u.Public(), nil
}

// GetByID returns the user without its password hash.
func (r *PGUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	if !validID(id) {
		return dom.User{}, ErrNotFound
	}
	var u dom.User
	err := r.db.QueryRowContext(ctx,
		`SELECT `+publicColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Age, &u.DOB, &u.Gender, &u.About, &u.CreatedAt)
	if err != nil {
		return dom.User{}, mapNoRows(err, "get user")
	}
	return u, nil
}

// GetWithSecret returns the user including its password hash.
func (r *PGUserRepo) GetWithSecret(ctx context.Context, id string) (dom.User, error) {
	if !validID(id) {
		return dom.User{}, ErrNotFound
	}
	var u dom.User
	err := r.db.QueryRowContext(ctx,
		`SELECT `+secretColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Age, &u.DOB, &u.Gender, &u.About, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return dom.User{}, mapNoRows(err, "get user")
	}
	return u, nil
}

// FindDuplicate reports whether another record shares key.
func (r *PGUserRepo) FindDuplicate(ctx context.Context, key dom.IdentityKey, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE name = $1 AND age = $2 AND dob = $3 AND gender = $4
		)`
	args := []any{key.Name, key.Age, key.DOB, key.Gender}
	if excludeID != "" && validID(excludeID) {
		query = `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE name = $1 AND age = $2 AND dob = $3 AND gender = $4 AND id <> $5
		)`
		args = append(args, excludeID)
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("find duplicate: %w", err)
	}
	return exists, nil
}

// List returns every user in insertion order. About and PasswordHash are
// not selected.
func (r *PGUserRepo) List(ctx context.Context) ([]dom.User, error) {
	query := `
		SELECT id, name, age, dob, gender, created_at
		FROM users ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]dom.User, 0)
	for rows.Next() {
		var u dom.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Age, &u.DOB, &u.Gender, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// Update merges the non-nil patch fields into the record and returns it.
func (r *PGUserRepo) Update(ctx context.Context, id string, patch dom.UserPatch) (dom.User, error) {
	if !validID(id) {
		return dom.User{}, ErrNotFound
	}
	query := `
		UPDATE users SET
			name = COALESCE($2, name),
			age = COALESCE($3, age),
			dob = COALESCE($4, dob),
			gender = COALESCE($5, gender),
			about = COALESCE($6, about)
		WHERE id = $1
		RETURNING ` + publicColumns
	var u dom.User
	err := r.db.QueryRowContext(ctx, query,
		id, nullable(patch.Name), nullable(patch.Age), nullable(patch.DOB), nullable(patch.Gender), nullable(patch.About),
	).Scan(&u.ID, &u.Name, &u.Age, &u.DOB, &u.Gender, &u.About, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return dom.User{}, ErrDuplicate
		}
		return dom.User{}, mapNoRows(err, "update user")
	}
	return u, nil
}

// Delete removes the record.
func (r *PGUserRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reports a 23505 from Postgres, which the users name
// index raises for a duplicate identity.
func isUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	return errors.As(err, &pge) && pge.Code == "23505"
}

func mapNoRows(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable turns a nil pointer into a SQL NULL and dereferences the rest.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
