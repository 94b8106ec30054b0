package repo

import (
	"context"
	"database/sql"
	"errors"

	dom "github.com/aamishhussain23/finacplus-assignment/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means the write would break identity key uniqueness.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepo provides user persistence. Reads other than GetWithSecret leave
// PasswordHash empty; List also leaves About empty.
type UserRepo interface {
	Create(ctx context.Context, u dom.User) (dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	GetWithSecret(ctx context.Context, id string) (dom.User, error)
	// FindDuplicate reports whether a record other than excludeID has key.
	// An empty excludeID excludes nothing.
	FindDuplicate(ctx context.Context, key dom.IdentityKey, excludeID string) (bool, error)
	List(ctx context.Context) ([]dom.User, error)
	Update(ctx context.Context, id string, patch dom.UserPatch) (dom.User, error)
	Delete(ctx context.Context, id string) error
}

// DBTX is the subset of database/sql used by the Postgres repo.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// newID returns a fresh record id.
func newID() string { return uuid.NewString() }

// validID reports whether id could have been produced by newID.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
