package storage

import (
	"context"

	"github.com/acadia-dev/acadia/pkg/api"
)

// Kind is the storage-facing descriptor of a resource kind: enough for a
// generic store to build queries without knowing anything about
// validation. Field names double as column names; the owner column is
// "userId" for every kind.
type Kind struct {
	// Name is the singular kind name, e.g. "course".
	Name string

	// Table is the backing table (and route) name, e.g. "courses".
	Table string

	// Fields lists the kind-specific field names in schema order.
	Fields []string

	// Unique lists the fields carrying a unique-within-kind constraint,
	// with the client-facing message reported on collision.
	Unique []UniqueField
}

// UniqueField pairs a unique field with its violation message.
type UniqueField struct {
	Field   string
	Message string
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user and returns its id. Returns a
	// *DuplicateError when the email address is already taken.
	CreateUser(ctx context.Context, u *api.User) (int64, error)

	// UserByEmail looks up a user by exact (case-sensitive) email.
	// Returns ErrNotFound when no such user exists.
	UserByEmail(ctx context.Context, email string) (*api.User, error)

	// UserByID looks up a user by id. Returns ErrNotFound when absent.
	UserByID(ctx context.Context, id int64) (*api.User, error)

	// UpdateUser overwrites the stored user identified by u.ID. Returns
	// ErrNotFound when absent and *DuplicateError on an email collision.
	UpdateUser(ctx context.Context, u *api.User) error
}

// RecordStore persists resource records for all six kinds through one
// generic surface. Every returned record has its owner profile embedded.
type RecordStore interface {
	// ListRecords returns all records of the kind, in id order.
	ListRecords(ctx context.Context, kind *Kind) ([]*api.Record, error)

	// GetRecord returns one record or ErrNotFound.
	GetRecord(ctx context.Context, kind *Kind, id int64) (*api.Record, error)

	// CreateRecord inserts rec and returns the new id. Returns a
	// *DuplicateError when a unique field collides; nothing is persisted
	// in that case.
	CreateRecord(ctx context.Context, kind *Kind, rec *api.Record) (int64, error)

	// UpdateRecord overwrites the fields of the record identified by
	// rec.ID in a single atomic write. Returns ErrNotFound or
	// *DuplicateError.
	UpdateRecord(ctx context.Context, kind *Kind, rec *api.Record) error

	// DeleteRecord removes the record permanently. Returns ErrNotFound
	// when absent.
	DeleteRecord(ctx context.Context, kind *Kind, id int64) error

	// CountRecordsByOwner returns how many records of the kind belong to
	// the given owner.
	CountRecordsByOwner(ctx context.Context, kind *Kind, ownerID int64) (int, error)
}

// Store is the full persistence surface constructed once at process
// start and passed explicitly into every service (no ambient globals).
type Store interface {
	UserStore
	RecordStore

	// HealthCheck verifies the store connection is functional.
	HealthCheck(ctx context.Context) error

	// Close releases connections and resources.
	Close() error
}
