// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and builds its queries from the
// storage-facing kind descriptors, so one implementation serves all six
// resource tables.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

const userColumns = `id, "designation", "firstName", "lastName", "emailAddress", "password", "affiliation", "areasOfInterest", "homepage", created_at, updated_at`

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, u *api.User) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users ("designation", "firstName", "lastName", "emailAddress", "password", "affiliation", "areasOfInterest", "homepage")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		nullString(u.Designation), u.FirstName, u.LastName, u.EmailAddress,
		u.PasswordHash, nullString(u.Affiliation), nullString(u.AreasOfInterest), nullString(u.Homepage),
	).Scan(&id)

	if err != nil {
		if dup := userDuplicate(err); dup != nil {
			return 0, dup
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return id, nil
}

// UserByEmail looks up a user by exact email. TEXT comparison in
// PostgreSQL is case-sensitive, which is the contract.
func (s *Store) UserByEmail(ctx context.Context, email string) (*api.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE "emailAddress" = $1`, email))
}

// UserByID looks up a user by id.
func (s *Store) UserByID(ctx context.Context, id int64) (*api.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// UpdateUser overwrites the stored user identified by u.ID.
func (s *Store) UpdateUser(ctx context.Context, u *api.User) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE users
		SET "designation" = $1, "firstName" = $2, "lastName" = $3, "emailAddress" = $4,
		    "password" = $5, "affiliation" = $6, "areasOfInterest" = $7, "homepage" = $8,
		    updated_at = now()
		WHERE id = $9
	`,
		nullString(u.Designation), u.FirstName, u.LastName, u.EmailAddress,
		u.PasswordHash, nullString(u.Affiliation), nullString(u.AreasOfInterest), nullString(u.Homepage),
		u.ID,
	)
	if err != nil {
		if dup := userDuplicate(err); dup != nil {
			return dup
		}
		return fmt.Errorf("updating user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) scanUser(row pgx.Row) (*api.User, error) {
	var u api.User
	var designation, affiliation, areas, homepage *string

	err := row.Scan(
		&u.ID, &designation, &u.FirstName, &u.LastName, &u.EmailAddress,
		&u.PasswordHash, &affiliation, &areas, &homepage,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u.Designation = deref(designation)
	u.Affiliation = deref(affiliation)
	u.AreasOfInterest = deref(areas)
	u.Homepage = deref(homepage)
	return &u, nil
}

// ListRecords returns every record of the kind in id order, owners
// embedded.
func (s *Store) ListRecords(ctx context.Context, kind *storage.Kind) ([]*api.Record, error) {
	rows, err := s.pool.Query(ctx, selectQuery(kind)+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind.Table, err)
	}
	defer rows.Close()

	var out []*api.Record
	for rows.Next() {
		rec, err := scanRecord(kind, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind.Table, err)
	}
	return out, nil
}

// GetRecord returns one record with its owner embedded.
func (s *Store) GetRecord(ctx context.Context, kind *storage.Kind, id int64) (*api.Record, error) {
	rows, err := s.pool.Query(ctx, selectQuery(kind)+` WHERE t.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", kind.Table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying %s: %w", kind.Table, err)
		}
		return nil, storage.ErrNotFound
	}
	return scanRecord(kind, rows)
}

// CreateRecord inserts rec as a single atomic statement: a constraint
// violation persists nothing.
func (s *Store) CreateRecord(ctx context.Context, kind *storage.Kind, rec *api.Record) (int64, error) {
	columns := []string{`"userId"`}
	args := []any{rec.OwnerID}
	placeholders := []string{"$1"}
	for _, f := range kind.Fields {
		columns = append(columns, quote(f))
		value, ok := rec.Fields[f]
		if ok {
			args = append(args, value)
		} else {
			args = append(args, nil)
		}
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		quote(kind.Table), strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	var id int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dup := kindDuplicate(err, kind); dup != nil {
			return 0, dup
		}
		return 0, fmt.Errorf("inserting into %s: %w", kind.Table, err)
	}
	return id, nil
}

// UpdateRecord overwrites the record's fields in one statement. The
// owner column is never part of the SET list: ownership cannot transfer.
func (s *Store) UpdateRecord(ctx context.Context, kind *storage.Kind, rec *api.Record) error {
	var sets []string
	var args []any
	for _, f := range kind.Fields {
		value, ok := rec.Fields[f]
		if ok {
			args = append(args, value)
		} else {
			args = append(args, nil)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", quote(f), len(args)))
	}
	args = append(args, rec.ID)

	query := fmt.Sprintf(`UPDATE %s SET %s, updated_at = now() WHERE id = $%d`,
		quote(kind.Table), strings.Join(sets, ", "), len(args))

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		if dup := kindDuplicate(err, kind); dup != nil {
			return dup
		}
		return fmt.Errorf("updating %s: %w", kind.Table, err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteRecord removes the row permanently. No tombstones.
func (s *Store) DeleteRecord(ctx context.Context, kind *storage.Kind, id int64) error {
	result, err := s.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, quote(kind.Table)), id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", kind.Table, err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountRecordsByOwner counts the kind's records owned by ownerID.
func (s *Store) CountRecordsByOwner(ctx context.Context, kind *storage.Kind, ownerID int64) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE "userId" = $1`, quote(kind.Table)),
		ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind.Table, err)
	}
	return n, nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// selectQuery builds the joined select for a kind: the record columns
// followed by the owner's profile columns (never the password hash).
func selectQuery(kind *storage.Kind) string {
	columns := []string{`t.id`, `t."userId"`}
	for _, f := range kind.Fields {
		columns = append(columns, "t."+quote(f))
	}
	columns = append(columns,
		`u.id`, `u."designation"`, `u."firstName"`, `u."lastName"`,
		`u."emailAddress"`, `u."affiliation"`, `u."areasOfInterest"`, `u."homepage"`,
	)
	return fmt.Sprintf(`SELECT %s FROM %s t JOIN users u ON u.id = t."userId"`,
		strings.Join(columns, ", "), quote(kind.Table))
}

// scanRecord scans one row produced by selectQuery.
func scanRecord(kind *storage.Kind, row pgx.Row) (*api.Record, error) {
	rec := &api.Record{Kind: kind.Name, Fields: make(map[string]string, len(kind.Fields))}
	owner := &api.UserProfile{}

	values := make([]*string, len(kind.Fields))
	targets := []any{&rec.ID, &rec.OwnerID}
	for i := range values {
		targets = append(targets, &values[i])
	}

	var designation, affiliation, areas, homepage *string
	targets = append(targets,
		&owner.ID, &designation, &owner.FirstName, &owner.LastName,
		&owner.EmailAddress, &affiliation, &areas, &homepage,
	)

	if err := row.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scanning %s row: %w", kind.Table, err)
	}

	for i, f := range kind.Fields {
		if values[i] != nil {
			rec.Fields[f] = *values[i]
		}
	}

	owner.Designation = deref(designation)
	owner.Affiliation = deref(affiliation)
	owner.AreasOfInterest = deref(areas)
	owner.Homepage = deref(homepage)
	rec.Owner = owner
	return rec, nil
}

// kindDuplicate translates a unique violation (23505) into the kind's
// declared DuplicateError by matching the constraint name against the
// unique fields.
func kindDuplicate(err error, kind *storage.Kind) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	for _, uf := range kind.Unique {
		if strings.Contains(pgErr.ConstraintName, uf.Field) {
			return &storage.DuplicateError{Field: uf.Field, Message: uf.Message}
		}
	}
	// Unique violation on a constraint the descriptor does not declare;
	// surface it as a generic duplicate on the first unique field.
	if len(kind.Unique) > 0 {
		return &storage.DuplicateError{Field: kind.Unique[0].Field, Message: kind.Unique[0].Message}
	}
	return nil
}

// userDuplicate translates a unique violation on the users table.
func userDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &storage.DuplicateError{
			Field:   "emailAddress",
			Message: "The email address you entered already exists.",
		}
	}
	return nil
}

// quote wraps an identifier in double quotes, preserving camelCase
// column names.
func quote(ident string) string {
	return `"` + ident + `"`
}

// nullString converts an empty string to nil for nullable TEXT columns.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref returns the string value or "" for NULL.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
