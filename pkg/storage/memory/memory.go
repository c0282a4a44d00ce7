// Package memory provides an in-memory implementation of storage.Store
// for tests and lightweight deployments. All data is lost when the
// process restarts.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/storage"
)

// Store is an in-memory storage.Store. A single RWMutex guards all
// tables; every write is applied under one lock hold, so a failed write
// can never leave partial state visible to a concurrent reader.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]*api.User
	usersByEmail map[string]int64
	nextUserID   int64
	records      map[string]map[int64]*api.Record // keyed by kind table
	nextRecordID map[string]int64
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[int64]*api.User),
		usersByEmail: make(map[string]int64),
		records:      make(map[string]map[int64]*api.Record),
		nextRecordID: make(map[string]int64),
	}
}

// CreateUser inserts a new user, enforcing email uniqueness.
func (s *Store) CreateUser(_ context.Context, u *api.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[u.EmailAddress]; exists {
		return 0, &storage.DuplicateError{Field: "emailAddress", Message: "The email address you entered already exists."}
	}

	s.nextUserID++
	cp := *u
	cp.ID = s.nextUserID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt

	s.users[cp.ID] = &cp
	s.usersByEmail[cp.EmailAddress] = cp.ID
	return cp.ID, nil
}

// UserByEmail looks up a user by exact email. The match is
// case-sensitive.
func (s *Store) UserByEmail(_ context.Context, email string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// UserByID looks up a user by id.
func (s *Store) UserByID(_ context.Context, id int64) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// UpdateUser overwrites the stored user, enforcing email uniqueness
// against other accounts.
func (s *Store) UpdateUser(_ context.Context, u *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[u.ID]
	if !ok {
		return storage.ErrNotFound
	}

	if other, exists := s.usersByEmail[u.EmailAddress]; exists && other != u.ID {
		return &storage.DuplicateError{Field: "emailAddress", Message: "The email address you entered already exists."}
	}

	delete(s.usersByEmail, stored.EmailAddress)
	cp := *u
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now()
	s.users[cp.ID] = &cp
	s.usersByEmail[cp.EmailAddress] = cp.ID
	return nil
}

// ListRecords returns every record of the kind in id order, owners
// embedded.
func (s *Store) ListRecords(_ context.Context, kind *storage.Kind) ([]*api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := s.records[kind.Table]
	out := make([]*api.Record, 0, len(table))
	for _, rec := range table {
		out = append(out, s.withOwner(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetRecord returns one record with its owner embedded.
func (s *Store) GetRecord(_ context.Context, kind *storage.Kind, id int64) (*api.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[kind.Table][id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.withOwner(rec), nil
}

// CreateRecord inserts rec after checking the kind's unique constraints.
// The check and the insert happen under one lock hold.
func (s *Store) CreateRecord(_ context.Context, kind *storage.Kind, rec *api.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[rec.OwnerID]; !ok {
		return 0, fmt.Errorf("owner %d does not exist", rec.OwnerID)
	}

	if err := s.checkUnique(kind, rec, 0); err != nil {
		return 0, err
	}

	table := s.records[kind.Table]
	if table == nil {
		table = make(map[int64]*api.Record)
		s.records[kind.Table] = table
	}

	s.nextRecordID[kind.Table]++
	cp := rec.Clone()
	cp.ID = s.nextRecordID[kind.Table]
	cp.Kind = kind.Name
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt

	table[cp.ID] = cp
	return cp.ID, nil
}

// UpdateRecord overwrites the record's fields atomically.
func (s *Store) UpdateRecord(_ context.Context, kind *storage.Kind, rec *api.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[kind.Table][rec.ID]
	if !ok {
		return storage.ErrNotFound
	}

	if err := s.checkUnique(kind, rec, rec.ID); err != nil {
		return err
	}

	cp := rec.Clone()
	cp.OwnerID = stored.OwnerID // ownership never transfers
	cp.CreatedAt = stored.CreatedAt
	cp.UpdatedAt = time.Now()
	s.records[kind.Table][rec.ID] = cp
	return nil
}

// DeleteRecord removes the record permanently.
func (s *Store) DeleteRecord(_ context.Context, kind *storage.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[kind.Table][id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.records[kind.Table], id)
	return nil
}

// CountRecordsByOwner counts the kind's records owned by ownerID.
func (s *Store) CountRecordsByOwner(_ context.Context, kind *storage.Kind, ownerID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, rec := range s.records[kind.Table] {
		if rec.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// checkUnique reports the first unique-field collision against records
// other than excludeID. Caller must hold the lock.
func (s *Store) checkUnique(kind *storage.Kind, rec *api.Record, excludeID int64) error {
	for _, uf := range kind.Unique {
		value, ok := rec.Fields[uf.Field]
		if !ok || value == "" {
			continue
		}
		for id, existing := range s.records[kind.Table] {
			if id == excludeID {
				continue
			}
			if existing.Fields[uf.Field] == value {
				return &storage.DuplicateError{Field: uf.Field, Message: uf.Message}
			}
		}
	}
	return nil
}

// withOwner clones rec and embeds the owner profile. Caller must hold at
// least the read lock.
func (s *Store) withOwner(rec *api.Record) *api.Record {
	cp := rec.Clone()
	if owner, ok := s.users[rec.OwnerID]; ok {
		cp.Owner = owner.Profile()
	}
	return cp
}
