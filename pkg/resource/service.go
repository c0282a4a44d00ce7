package resource

import (
	"context"
	"errors"
	"log/slog"

	"github.com/acadia-dev/acadia/pkg/api"
	"github.com/acadia-dev/acadia/pkg/storage"
)

// Service is the generic CRUD engine. One instance serves all six kinds;
// the store handle is injected at construction and shared by concurrent
// requests.
type Service struct {
	store    storage.RecordStore
	logger   *slog.Logger
	kinds    []*Kind
	byPlural map[string]*Kind
}

// NewService creates the engine with the default six kinds registered.
func NewService(store storage.RecordStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:    store,
		logger:   logger,
		kinds:    Kinds(),
		byPlural: make(map[string]*Kind),
	}
	for _, k := range s.kinds {
		s.byPlural[k.Plural] = k
	}
	return s
}

// Kinds returns the registered kind descriptors in registration order.
func (s *Service) Kinds() []*Kind {
	return s.kinds
}

// KindByPlural resolves a kind from its route/table name.
func (s *Service) KindByPlural(plural string) (*Kind, bool) {
	k, ok := s.byPlural[plural]
	return k, ok
}

// List returns every record of the kind with owner profiles embedded.
// Reads are public: no caller identity is consulted.
func (s *Service) List(ctx context.Context, kind *Kind) ([]*api.Record, error) {
	recs, err := s.store.ListRecords(ctx, kind.Storage())
	if err != nil {
		return nil, s.internal(ctx, "list", kind, err)
	}
	return recs, nil
}

// Get returns one record or NotFound. Reads are public.
func (s *Service) Get(ctx context.Context, kind *Kind, id int64) (*api.Record, error) {
	rec, err := s.store.GetRecord(ctx, kind.Storage(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, api.NewNotFoundError(kind.DetailNotFoundMessage())
	}
	if err != nil {
		return nil, s.internal(ctx, "get", kind, err)
	}
	return rec, nil
}

// Create validates payload against the kind's full schema and persists a
// new record owned by the principal. On any violation the complete
// message list is returned and nothing is persisted.
func (s *Service) Create(ctx context.Context, kind *Kind, payload map[string]string, principal *api.Principal) (int64, error) {
	if msgs := kind.Validate(payload); len(msgs) > 0 {
		return 0, api.NewValidationError(msgs...)
	}

	rec := &api.Record{
		Kind:    kind.Name,
		OwnerID: principal.ID,
		Fields:  schemaFields(kind, payload),
	}

	id, err := s.store.CreateRecord(ctx, kind.Storage(), rec)
	if dup, ok := storage.AsDuplicate(err); ok {
		return 0, api.NewValidationError(dup.Message)
	}
	if err != nil {
		return 0, s.internal(ctx, "create", kind, err)
	}
	return id, nil
}

// Update loads the record, applies the ownership guard, merges the
// supplied fields over the stored ones, re-validates the merged record,
// and writes it back atomically.
func (s *Service) Update(ctx context.Context, kind *Kind, id int64, payload map[string]string, principal *api.Principal) error {
	rec, err := s.store.GetRecord(ctx, kind.Storage(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return api.NewNotFoundError(kind.NotFoundMessage())
	}
	if err != nil {
		return s.internal(ctx, "update", kind, err)
	}

	if err := ownerOnly("update", kind, rec, principal); err != nil {
		return err
	}

	merged := rec.Clone()
	for name, value := range schemaFields(kind, payload) {
		merged.Fields[name] = value
	}

	if msgs := kind.Validate(merged.Fields); len(msgs) > 0 {
		return api.NewValidationError(msgs...)
	}

	err = s.store.UpdateRecord(ctx, kind.Storage(), merged)
	if dup, ok := storage.AsDuplicate(err); ok {
		return api.NewValidationError(dup.Message)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return api.NewNotFoundError(kind.NotFoundMessage())
	}
	if err != nil {
		return s.internal(ctx, "update", kind, err)
	}
	return nil
}

// Delete loads the record, applies the ownership guard, and removes it
// permanently.
func (s *Service) Delete(ctx context.Context, kind *Kind, id int64, principal *api.Principal) error {
	rec, err := s.store.GetRecord(ctx, kind.Storage(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return api.NewNotFoundError(kind.NotFoundMessage())
	}
	if err != nil {
		return s.internal(ctx, "delete", kind, err)
	}

	if err := ownerOnly("delete", kind, rec, principal); err != nil {
		return err
	}

	if err := s.store.DeleteRecord(ctx, kind.Storage(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return api.NewNotFoundError(kind.NotFoundMessage())
		}
		return s.internal(ctx, "delete", kind, err)
	}
	return nil
}

// CountByOwner returns how many records of the kind belong to ownerID.
func (s *Service) CountByOwner(ctx context.Context, kind *Kind, ownerID int64) (int, error) {
	n, err := s.store.CountRecordsByOwner(ctx, kind.Storage(), ownerID)
	if err != nil {
		return 0, s.internal(ctx, "count", kind, err)
	}
	return n, nil
}

// ownerOnly is the authorization guard: only the record's owner may
// mutate or delete it. The message names the kind but not the owner.
func ownerOnly(op string, kind *Kind, rec *api.Record, principal *api.Principal) error {
	if principal == nil || rec.OwnerID != principal.ID {
		return api.NewForbiddenError(kind.ForbiddenMessage(op))
	}
	return nil
}

// schemaFields filters payload down to the fields the kind declares.
func schemaFields(kind *Kind, payload map[string]string) map[string]string {
	fields := make(map[string]string, len(kind.Fields))
	for _, f := range kind.Fields {
		if v, ok := payload[f.Name]; ok {
			fields[f.Name] = v
		}
	}
	return fields
}

// internal logs the real failure server-side and hands the caller the
// generic error.
func (s *Service) internal(ctx context.Context, op string, kind *Kind, err error) error {
	s.logger.ErrorContext(ctx, "store operation failed",
		slog.String("op", op),
		slog.String("kind", kind.Name),
		slog.String("error", err.Error()),
	)
	return api.NewInternalError()
}
