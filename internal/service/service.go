// Package service validates work orders and coordinates saving,
// deleting and searching them in the record table.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/orderid"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/store"
)

// Service owns the record table and serializes every operation on it.
type Service struct {
	mu      sync.Mutex
	table   *store.Table
	now     func() time.Time
	pending map[string]string // confirmation token -> work order id
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service operating on table.
func New(table *store.Table, opts ...Option) *Service {
	s := &Service{
		table:   table,
		now:     time.Now,
		pending: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextID returns the identifier a new work order would receive.
func (s *Service) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return orderid.Next(s.table.IDs())
}

// NewDraft returns an unsaved work order with a fresh identifier and
// the creation date and time.
func (s *Service) NewDraft() model.WorkOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return Recalculate(model.WorkOrder{
		ID:   orderid.Next(s.table.IDs()),
		Date: now.Format(model.DateLayout),
		Time: now.Format(model.TimeLayout),
	})
}

// Save validates w, recomputes its totals and writes it to the table,
// overwriting the row with the same identifier. It reports whether a
// new row was appended. When writing fails, the in-memory table is
// rolled back so that the caller can retry with the same record.
func (s *Service) Save(ctx context.Context, w model.WorkOrder) (model.WorkOrder, bool, error) {
	w.ID = orderid.Pad(w.ID)
	if err := Validate(w); err != nil {
		return w, false, err
	}
	w = Recalculate(w)

	s.mu.Lock()
	defer s.mu.Unlock()

	if w.Date == "" {
		now := s.now()
		w.Date = now.Format(model.DateLayout)
		w.Time = now.Format(model.TimeLayout)
	}

	snap := s.table.Snapshot()
	inserted := s.table.Upsert(w)
	if err := s.table.Save(ctx); err != nil {
		s.table.Restore(snap)
		log.Printf("service: saving work order %s failed: %v", w.ID, err)
		return w, false, fmt.Errorf("saving work order %s: %w", w.ID, err)
	}

	log.Printf("service: saved work order %s (new=%t)", w.ID, inserted)
	return w, inserted, nil
}

// Search looks up a work order. Digit-only queries are padded to the
// identifier width first.
func (s *Service) Search(query string) (model.WorkOrder, error) {
	id := orderid.Pad(query)
	if id == "" {
		return model.WorkOrder{}, store.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.FindByID(id)
}

// List returns every work order in table order.
func (s *Service) List() []model.WorkOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.All()
}

// RequestDelete issues the confirmation token required by Delete.
func (s *Service) RequestDelete(id string) (string, error) {
	id = orderid.Pad(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.table.FindByID(id); err != nil {
		return "", err
	}
	token := uuid.New().String()
	s.pending[token] = id
	return token, nil
}

// Delete removes the work order and rewrites the table. The token must
// come from RequestDelete for the same identifier and is consumed.
// A missing identifier yields store.ErrNotFound without rewriting.
func (s *Service) Delete(ctx context.Context, id, token string) error {
	id = orderid.Pad(id)
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[token] != id {
		return ErrInvalidConfirmation
	}
	delete(s.pending, token)

	snap := s.table.Snapshot()
	if err := s.table.Delete(id); err != nil {
		return err
	}
	if err := s.table.Save(ctx); err != nil {
		s.table.Restore(snap)
		log.Printf("service: deleting work order %s failed: %v", id, err)
		return fmt.Errorf("deleting work order %s: %w", id, err)
	}

	log.Printf("service: deleted work order %s", id)
	return nil
}

// Reload discards the in-memory table and reads it again, e.g. after a
// save failed with store.ErrTableChanged.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.pending)
	return s.table.Load(ctx)
}

// TableChanged reports whether another program rewrote the table since
// it was loaded or last saved.
func (s *Service) TableChanged(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Changed(ctx)
}

// DocumentRenderer turns a saved work order into a document file.
type DocumentRenderer interface {
	Render(w model.WorkOrder) (path string, err error)
}

// Publish saves w and hands the stored record to r. Rendering needs the
// identifier, client name and plate, which Save already enforces.
func (s *Service) Publish(ctx context.Context, w model.WorkOrder, r DocumentRenderer) (string, error) {
	saved, _, err := s.Save(ctx, w)
	if err != nil {
		return "", err
	}

	stored, err := s.Search(saved.ID)
	if err != nil {
		return "", err
	}

	path, err := r.Render(stored)
	if err != nil {
		return "", fmt.Errorf("rendering work order %s: %w", saved.ID, err)
	}
	log.Printf("service: rendered work order %s to %s", saved.ID, path)
	return path, nil
}
