package store

import (
	"context"
	"sync"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// MemoryStore is an in-process Store for tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*types.TenderRecord
	order   []string

	// InsertCalls counts Insert invocations, including rejected ones.
	InsertCalls int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*types.TenderRecord)}
}

func (s *MemoryStore) Exists(_ context.Context, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[projectID]
	return ok, nil
}

func (s *MemoryStore) Insert(_ context.Context, rec *types.TenderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InsertCalls++

	if rec == nil || rec.ProjectID == "" {
		return &types.PersistError{Err: types.ErrMissingProjectID}
	}
	if _, ok := s.records[rec.ProjectID]; ok {
		return &types.PersistError{ProjectID: rec.ProjectID, Err: types.ErrDuplicateRecord}
	}
	s.records[rec.ProjectID] = rec
	s.order = append(s.order, rec.ProjectID)
	return nil
}

func (s *MemoryStore) Projects(_ context.Context, limit int) ([]*types.TenderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []*types.TenderRecord
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(records) >= limit {
			break
		}
		records = append(records, s.records[s.order[i]])
	}
	return records, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// Seed marks project ids as already persisted without going through Insert.
func (s *MemoryStore) Seed(projectIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range projectIDs {
		if _, ok := s.records[id]; !ok {
			s.records[id] = &types.TenderRecord{ProjectID: id}
			s.order = append(s.order, id)
		}
	}
}
