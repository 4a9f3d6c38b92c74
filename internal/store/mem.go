package store

import "sync"

// MemStore is the in-memory Store used to test the pipeline without touching
// a filesystem.
type MemStore struct {
	mu   sync.Mutex
	recs []Record
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Put(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemStore) List() ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]Summary, 0, len(s.recs))
	for _, rec := range s.recs {
		summaries = append(summaries, Summary{
			Time:           rec.Time,
			SubmissionName: rec.SubmissionName,
			Signature:      rec.Signature,
		})
	}
	sortSummaries(summaries)
	return summaries, nil
}

// Records exposes the stored records for test assertions.
func (s *MemStore) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.recs))
	copy(out, s.recs)
	return out
}
