package testkit

import (
	"context"
	"sort"
	"sync"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
)

// InMemoryAnalysisRepository implements ports.AnalysisRepository with
// in-memory storage
type InMemoryAnalysisRepository struct {
	analyses map[core.ID]*stats.Analysis
	mu       sync.RWMutex
}

func NewInMemoryAnalysisRepository() *InMemoryAnalysisRepository {
	return &InMemoryAnalysisRepository{
		analyses: make(map[core.ID]*stats.Analysis),
	}
}

func (s *InMemoryAnalysisRepository) Create(ctx context.Context, analysis *stats.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *analysis
	s.analyses[analysis.ID] = &stored
	return nil
}

func (s *InMemoryAnalysisRepository) GetByID(ctx context.Context, id core.ID) (*stats.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.analyses[id]
	if !ok {
		return nil, core.NewNotFoundError("analysis", id.String())
	}
	copied := *analysis
	return &copied, nil
}

func (s *InMemoryAnalysisRepository) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*stats.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*stats.Analysis
	for _, analysis := range s.analyses {
		if analysis.ProjectID == projectID {
			copied := *analysis
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	if offset >= len(matches) {
		return []*stats.Analysis{}, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *InMemoryAnalysisRepository) Delete(ctx context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[id]; !ok {
		return core.NewNotFoundError("analysis", id.String())
	}
	delete(s.analyses, id)
	return nil
}

// Len returns the number of stored analyses
func (s *InMemoryAnalysisRepository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.analyses)
}
