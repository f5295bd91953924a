package helpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// MockJobRepository is an in-memory test double for routing.JobRepository.
// Jobs are keyed by (manufacturing record, manufacturer) the same way the
// GORM implementation keys them, so upsert idempotence is observable in
// service tests.
type MockJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*routing.ManufacturerJob

	// ActiveCounts overrides CountActiveByManufacturer per manufacturer
	ActiveCounts map[uint]int64

	// UpsertErr, when set, fails every UpsertRouting call
	UpsertErr error
}

// NewMockJobRepository creates an empty mock job repository
func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		jobs:         make(map[string]*routing.ManufacturerJob),
		ActiveCounts: make(map[uint]int64),
	}
}

// AddJob registers an existing job
func (m *MockJobRepository) AddJob(job *routing.ManufacturerJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	m.jobs[job.ID] = job
}

// JobCount returns the number of stored jobs
func (m *MockJobRepository) JobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

func (m *MockJobRepository) UpsertRouting(ctx context.Context, manufacturingID string, d routing.Decision, priority int) (*routing.ManufacturerJob, error) {
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, job := range m.jobs {
		if job.ManufacturingID != manufacturingID {
			continue
		}
		if !sameManufacturer(job.ManufacturerID, d.ManufacturerID) {
			continue
		}
		job.ApplyRouting(d, priority, now)
		return job, nil
	}

	job := routing.NewManufacturerJob(manufacturingID, d, priority, now)
	m.jobs[job.ID] = job
	return job, nil
}

func (m *MockJobRepository) FindByID(ctx context.Context, id string) (*routing.ManufacturerJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id], nil
}

func (m *MockJobRepository) FindByManufacturing(ctx context.Context, manufacturingID string) ([]*routing.ManufacturerJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*routing.ManufacturerJob
	for _, job := range m.jobs {
		if job.ManufacturingID == manufacturingID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (m *MockJobRepository) Save(ctx context.Context, job *routing.ManufacturerJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return fmt.Errorf("job %s does not exist", job.ID)
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *MockJobRepository) CountActiveByManufacturer(ctx context.Context, manufacturerID uint) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ActiveCounts[manufacturerID], nil
}

func (m *MockJobRepository) FindPending(ctx context.Context) ([]*routing.PendingJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*routing.PendingJob
	for _, job := range m.jobs {
		if job.IsPending() {
			out = append(out, &routing.PendingJob{
				JobID:         job.ID,
				Priority:      job.Priority,
				RoutingReason: job.RoutingReason,
				CreatedAt:     job.CreatedAt,
			})
		}
	}
	return out, nil
}

func (m *MockJobRepository) FindHistory(ctx context.Context, limit, offset int) ([]*routing.HistoryEntry, error) {
	return nil, nil
}

func (m *MockJobRepository) Stats(ctx context.Context) (*routing.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &routing.Stats{ByRoutedBy: make(map[routing.RoutedBy]int64)}
	for _, job := range m.jobs {
		if job.IsSuperseded() {
			continue
		}
		stats.TotalJobs++
		stats.ByRoutedBy[job.RoutedBy]++
	}
	return stats, nil
}

func sameManufacturer(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
