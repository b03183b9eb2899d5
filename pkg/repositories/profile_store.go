package repositories

import (
	"sort"
	"sync"

	"github.com/tablepulse-io/tablepulse-engine/pkg/models"
)

// ProfileStore caches the latest quality profile per (service, table) key
// so the API can serve results without re-profiling.
type ProfileStore interface {
	Put(service, table string, profile *models.TableQualityProfile)
	Get(service, table string) (*models.TableQualityProfile, bool)

	// List returns a service's cached profiles ordered by table name.
	List(service string) []*models.TableQualityProfile
}

type memoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]map[string]*models.TableQualityProfile
}

// NewMemoryProfileStore creates an empty in-memory profile store.
func NewMemoryProfileStore() ProfileStore {
	return &memoryProfileStore{
		profiles: make(map[string]map[string]*models.TableQualityProfile),
	}
}

var _ ProfileStore = (*memoryProfileStore)(nil)

func (s *memoryProfileStore) Put(service, table string, profile *models.TableQualityProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables, ok := s.profiles[service]
	if !ok {
		tables = make(map[string]*models.TableQualityProfile)
		s.profiles[service] = tables
	}
	tables[table] = profile
}

func (s *memoryProfileStore) Get(service, table string) (*models.TableQualityProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[service][table]
	return profile, ok
}

func (s *memoryProfileStore) List(service string) []*models.TableQualityProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tables := s.profiles[service]
	out := make([]*models.TableQualityProfile, 0, len(tables))
	for _, profile := range tables {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TableName < out[j].TableName
	})
	return out
}
