package embcache

import "sync"

// DefaultCapacity bounds the cache when no size is configured.
const DefaultCapacity = 1024

// memoryStore is a bounded in-process vector store with FIFO eviction.
// Vectors are copied on the way in and out so callers cannot alias cached data.
type memoryStore struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]float32
	order    []string // insertion order, oldest first
}

func newMemoryStore(capacity int) *memoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &memoryStore{
		capacity: capacity,
		entries:  make(map[string][]float32, capacity),
		order:    make([]string, 0, capacity),
	}
}

func (s *memoryStore) Get(key string) ([]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vec, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return cloneVector(vec), true
}

// Set stores vec under key and returns the number of entries afterwards.
func (s *memoryStore) Set(key string, vec []float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		s.entries[key] = cloneVector(vec)
		return len(s.entries)
	}

	for len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}

	s.entries[key] = cloneVector(vec)
	s.order = append(s.order, key)
	return len(s.entries)
}

func (s *memoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
