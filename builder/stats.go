package builder

import "sync"

// Stats accumulates diagnostic counters during a build. No control
// decision depends on any of these; they exist purely for reporting.
// Field names mirror builder.py's BuilderStats one for one.
type Stats struct {
	mu sync.Mutex

	NodesCreated             int64
	LeavesCreated            int64
	InternalNodesCreated     int64
	OracleCalls              int64
	BruteForceVerifications  int64
	MaxDepthReached          int
	SamplingDetectedMixed    int64
	BruteForceDetectedMixed  int64
}

// snapshot returns a copy safe to read without holding the lock.
func (s *Stats) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		NodesCreated:            s.NodesCreated,
		LeavesCreated:           s.LeavesCreated,
		InternalNodesCreated:    s.InternalNodesCreated,
		OracleCalls:             s.OracleCalls,
		BruteForceVerifications: s.BruteForceVerifications,
		MaxDepthReached:         s.MaxDepthReached,
		SamplingDetectedMixed:   s.SamplingDetectedMixed,
		BruteForceDetectedMixed: s.BruteForceDetectedMixed,
	}
}

func (s *Stats) addOracleCalls(n int) {
	s.mu.Lock()
	s.OracleCalls += int64(n)
	s.mu.Unlock()
}

func (s *Stats) recordDepth(depth int) {
	s.mu.Lock()
	if depth > s.MaxDepthReached {
		s.MaxDepthReached = depth
	}
	s.mu.Unlock()
}

func (s *Stats) recordLeaf() {
	s.mu.Lock()
	s.NodesCreated++
	s.LeavesCreated++
	s.mu.Unlock()
}

func (s *Stats) recordInternal() {
	s.mu.Lock()
	s.NodesCreated++
	s.InternalNodesCreated++
	s.mu.Unlock()
}

func (s *Stats) recordSamplingMixed() {
	s.mu.Lock()
	s.SamplingDetectedMixed++
	s.mu.Unlock()
}

func (s *Stats) recordBruteForceVerification() {
	s.mu.Lock()
	s.BruteForceVerifications++
	s.mu.Unlock()
}

func (s *Stats) recordBruteForceMixed() {
	s.mu.Lock()
	s.BruteForceDetectedMixed++
	s.mu.Unlock()
}
