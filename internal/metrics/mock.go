package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	bundlesIngested   int
	bundlesRejected   int
	matchesCompleted  int
	headToHeadUpdates int
	ingestDurations   []float64
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		ingestDurations: make([]float64, 0),
	}
}

func (m *Mock) IncBundlesIngested() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundlesIngested++
}

func (m *Mock) IncBundlesRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundlesRejected++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncHeadToHeadUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headToHeadUpdates++
}

func (m *Mock) ObserveIngestDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestDurations = append(m.ingestDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// BundlesIngested returns the number of times IncBundlesIngested was called.
func (m *Mock) BundlesIngested() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bundlesIngested
}

// BundlesRejected returns the number of times IncBundlesRejected was called.
func (m *Mock) BundlesRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bundlesRejected
}

// MatchesCompleted returns the number of times IncMatchesCompleted was called.
func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// HeadToHeadUpdates returns the number of times IncHeadToHeadUpdates was called.
func (m *Mock) HeadToHeadUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.headToHeadUpdates
}

// IngestDurations returns the observed ingest durations.
func (m *Mock) IngestDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.ingestDurations...)
}
