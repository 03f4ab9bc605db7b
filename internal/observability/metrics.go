package observability

import (
	"sort"
	"strconv"
	"sync"
)

// Metrics provides in-memory counters for API calls and their classified outcomes.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	outcomeCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		outcomeCount: make(map[string]int64),
	}
}

// RecordRequest counts a request that produced an HTTP status.
func (m *Metrics) RecordRequest(path, method string, status int) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordOutcome counts a classified outcome such as "unauthenticated" or "server".
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomeCount[outcome]++
}

// Outcome returns the current count for one outcome.
func (m *Metrics) Outcome(outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomeCount[outcome]
}

// Snapshot returns "outcome=count" pairs in stable order.
func (m *Metrics) Snapshot() []string {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.outcomeCount))
	for k, v := range m.outcomeCount {
		out = append(out, k+"="+strconv.FormatInt(v, 10))
	}
	sort.Strings(out)
	return out
}
