package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	requestDuration map[string]time.Duration
	errorCount      map[string]int64
	classified      map[string]int64
	reportsCreated  int64
	autoClosed      int64
	startedAt       time.Time
}

// Snapshot is a point-in-time copy of the counters, rendered by GET /metrics.
type Snapshot struct {
	UptimeSeconds      int64            `json:"uptime_seconds"`
	Requests           map[string]int64 `json:"requests"`
	RequestAvgMillis   map[string]int64 `json:"request_avg_ms"`
	Errors             map[string]int64 `json:"errors"`
	ClassifiedCategory map[string]int64 `json:"classified_by_category"`
	ReportsCreated     int64            `json:"reports_created"`
	ReportsAutoClosed  int64            `json:"reports_auto_closed"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		requestDuration: make(map[string]time.Duration),
		errorCount:      make(map[string]int64),
		classified:      make(map[string]int64),
		startedAt:       time.Now(),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordClassification counts a classifier decision.
func (m *Metrics) RecordClassification(category string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classified[category]++
}

// RecordReportCreated counts a stored report.
func (m *Metrics) RecordReportCreated() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportsCreated++
}

// RecordAutoClosed counts reports closed by the sweep.
func (m *Metrics) RecordAutoClosed(n int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoClosed += int64(n)
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds:      int64(time.Since(m.startedAt).Seconds()),
		Requests:           make(map[string]int64, len(m.requestCount)),
		RequestAvgMillis:   make(map[string]int64, len(m.requestCount)),
		Errors:             make(map[string]int64, len(m.errorCount)),
		ClassifiedCategory: make(map[string]int64, len(m.classified)),
		ReportsCreated:     m.reportsCreated,
		ReportsAutoClosed:  m.autoClosed,
	}
	for k, v := range m.requestCount {
		snap.Requests[k] = v
		snap.RequestAvgMillis[k] = (m.requestDuration[k] / time.Duration(v)).Milliseconds()
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.classified {
		snap.ClassifiedCategory[k] = v
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
