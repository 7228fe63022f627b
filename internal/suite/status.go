package suite

import (
	"io"
	"log/slog"
	"sync"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPartial = "PARTIAL"
)

// Mark is one recorded verification point.
type Mark struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Status collects verification points for one test case. A case passes only
// if every point recorded since the last MarkFinal passed.
type Status struct {
	logger *slog.Logger

	mu    sync.Mutex
	marks []Mark
}

// NewStatus creates a tracker. A nil logger discards output.
func NewStatus(logger *slog.Logger) *Status {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Status{logger: logger}
}

// Mark records one verification point.
func (s *Status) Mark(name string, passed bool, message string) {
	status := StatusPass
	if !passed {
		status = StatusFail
		s.logger.Warn("verification failed", "name", name, "message", message)
	}
	s.mu.Lock()
	s.marks = append(s.marks, Mark{Name: name, Status: status, Message: message})
	s.mu.Unlock()
}

// MarkFinal records the last point of a test case, reports whether every
// point passed and resets the tracker for the next case.
func (s *Status) MarkFinal(testName string, passed bool, message string) (bool, []Mark) {
	s.Mark(testName, passed, message)

	s.mu.Lock()
	marks := s.marks
	s.marks = nil
	s.mu.Unlock()

	ok := true
	for _, m := range marks {
		if m.Status != StatusPass {
			ok = false
			break
		}
	}
	if ok {
		s.logger.Info("test case passed", "name", testName, "points", len(marks))
	} else {
		s.logger.Error("test case failed", "name", testName, "points", len(marks))
	}
	return ok, marks
}

// Marks returns the points recorded since the last MarkFinal.
func (s *Status) Marks() []Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Mark(nil), s.marks...)
}

// OverallStatus is PASS when nothing failed, FAIL when everything failed and
// PARTIAL otherwise.
func OverallStatus(checks []CheckResult) string {
	if len(checks) == 0 {
		return StatusPass
	}
	failCount := 0
	for _, c := range checks {
		if c.Status != StatusPass {
			failCount++
		}
	}
	if failCount == 0 {
		return StatusPass
	}
	if failCount == len(checks) {
		return StatusFail
	}
	return StatusPartial
}
