// Package executor wraps each remote CRUD call with loading and error
// bookkeeping plus user-facing success/failure notification. It makes
// no retries and inserts nothing into the entity store; composing the
// returned entity into local state is the caller's job.
package executor

import (
	"fmt"
	"log"
	"sync"

	"github.com/Web-Oliver/pokemon-collection/internal/metrics"
)

// Notifier receives the human-facing outcome of each operation. The
// UI layer plugs in a toast implementation; the default just logs.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier is the default Notifier.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Printf("notify: %s", msg) }
func (LogNotifier) Error(msg string)   { log.Printf("notify error: %s", msg) }

// opState is the loading flag and error slot shared by all operations
// of one executor. Loading covers the full remote call and is reset on
// every exit path.
type opState struct {
	mu      sync.Mutex
	loading bool
	errMsg  string
}

// begin also clears the error slot so Err always describes the latest
// operation, not one the user already retried past.
func (s *opState) begin() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *opState) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *opState) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// Loading reports whether an operation is in flight.
func (s *opState) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded failure message, "" when none.
func (s *opState) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ClearError resets the error slot.
func (s *opState) ClearError() {
	s.setError("")
}

// fail records the failure, notifies the user, and returns the error
// the caller propagates. Finer-grained handling of the underlying
// cause (validation vs not-found vs network) is out of scope here;
// the cause is logged for diagnosis and surfaced as one message.
func (s *opState) fail(notifier Notifier, entity, op, msg string, cause error) error {
	log.Printf("%s %s failed: %v", entity, op, cause)
	s.setError(msg)
	notifier.Error(msg)
	metrics.OperationsTotal.WithLabelValues(entity, op, "failed").Inc()
	return fmt.Errorf("%s: %w", msg, cause)
}

func (s *opState) ok(notifier Notifier, entity, op, msg string) {
	notifier.Success(msg)
	metrics.OperationsTotal.WithLabelValues(entity, op, "ok").Inc()
}
