package webhook

import (
	"context"
	"fmt"
	"sync"

	"github.com/Thidomsilva/testcheckout/internal/domain"
)

// StatusStore holds the last known status per transaction. The webhook core
// owns no persistence; callers plug in whatever store backs their system.
type StatusStore interface {
	Get(ctx context.Context, transactionID string) (status string, found bool, err error)
	Set(ctx context.Context, transactionID, status string) error
}

// MemoryStatusStore is the in-process StatusStore used by the API and tests.
type MemoryStatusStore struct {
	mu       sync.Mutex
	statuses map[string]string
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[string]string)}
}

func (s *MemoryStatusStore) Get(_ context.Context, transactionID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[transactionID]
	return status, ok, nil
}

func (s *MemoryStatusStore) Set(_ context.Context, transactionID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[transactionID] = status
	return nil
}

type Result string

const (
	ResultApplied           Result = "applied"
	ResultIgnoredDuplicate  Result = "ignored_duplicate"
	ResultIgnoredRegression Result = "ignored_regression"
)

// Outcome reports what a status application did. Confirmed is set at most
// once per (transactionId, paid|authorized) pair; duplicate and out-of-order
// deliveries never re-fire it.
type Outcome struct {
	Result        Result
	TransactionID string
	Status        string
	PriorStatus   string
	Confirmed     bool
}

// Reconciler applies gateway status transitions idempotently. Delivery order
// is not guaranteed upstream; the duplicate and regression rules here are the
// sole defense against replays and out-of-order webhooks.
type Reconciler struct {
	store StatusStore
}

func NewReconciler(store StatusStore) *Reconciler {
	return &Reconciler{store: store}
}

// Apply transitions a transaction to status. Unknown status strings are
// stored verbatim so newer gateway states are never coerced away. Once a
// transaction reaches a terminal status, every different incoming status is
// ignored and reported as a regression.
func (r *Reconciler) Apply(ctx context.Context, transactionID, status string) (Outcome, error) {
	outcome := Outcome{TransactionID: transactionID, Status: status}

	prior, found, err := r.store.Get(ctx, transactionID)
	if err != nil {
		return outcome, fmt.Errorf("Apply: get %s: %w", transactionID, err)
	}
	outcome.PriorStatus = prior

	if found && prior == status {
		outcome.Result = ResultIgnoredDuplicate
		return outcome, nil
	}

	if found && domain.IsTerminalStatus(prior) {
		outcome.Result = ResultIgnoredRegression
		return outcome, nil
	}

	if err := r.store.Set(ctx, transactionID, status); err != nil {
		return outcome, fmt.Errorf("Apply: set %s: %w", transactionID, err)
	}

	outcome.Result = ResultApplied
	outcome.Confirmed = status == domain.StatusPaid || status == domain.StatusAuthorized
	return outcome, nil
}
