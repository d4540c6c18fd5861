package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/circle-engine/circle"
	"github.com/warp/circle-engine/store"
)

// Service owns the in-memory mirror and exposes every operation the UI
// needs: the optimistic payment toggle, setup save, reset, and the derived
// read-only views.
type Service struct {
	adapter *Adapter
	logger  *slog.Logger

	mu      sync.RWMutex
	current circle.AppState
	subErr  error

	unsub store.Unsubscribe
}

// NewService creates a service over the given adapter. Call Start before
// use.
func NewService(adapter *Adapter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		adapter: adapter,
		logger:  logger,
		current: circle.NewAppState(),
	}
}

// Start establishes the document subscription. The mirror holds the
// current remote value once Start returns. A failed establishment is a
// connection failure; the service is unusable until a later Start
// succeeds.
func (s *Service) Start(ctx context.Context) error {
	unsub, err := s.adapter.Subscribe(ctx,
		func(next circle.AppState) {
			s.mu.Lock()
			s.current = next
			s.subErr = nil
			s.mu.Unlock()
			s.logger.Debug("remote state applied",
				"members", len(next.Members), "records", len(next.Records))
		},
		func(err error) {
			// Remembered so read handlers can surface the lost
			// subscription as a blocking condition. No automatic retry -
			// manual reload is the recovery path.
			s.mu.Lock()
			s.subErr = err
			s.mu.Unlock()
			s.logger.Error("document subscription failed", "error", err)
		},
	)
	if err != nil {
		return err
	}
	s.unsub = unsub
	return nil
}

// Stop cancels the document subscription.
func (s *Service) Stop() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// SubscriptionErr returns the last transport error reported by the
// document subscription, or nil while it is healthy. A later remote
// change clears it.
func (s *Service) SubscriptionErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subErr
}

// Snapshot returns a deep copy of the mirror.
func (s *Service) Snapshot() circle.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Toggle flips the payment flag for (dateKey, memberID). The mirror is
// updated first, then the full document is written. On write failure the
// optimistic state stays in place and the error is returned for
// reporting.
func (s *Service) Toggle(ctx context.Context, dateKey, memberID string) (circle.AppState, error) {
	s.mu.Lock()
	next := circle.TogglePayment(s.current, dateKey, memberID)
	s.current = next
	s.mu.Unlock()

	if err := s.adapter.Replace(ctx, next); err != nil {
		s.logger.Warn("payment toggle not persisted; local state kept",
			"date", dateKey, "member", memberID, "error", err)
		return next, err
	}
	return next, nil
}

// SaveSetup validates and persists a new roster and start date. Members
// without an ID get one assigned. Existing payment records carry through
// unchanged. Nothing is written when validation fails.
func (s *Service) SaveSetup(ctx context.Context, members []circle.Member, startDate string) (circle.AppState, error) {
	prepared := make([]circle.Member, len(members))
	for i, m := range members {
		m.Name = strings.TrimSpace(m.Name)
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		prepared[i] = m
	}

	if err := circle.ValidateSetup(prepared, startDate); err != nil {
		return circle.AppState{}, err
	}

	next := s.Snapshot()
	next.Members = prepared
	next.StartDate = startDate

	if err := s.adapter.Replace(ctx, next); err != nil {
		return circle.AppState{}, err
	}
	// The store notifies the subscription, which folds the saved state
	// back into the mirror.
	return next, nil
}

// Reset overwrites the document with the zero-value state, wiping members,
// start date, and all records.
func (s *Service) Reset(ctx context.Context) error {
	return s.adapter.Replace(ctx, circle.NewAppState())
}

// CycleInfo derives the circle position at asOf from the mirror.
func (s *Service) CycleInfo(asOf time.Time) (circle.CycleInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return circle.ComputeCycleInfo(s.current.StartDate, asOf, s.current.Members)
}

// Calendar derives the forward projection from the mirror.
func (s *Service) Calendar(daysToShow int) []circle.DayDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return circle.GenerateCalendarDays(s.current.StartDate, daysToShow, s.current.Members)
}

// History derives past payouts up to now from the mirror.
func (s *Service) History(now time.Time) []circle.PayoutEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return circle.ReconstructHistory(s.current.StartDate, s.current.Members, now)
}

// Record returns the payment record for dateKey, lazily substituting an
// empty record when none exists yet.
func (s *Service) Record(dateKey string) circle.DailyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.current.Records[dateKey]; ok {
		payments := make(map[string]bool, len(rec.Payments))
		for id, paid := range rec.Payments {
			payments[id] = paid
		}
		return circle.DailyRecord{Date: rec.Date, Payments: payments}
	}
	return circle.DailyRecord{Date: dateKey, Payments: map[string]bool{}}
}
