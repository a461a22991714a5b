package quota

import (
	"context"
	"log"
)

// DailyLimit is the number of successful AI generations a user gets per
// calendar day.
const DailyLimit = 10

// Store is the persistence side of the tracker. ResetIfNewDay applies the
// lazy midnight reset and returns the current counter; Record increments it
// once, returning false when the limit was already reached.
type Store interface {
	ResetIfNewDay(ctx context.Context, userID string) (int, error)
	IncrementUsage(ctx context.Context, userID string, limit int) (bool, error)
}

type Allowance struct {
	Allowed           bool   `json:"allowed"`
	Remaining         int    `json:"remaining"`
	Limit             int    `json:"limit"`
	ResetIn           string `json:"reset_in"`
	Period            string `json:"period"`
	SessionsUsedToday int    `json:"sessions_used_today"`
}

// Tracker enforces the per-user daily cap. When the store is unreachable it
// fails open: an infrastructure fault must not lock users out.
type Tracker struct {
	store Store
	limit int
}

func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		limit: DailyLimit,
	}
}

// Check applies the lazy daily reset and reports whether another generation
// is allowed.
func (t *Tracker) Check(ctx context.Context, userID string) Allowance {
	used, err := t.store.ResetIfNewDay(ctx, userID)
	if err != nil {
		log.Printf("Quota check failed for user %s, allowing: %v", userID, err)
		return t.openAllowance()
	}

	return t.allowance(used)
}

// Record consumes one generation slot. It must be called only after a
// successful generation; the store re-checks the limit inside the increment,
// so the answer is authoritative even under concurrent requests. A store
// error is returned for logging but the caller should not fail the request
// over it.
func (t *Tracker) Record(ctx context.Context, userID string) (bool, error) {
	applied, err := t.store.IncrementUsage(ctx, userID, t.limit)
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (t *Tracker) allowance(used int) Allowance {
	remaining := t.limit - used
	if remaining < 0 {
		remaining = 0
	}

	return Allowance{
		Allowed:           used < t.limit,
		Remaining:         remaining,
		Limit:             t.limit,
		ResetIn:           "midnight",
		Period:            "daily",
		SessionsUsedToday: used,
	}
}

func (t *Tracker) openAllowance() Allowance {
	return Allowance{
		Allowed:   true,
		Remaining: t.limit,
		Limit:     t.limit,
		ResetIn:   "midnight",
		Period:    "daily",
	}
}
