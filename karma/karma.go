// Package karma implements the point ledger behind the portal's
// gamification. Credits are fixed-size increments tied to lifecycle events;
// the ledger never decrements and never checks on its own that a claimed
// event actually happened — that is the job of the pluggable Verifier.
package karma

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foundit-campus/foundit-api/databases"
	"github.com/foundit-campus/foundit-api/models"
)

// Award table. The workflow layer must use these values; they are the points
// users see on the dashboard.
const (
	PointsItemPosted int64 = 10
	PointsHandover   int64 = 50
	PointsReturned   int64 = 100
	PointsAssist     int64 = 100
)

// Event kinds recorded in the credit event log.
const (
	KindItemPosted = "item_posted"
	KindHandover   = "handover"
	KindReturned   = "returned"
	KindAssist     = "assist"
)

// ErrNotVerified is returned when the verification policy rejects a credit.
var ErrNotVerified = errors.New("credit event failed verification")

// Event is one claimed lifecycle event worth points. The ID is deterministic
// per real-world event so a retried workflow maps onto the same ledger entry.
type Event struct {
	ID     string
	UserID string
	Points int64
	Kind   string
}

// ItemPosted is the credit for uploading a found item.
func ItemPosted(itemID, userID string) Event {
	return Event{ID: fmt.Sprintf("post:%s", itemID), UserID: userID, Points: PointsItemPosted, Kind: KindItemPosted}
}

// Handover is the credit for dropping an overdue item at the guard gate.
func Handover(itemID, userID string) Event {
	return Event{ID: fmt.Sprintf("handover:%s", itemID), UserID: userID, Points: PointsHandover, Kind: KindHandover}
}

// Returned is the credit for handing an item back to its owner directly.
func Returned(itemID, userID string) Event {
	return Event{ID: fmt.Sprintf("return:%s", itemID), UserID: userID, Points: PointsReturned, Kind: KindReturned}
}

// Assist is the credit for a named student who helped recover a lost item.
func Assist(reportID, userID string) Event {
	return Event{ID: fmt.Sprintf("assist:%s", reportID), UserID: userID, Points: PointsAssist, Kind: KindAssist}
}

// Verifier decides whether a claimed event is credible enough to award
// points for. The default policy trusts every caller, matching the portal's
// observed behavior; a stricter policy can be swapped in without touching
// the matcher or the workflow handlers.
type Verifier interface {
	Verify(ctx context.Context, event Event) bool
}

// AllowAll is the default trust-everything policy.
type AllowAll struct{}

// Verify always reports true.
func (AllowAll) Verify(context.Context, Event) bool { return true }

// Ledger applies credit events to per-user karma accounts. Every credit is
// an atomic delta against the store, gated by the policy. The event log
// records every attempted credit; whether the points actually landed is
// marked on the account document itself, atomically with the $inc, so a
// workflow that crashes at any point can be replayed under the same event
// key and the points land exactly once.
type Ledger struct {
	Accounts databases.KarmaDatabase
	Events   databases.CreditEventDatabase
	Policy   Verifier
}

// NewLedger wires a ledger; a nil policy defaults to AllowAll.
func NewLedger(accounts databases.KarmaDatabase, events databases.CreditEventDatabase, policy Verifier) *Ledger {
	if policy == nil {
		policy = AllowAll{}
	}
	return &Ledger{Accounts: accounts, Events: events, Policy: policy}
}

// Credit awards the event's points and returns the user's new total. A
// duplicate event is not an error: it means an earlier attempt recorded the
// event, and the conditional apply settles whether its points already
// landed. A retry after a crash between the log write and the apply picks
// the credit back up instead of losing it. Positive deltas only; the award
// table has no negative entries.
func (l *Ledger) Credit(ctx context.Context, event Event) (int64, error) {
	if event.Points <= 0 {
		return 0, fmt.Errorf("credit of %d points rejected: deltas must be positive", event.Points)
	}
	if !l.Policy.Verify(ctx, event) {
		return 0, ErrNotVerified
	}

	err := l.Events.InsertOne(ctx, models.CreditEvent{
		ID:        event.ID,
		UserID:    event.UserID,
		Points:    event.Points,
		Kind:      event.Kind,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	})
	if err != nil && !errors.Is(err, databases.ErrDuplicateEvent) {
		return 0, err
	}

	// The conditional update below never upserts, so make sure the account
	// document exists before asking it to match.
	if _, err := l.Accounts.IncrementPoints(ctx, event.UserID, 0); err != nil {
		return 0, err
	}

	account, _, err := l.Accounts.ApplyCredit(ctx, event.UserID, event.ID, event.Points)
	if err != nil {
		return 0, err
	}
	return account.Points, nil
}

// Read returns the user's current total, lazily creating the account with
// zero points when it does not exist yet. A zero increment rides the same
// upsert path as a credit, so Read can never error on a missing account.
func (l *Ledger) Read(ctx context.Context, userID string) (int64, error) {
	account, err := l.Accounts.IncrementPoints(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	return account.Points, nil
}
