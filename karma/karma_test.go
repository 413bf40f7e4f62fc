package karma_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foundit-campus/foundit-api/databases"
	mocksdb "github.com/foundit-campus/foundit-api/databases/mocks"
	"github.com/foundit-campus/foundit-api/karma"
	"github.com/foundit-campus/foundit-api/models"
)

type denyAll struct{}

func (denyAll) Verify(context.Context, karma.Event) bool { return false }

// fakeKarmaStore is an in-memory stand-in for the accounts collection that
// preserves the additive semantics of IncrementPoints and the
// applied-exactly-once semantics of ApplyCredit under concurrency.
type fakeKarmaStore struct {
	mu      sync.Mutex
	points  map[string]int64
	applied map[string]bool
}

func newFakeKarmaStore() *fakeKarmaStore {
	return &fakeKarmaStore{points: make(map[string]int64), applied: make(map[string]bool)}
}

func (f *fakeKarmaStore) FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.KarmaAccount, error) {
	panic("not used")
}

func (f *fakeKarmaStore) Find(context.Context, interface{}, ...*options.FindOptions) ([]models.KarmaAccount, error) {
	panic("not used")
}

func (f *fakeKarmaStore) IncrementPoints(_ context.Context, userID string, delta int64) (*models.KarmaAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[userID] += delta
	return &models.KarmaAccount{UserID: userID, Points: f.points[userID]}, nil
}

func (f *fakeKarmaStore) ApplyCredit(_ context.Context, userID, eventID string, delta int64) (*models.KarmaAccount, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applied[eventID] {
		return &models.KarmaAccount{UserID: userID, Points: f.points[userID]}, false, nil
	}
	f.applied[eventID] = true
	f.points[userID] += delta
	return &models.KarmaAccount{UserID: userID, Points: f.points[userID]}, true, nil
}

func TestEventConstructors(t *testing.T) {
	assert.Equal(t, karma.Event{ID: "post:i1", UserID: "u1", Points: 10, Kind: karma.KindItemPosted}, karma.ItemPosted("i1", "u1"))
	assert.Equal(t, karma.Event{ID: "handover:i1", UserID: "u1", Points: 50, Kind: karma.KindHandover}, karma.Handover("i1", "u1"))
	assert.Equal(t, karma.Event{ID: "return:i1", UserID: "u1", Points: 100, Kind: karma.KindReturned}, karma.Returned("i1", "u1"))
	assert.Equal(t, karma.Event{ID: "assist:r1", UserID: "u2", Points: 100, Kind: karma.KindAssist}, karma.Assist("r1", "u2"))
}

func TestLedger_Credit(t *testing.T) {
	accounts := &mocksdb.KarmaDatabase{}
	events := &mocksdb.CreditEventDatabase{}

	events.On("InsertOne", mock.Anything, mock.MatchedBy(func(e models.CreditEvent) bool {
		return e.ID == "post:i1" && e.UserID == "u1" && e.Points == 10
	})).Return(nil)
	accounts.On("IncrementPoints", mock.Anything, "u1", int64(0)).
		Return(&models.KarmaAccount{UserID: "u1", Points: 0}, nil)
	accounts.On("ApplyCredit", mock.Anything, "u1", "post:i1", int64(10)).
		Return(&models.KarmaAccount{UserID: "u1", Points: 10}, true, nil)

	ledger := karma.NewLedger(accounts, events, nil)
	total, err := ledger.Credit(context.Background(), karma.ItemPosted("i1", "u1"))

	assert.NoError(t, err)
	assert.Equal(t, int64(10), total)
	accounts.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestLedger_Credit_DuplicateEventDoesNotDoubleAward(t *testing.T) {
	store := newFakeKarmaStore()
	events := &mocksdb.CreditEventDatabase{}
	events.On("InsertOne", mock.Anything, mock.Anything).Return(nil).Once()
	events.On("InsertOne", mock.Anything, mock.Anything).Return(databases.ErrDuplicateEvent)

	ledger := karma.NewLedger(store, events, nil)

	total, err := ledger.Credit(context.Background(), karma.ItemPosted("i1", "u1"))
	assert.NoError(t, err)
	assert.Equal(t, int64(10), total)

	// Same event again: the points already landed, the total is untouched.
	total, err = ledger.Credit(context.Background(), karma.ItemPosted("i1", "u1"))
	assert.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

func TestLedger_Credit_ReplaysCreditLostBetweenLogAndApply(t *testing.T) {
	// The event is already in the log, but its points never landed on the
	// account (the first attempt died between the two writes). The retry
	// must apply the delta instead of reporting the stale total as success.
	store := newFakeKarmaStore()
	events := &mocksdb.CreditEventDatabase{}
	events.On("InsertOne", mock.Anything, mock.Anything).Return(databases.ErrDuplicateEvent)

	ledger := karma.NewLedger(store, events, nil)
	total, err := ledger.Credit(context.Background(), karma.ItemPosted("i1", "u1"))

	assert.NoError(t, err)
	assert.Equal(t, int64(10), total)
}

func TestLedger_Credit_RejectsNonPositiveDelta(t *testing.T) {
	ledger := karma.NewLedger(&mocksdb.KarmaDatabase{}, &mocksdb.CreditEventDatabase{}, nil)

	_, err := ledger.Credit(context.Background(), karma.Event{ID: "bad:1", UserID: "u1", Points: -5})
	assert.Error(t, err)

	_, err = ledger.Credit(context.Background(), karma.Event{ID: "bad:2", UserID: "u1", Points: 0})
	assert.Error(t, err)
}

func TestLedger_Credit_PolicyDenial(t *testing.T) {
	events := &mocksdb.CreditEventDatabase{}
	ledger := karma.NewLedger(&mocksdb.KarmaDatabase{}, events, denyAll{})

	_, err := ledger.Credit(context.Background(), karma.ItemPosted("i1", "u1"))

	assert.ErrorIs(t, err, karma.ErrNotVerified)
	events.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestLedger_Credit_EventStoreError(t *testing.T) {
	accounts := &mocksdb.KarmaDatabase{}
	events := &mocksdb.CreditEventDatabase{}
	events.On("InsertOne", mock.Anything, mock.Anything).Return(errors.New("mocked-error"))

	ledger := karma.NewLedger(accounts, events, nil)
	_, err := ledger.Credit(context.Background(), karma.ItemPosted("i1", "u1"))

	assert.Error(t, err)
	accounts.AssertNotCalled(t, "IncrementPoints", mock.Anything, mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "ApplyCredit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_Read_LazyCreatesAccount(t *testing.T) {
	accounts := &mocksdb.KarmaDatabase{}
	accounts.On("IncrementPoints", mock.Anything, "new-user", int64(0)).
		Return(&models.KarmaAccount{ID: primitive.NewObjectID(), UserID: "new-user", Points: 0}, nil)

	ledger := karma.NewLedger(accounts, &mocksdb.CreditEventDatabase{}, nil)
	total, err := ledger.Read(context.Background(), "new-user")

	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestLedger_ConcurrentCreditsAreAdditive(t *testing.T) {
	store := newFakeKarmaStore()
	events := &mocksdb.CreditEventDatabase{}
	events.On("InsertOne", mock.Anything, mock.Anything).Return(nil)

	ledger := karma.NewLedger(store, events, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := ledger.Credit(context.Background(), karma.ItemPosted("i1", "u1"))
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := ledger.Credit(context.Background(), karma.Handover("i2", "u1"))
		assert.NoError(t, err)
	}()
	wg.Wait()

	total, err := ledger.Read(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, int64(60), total)
}
