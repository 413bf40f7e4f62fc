package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/foundit-campus/foundit-api/api/handlers"
	mocksdb "github.com/foundit-campus/foundit-api/databases/mocks"
	"github.com/foundit-campus/foundit-api/karma"
	"github.com/foundit-campus/foundit-api/models"
)

func TestKarma_KarmaByUserIDHandler(t *testing.T) {
	accounts := &mocksdb.KarmaDatabase{}
	accounts.On("IncrementPoints", mock.Anything, "u1", int64(0)).
		Return(&models.KarmaAccount{UserID: "u1", Points: 160}, nil)

	h := handlers.Karma{
		DB:     accounts,
		Ledger: karma.NewLedger(accounts, &mocksdb.CreditEventDatabase{}, nil),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/karma/u1", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "u1"})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.KarmaByUserIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, float64(160), resp["points"])
	assert.Equal(t, "u1", resp["userId"])
}

func TestKarma_KarmaByUserIDHandler_UnknownUserReadsZero(t *testing.T) {
	accounts := &mocksdb.KarmaDatabase{}
	accounts.On("IncrementPoints", mock.Anything, "never-seen", int64(0)).
		Return(&models.KarmaAccount{UserID: "never-seen", Points: 0}, nil)

	h := handlers.Karma{
		DB:     accounts,
		Ledger: karma.NewLedger(accounts, &mocksdb.CreditEventDatabase{}, nil),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/karma/never-seen", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "never-seen"})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.KarmaByUserIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, float64(0), resp["points"])
}

func TestKarma_LeaderboardHandler(t *testing.T) {
	accounts := &mocksdb.KarmaDatabase{}
	accounts.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.KarmaAccount{
		{UserID: "u1", Points: 300},
		{UserID: "u2", Points: 150},
	}, nil)

	h := handlers.Karma{DB: accounts}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/karma/leaderboard?limit=2", nil)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.LeaderboardHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []models.KarmaAccount
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Len(t, resp, 2)
	assert.Equal(t, int64(300), resp[0].Points)
}

func TestKarma_LeaderboardHandler_EmptyBoard(t *testing.T) {
	accounts := &mocksdb.KarmaDatabase{}
	accounts.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(nil, nil)

	h := handlers.Karma{DB: accounts}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/karma/leaderboard", nil)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.LeaderboardHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
