package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/foundit-campus/foundit-api/api"
	"github.com/foundit-campus/foundit-api/api/handlers"
	mocksdb "github.com/foundit-campus/foundit-api/databases/mocks"
	"github.com/foundit-campus/foundit-api/karma"
	"github.com/foundit-campus/foundit-api/models"
)

func corpusItem(title, category, color, finderID string) models.FoundItem {
	return models.FoundItem{
		ID: primitive.NewObjectID(),
		Details: models.FoundItemDetails{
			Title:       title,
			Category:    category,
			Color:       color,
			FoundByID:   finderID,
			FoundByName: "Priya Shah",
			Email:       "priya@campus.edu",
			Status:      models.StatusWithFinder,
			CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
		},
	}
}

func TestLostReport_SearchLostReportHandler(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex(), Email: "owner@campus.edu"}

	itemDB := &mocksdb.ItemDatabase{}
	itemDB.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.FoundItem{
		corpusItem("Blue Wallet", "Wallet", "Blue", "finder-1"),
		corpusItem("Red Umbrella", "Umbrella", "Red", "finder-2"),
	}, nil)

	h := handlers.LostReport{
		ItemDB: itemDB,
		Corpus: gocache.New(time.Minute, 2*time.Minute),
	}

	body, _ := json.Marshal(map[string]interface{}{"name": "blue wallet"})
	req := authedRequest(http.MethodPost, "/api/v1/lost-reports/search", body, actor)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.SearchLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Count   int                     `json:"count"`
		Matches []models.MatchCandidate `json:"matches"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	// The umbrella scores 0 and the wallet 2, so only the wallet survives the
	// default threshold.
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 2, resp.Matches[0].MatchScore)
	// Finder identity is withheld from a searcher who is not the finder.
	assert.Equal(t, "Anonymous", resp.Matches[0].Details.FoundByName)
	assert.Empty(t, resp.Matches[0].Details.Email)
}

func TestLostReport_SearchLostReportHandler_ThresholdConfigurable(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}

	itemDB := &mocksdb.ItemDatabase{}
	itemDB.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.FoundItem{
		corpusItem("Blue Wallet", "Wallet", "Blue", "finder-1"),
	}, nil)

	h := handlers.LostReport{
		ItemDB: itemDB,
		Corpus: gocache.New(time.Minute, 2*time.Minute),
	}

	// A single-token query scores at most 1, below the default threshold of 2
	// but visible at an explicit threshold of 1.
	body, _ := json.Marshal(map[string]interface{}{"name": "wallet", "minScore": 1})
	req := authedRequest(http.MethodPost, "/api/v1/lost-reports/search", body, actor)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.SearchLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, 1, resp.Count)
}

func TestLostReport_SearchLostReportHandler_RequiresName(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}

	h := handlers.LostReport{Corpus: gocache.New(time.Minute, 2*time.Minute)}

	body, _ := json.Marshal(map[string]interface{}{"name": "   "})
	req := authedRequest(http.MethodPost, "/api/v1/lost-reports/search", body, actor)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.SearchLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLostReport_SearchLostReportHandler_UsesCachedCorpus(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}

	itemDB := &mocksdb.ItemDatabase{}
	itemDB.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.FoundItem{
		corpusItem("Blue Wallet", "Wallet", "Blue", "finder-1"),
	}, nil).Once()

	h := handlers.LostReport{
		ItemDB: itemDB,
		Corpus: gocache.New(time.Minute, 2*time.Minute),
	}

	body, _ := json.Marshal(map[string]interface{}{"name": "blue wallet"})
	for i := 0; i < 3; i++ {
		req := authedRequest(http.MethodPost, "/api/v1/lost-reports/search", body, actor)
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.SearchLostReportHandler).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	itemDB.AssertNumberOfCalls(t, "Find", 1)
}

func TestLostReport_CreateLostReportHandler(t *testing.T) {
	actorID := primitive.NewObjectID()
	actor := api.Actor{ID: actorID.Hex(), Email: "owner@campus.edu"}

	reportDB := &mocksdb.LostReportDatabase{}
	reportDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(report models.LostReport) bool {
		return report.Details.Name == "Black Umbrella" &&
			report.Details.UserID == actor.ID &&
			report.Details.Status == models.LostReportActive
	})).Return(nil, nil)

	userDB := &mocksdb.UserDatabase{}
	userDB.On("FindOne", mock.Anything, bson.M{"_id": actorID}).
		Return(&models.User{ID: actorID, Details: models.UserDetails{Name: "Dev Patel", PhoneNumber: "555-0199"}}, nil)

	h := handlers.LostReport{
		DB:     reportDB,
		UserDB: userDB,
		Hub:    handlers.NewAlertHub(),
	}

	body, _ := json.Marshal(map[string]string{"name": "Black Umbrella", "location": "Library"})
	req := authedRequest(http.MethodPost, "/api/v1/lost-report", body, actor)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.CreateLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	reportDB.AssertExpectations(t)
}

func storedReport(id primitive.ObjectID, userID string) *models.LostReport {
	return &models.LostReport{
		ID: id,
		Details: models.LostReportDetails{
			Name:      "Black Umbrella",
			UserID:    userID,
			Status:    models.LostReportActive,
			CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
		},
	}
}

func TestLostReport_ResolveLostReportHandler(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}
	reportID := primitive.NewObjectID()

	reportDB := &mocksdb.LostReportDatabase{}
	reportDB.On("FindOne", mock.Anything, bson.M{"_id": reportID}).Return(storedReport(reportID, actor.ID), nil)
	reportDB.On("DeleteOne", mock.Anything, bson.M{"_id": reportID}).Return(nil)

	h := handlers.LostReport{
		DB:     reportDB,
		UserDB: &mocksdb.UserDatabase{},
		Hub:    handlers.NewAlertHub(),
	}

	req := authedRequest(http.MethodDelete, "/api/v1/lost-report/"+reportID.Hex(), []byte(`{}`), actor)
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.ResolveLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["assistantCredited"])
	reportDB.AssertExpectations(t)
}

func TestLostReport_ResolveLostReportHandler_CreditsAssistant(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}
	reportID := primitive.NewObjectID()
	assistantID := primitive.NewObjectID()

	reportDB := &mocksdb.LostReportDatabase{}
	reportDB.On("FindOne", mock.Anything, bson.M{"_id": reportID}).Return(storedReport(reportID, actor.ID), nil)
	reportDB.On("DeleteOne", mock.Anything, bson.M{"_id": reportID}).Return(nil)

	userDB := &mocksdb.UserDatabase{}
	userDB.On("FindOne", mock.Anything, bson.M{"user.email": "helper@campus.edu"}).
		Return(&models.User{ID: assistantID, Details: models.UserDetails{Email: "helper@campus.edu"}}, nil)

	ledger, _, events := newTestLedger(t, assistantID.Hex(), karma.PointsAssist, 100)

	h := handlers.LostReport{
		DB:     reportDB,
		UserDB: userDB,
		Ledger: ledger,
		Hub:    handlers.NewAlertHub(),
	}

	body, _ := json.Marshal(map[string]string{"assistantEmail": "helper@campus.edu"})
	req := authedRequest(http.MethodDelete, "/api/v1/lost-report/"+reportID.Hex(), body, actor)
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.ResolveLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, true, resp["assistantCredited"])
	events.AssertNumberOfCalls(t, "InsertOne", 1)
}

func TestLostReport_ResolveLostReportHandler_UnknownAssistantIsNoOp(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}
	reportID := primitive.NewObjectID()

	reportDB := &mocksdb.LostReportDatabase{}
	reportDB.On("FindOne", mock.Anything, bson.M{"_id": reportID}).Return(storedReport(reportID, actor.ID), nil)
	reportDB.On("DeleteOne", mock.Anything, bson.M{"_id": reportID}).Return(nil)

	userDB := &mocksdb.UserDatabase{}
	userDB.On("FindOne", mock.Anything, bson.M{"user.email": "nobody@campus.edu"}).
		Return(nil, mongo.ErrNoDocuments)

	events := &mocksdb.CreditEventDatabase{}

	h := handlers.LostReport{
		DB:     reportDB,
		UserDB: userDB,
		Ledger: karma.NewLedger(&mocksdb.KarmaDatabase{}, events, nil),
		Hub:    handlers.NewAlertHub(),
	}

	body, _ := json.Marshal(map[string]string{"assistantEmail": "nobody@campus.edu"})
	req := authedRequest(http.MethodDelete, "/api/v1/lost-report/"+reportID.Hex(), body, actor)
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.ResolveLostReportHandler).ServeHTTP(rr, req)

	// The deletion still goes through; the ledger is untouched.
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["assistantCredited"])
	reportDB.AssertExpectations(t)
	events.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestLostReport_ResolveLostReportHandler_OnlyReporterMayResolve(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}
	reportID := primitive.NewObjectID()

	reportDB := &mocksdb.LostReportDatabase{}
	reportDB.On("FindOne", mock.Anything, bson.M{"_id": reportID}).Return(storedReport(reportID, "someone-else"), nil)

	h := handlers.LostReport{DB: reportDB, Hub: handlers.NewAlertHub()}

	req := authedRequest(http.MethodDelete, "/api/v1/lost-report/"+reportID.Hex(), []byte(`{}`), actor)
	req = mux.SetURLVars(req, map[string]string{"report_id": reportID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.ResolveLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	reportDB.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestLostReport_LostReportsHandler_AnonymizesOtherReporters(t *testing.T) {
	actor := api.Actor{ID: primitive.NewObjectID().Hex()}

	mine := *storedReport(primitive.NewObjectID(), actor.ID)
	mine.Details.ContactName = "Me"
	mine.Details.ContactEmail = "me@campus.edu"
	theirs := *storedReport(primitive.NewObjectID(), "someone-else")
	theirs.Details.ContactName = "Them"
	theirs.Details.ContactEmail = "them@campus.edu"

	reportDB := &mocksdb.LostReportDatabase{}
	reportDB.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(2), nil)
	reportDB.On("Find", mock.Anything, bson.M{}, mock.Anything).Return([]models.LostReport{mine, theirs}, nil)

	h := handlers.LostReport{DB: reportDB}

	req := authedRequest(http.MethodGet, "/api/v1/lost-reports", nil, actor)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.LostReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp handlers.LostReportsPaginatedResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, "Me", resp.Data[0].Details.ContactName)
	assert.Equal(t, "Anonymous", resp.Data[1].Details.ContactName)
	assert.Empty(t, resp.Data[1].Details.ContactEmail)
}
