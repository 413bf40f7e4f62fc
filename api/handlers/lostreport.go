package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/foundit-campus/foundit-api/api"
	"github.com/foundit-campus/foundit-api/config"
	"github.com/foundit-campus/foundit-api/databases"
	"github.com/foundit-campus/foundit-api/karma"
	"github.com/foundit-campus/foundit-api/matcher"
	"github.com/foundit-campus/foundit-api/models"
)

// DefaultMinScore separates confident matches from single-token noise in the
// lost-report workflow. It is a caller policy, not part of the scorer.
const DefaultMinScore = 2

const corpusCacheKey = "items:corpus"

// LostReport exported for testing purposes
type LostReport struct {
	DB     databases.LostReportDatabase
	ItemDB databases.ItemDatabase
	UserDB databases.UserDatabase
	Ledger *karma.Ledger
	Hub    *AlertHub
	Corpus *gocache.Cache
}

// LostReportsPaginatedResponse holds the structure for paginated lost report responses
type LostReportsPaginatedResponse struct {
	Page       int                 `json:"page"`
	TotalCount int64               `json:"totalCount"`
	Data       []models.LostReport `json:"data"`
}

type searchRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	MinScore    int    `json:"minScore"`
}

type searchResponse struct {
	Query   string                  `json:"query"`
	Count   int                     `json:"count"`
	Matches []models.MatchCandidate `json:"matches"`
}

// SearchLostReportHandler ranks the found-item corpus against a lost-item
// description. The corpus snapshot is cached briefly so repeated searches do
// not hammer the store; the minimum score is caller-configurable and
// defaults to two.
func (l LostReport) SearchLostReportHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated actor", http.StatusUnauthorized, w, errors.New("missing actor"))
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		config.ErrorStatus("item name is required", http.StatusBadRequest, w, errors.New("empty query"))
		return
	}

	corpus, err := l.corpusSnapshot(r)
	if err != nil {
		config.ErrorStatus("failed to fetch found items", http.StatusInternalServerError, w, err)
		return
	}

	query := req.Name + " " + req.Description + " " + req.Location
	minScore := req.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	matches := matcher.FilterMinScore(matcher.Match(query, corpus), minScore)
	for idx := range matches {
		if matches[idx].Details.FoundByID != actor.ID {
			matches[idx].FoundItem = matches[idx].FoundItem.Anonymized()
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(searchResponse{
		Query:   query,
		Count:   len(matches),
		Matches: matches,
	})
}

func (l LostReport) corpusSnapshot(r *http.Request) ([]models.FoundItem, error) {
	if cached, found := l.Corpus.Get(corpusCacheKey); found {
		return cached.([]models.FoundItem), nil
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sort := bson.D{{Key: "item.createdAt", Value: -1}}
	corpus, err := l.ItemDB.Find(ctx, bson.M{}, &options.FindOptions{Sort: sort})
	if err != nil {
		return nil, err
	}
	l.Corpus.Set(corpusCacheKey, corpus, gocache.DefaultExpiration)
	return corpus, nil
}

type createLostReportRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	DateLost    string `json:"dateLost"`
}

// CreateLostReportHandler broadcasts a lost-item alert to the campus feed.
// Used when the search found nothing convincing and the reporter opts in.
func (l LostReport) CreateLostReportHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated actor", http.StatusUnauthorized, w, errors.New("missing actor"))
		return
	}

	var req createLostReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		config.ErrorStatus("item name is required", http.StatusBadRequest, w, errors.New("empty item name"))
		return
	}

	contactName := ""
	contactPhone := ""
	if uID, err := primitive.ObjectIDFromHex(actor.ID); err == nil {
		ctx, cancel := api.WithQueryTimeout(r.Context())
		defer cancel()
		user, err := l.UserDB.FindOne(ctx, bson.M{"_id": uID})
		if err != nil {
			zap.S().Warnw("failed to load reporter profile", "userID", actor.ID, "error", err)
		} else {
			contactName = user.Details.Name
			contactPhone = user.Details.PhoneNumber
		}
	}

	report := models.LostReport{
		ID: primitive.NewObjectID(),
		Details: models.LostReportDetails{
			Name:         req.Name,
			Description:  req.Description,
			Location:     req.Location,
			DateLost:     req.DateLost,
			UserID:       actor.ID,
			ContactName:  contactName,
			ContactEmail: actor.Email,
			ContactPhone: contactPhone,
			Status:       models.LostReportActive,
			CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	if _, err := l.DB.InsertOne(r.Context(), report); err != nil {
		config.ErrorStatus("failed to create lost report", http.StatusInternalServerError, w, err)
		return
	}

	l.Hub.Broadcast("lost_alert", report.Anonymized())

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Lost alert broadcasted",
		"id":      report.ID.Hex(),
	})
}

// LostReportsHandler returns active lost alerts, paginated, newest first.
// Reporter identity is withheld from everyone but the reporter themselves.
func (l LostReport) LostReportsHandler(w http.ResponseWriter, r *http.Request) {
	actor, _ := api.ActorFrom(r.Context())

	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		Limit = 10
	}
	limit64 := int64(Limit)
	Page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		Page = 0
	}
	skip64 := int64(Page * Limit)

	filter := bson.M{}

	totalCount, err := l.DB.CountDocuments(r.Context(), filter)
	if err != nil {
		config.ErrorStatus("failed to get total count of lost reports", http.StatusInternalServerError, w, err)
		return
	}

	sort := bson.D{{Key: "lostReport.createdAt", Value: -1}}
	dbResp, err := l.DB.Find(r.Context(), filter, &options.FindOptions{Limit: &limit64, Skip: &skip64, Sort: sort})
	if err != nil {
		config.ErrorStatus("failed to get lost reports", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.LostReport{}
	}
	for idx := range dbResp {
		if dbResp[idx].Details.UserID != actor.ID {
			dbResp[idx] = dbResp[idx].Anonymized()
		}
	}

	paginatedResponse := LostReportsPaginatedResponse{
		Page:       Page,
		TotalCount: totalCount,
		Data:       dbResp,
	}

	respB, err := json.Marshal(paginatedResponse)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}

type resolveReportRequest struct {
	AssistantEmail string `json:"assistantEmail"`
}

// ResolveLostReportHandler deletes a lost alert once the reporter confirms
// the item came back. Deletion is terminal: no archival copy is kept. An
// optional assistant email credits the named helper one hundred points; an
// email matching no account is a no-op and the deletion still goes through.
func (l LostReport) ResolveLostReportHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated actor", http.StatusUnauthorized, w, errors.New("missing actor"))
		return
	}

	reportID := mux.Vars(r)["report_id"]
	rID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req resolveReportRequest
	if r.Body != nil {
		// The body is optional; a missing or empty one means no assistant.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	report, err := l.DB.FindOne(r.Context(), bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to find lost report", http.StatusNotFound, w, err)
		return
	}

	if report.Details.UserID != actor.ID {
		config.ErrorStatus("only the reporter can resolve their alert", http.StatusForbidden, w, errors.New("actor does not own report"))
		return
	}

	if err := l.DB.DeleteOne(r.Context(), bson.M{"_id": rID}); err != nil {
		config.ErrorStatus("failed to delete lost report", http.StatusInternalServerError, w, err)
		return
	}

	assistantCredited := false
	if email := strings.TrimSpace(req.AssistantEmail); email != "" {
		assistant, err := l.UserDB.FindOne(r.Context(), bson.M{"user.email": email})
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			// Lookup miss is not an error; the report stays deleted and no
			// ledger changes.
			zap.S().Infow("assistant email matched no account", "email", email)
		case err != nil:
			config.ErrorStatus("report resolved but assistant lookup failed", http.StatusInternalServerError, w, err)
			return
		default:
			assistantID := assistant.ID.Hex()
			total, err := l.Ledger.Credit(r.Context(), karma.Assist(reportID, assistantID))
			if err != nil {
				config.ErrorStatus("report resolved but assistant credit failed", http.StatusInternalServerError, w, err)
				return
			}
			assistantCredited = true
			l.Hub.SendToUser(assistantID, "karma_credit", map[string]interface{}{
				"points":   karma.PointsAssist,
				"total":    total,
				"reportId": reportID,
			})
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":           "Lost alert resolved",
		"assistantCredited": assistantCredited,
	})
}
