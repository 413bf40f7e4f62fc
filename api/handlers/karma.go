package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foundit-campus/foundit-api/config"
	"github.com/foundit-campus/foundit-api/databases"
	"github.com/foundit-campus/foundit-api/karma"
	"github.com/foundit-campus/foundit-api/models"
)

// Karma exported for testing purposes
type Karma struct {
	DB     databases.KarmaDatabase
	Ledger *karma.Ledger
}

// KarmaByUserIDHandler returns the karma total for a user, creating the
// account with zero points when it does not exist yet.
func (k Karma) KarmaByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	total, err := k.Ledger.Read(r.Context(), userID)
	if err != nil {
		config.ErrorStatus("failed to read karma account", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"userId": userID,
		"points": total,
	})
}

// LeaderboardHandler returns the highest karma accounts, best first
func (k Karma) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit <= 0 {
		Limit = 10
	}
	limit64 := int64(Limit)

	sort := bson.D{{Key: "points", Value: -1}}
	accounts, err := k.DB.Find(r.Context(), bson.M{}, &options.FindOptions{Limit: &limit64, Sort: sort})
	if err != nil {
		config.ErrorStatus("failed to get leaderboard", http.StatusInternalServerError, w, err)
		return
	}
	if len(accounts) == 0 {
		accounts = []models.KarmaAccount{}
	}

	b, err := json.Marshal(accounts)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
