package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/foundit-campus/foundit-api/api"
	"github.com/foundit-campus/foundit-api/config"
	"github.com/foundit-campus/foundit-api/databases"
	"github.com/foundit-campus/foundit-api/gemini"
	"github.com/foundit-campus/foundit-api/images"
	"github.com/foundit-campus/foundit-api/karma"
	"github.com/foundit-campus/foundit-api/models"
)

// Item exported for testing purposes
type Item struct {
	DB       databases.ItemDatabase
	UserDB   databases.UserDatabase
	Ledger   *karma.Ledger
	Analyzer gemini.Analyzer
	Images   images.Uploader
	Hub      *AlertHub
}

// ItemsPaginatedResponse holds the structure for paginated item responses
type ItemsPaginatedResponse struct {
	Page       int                `json:"page"`
	TotalCount int64              `json:"totalCount"`
	Data       []models.FoundItem `json:"data"`
}

type createItemRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// CreateItemHandler uploads a found item: the photo is analyzed by the AI
// service, hosted on cloudinary and the finder is credited ten karma points.
// An analysis failure creates no record at all.
func (i Item) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated actor", http.StatusUnauthorized, w, errors.New("missing actor"))
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Image == "" {
		config.ErrorStatus("image is required", http.StatusBadRequest, w, errors.New("empty image payload"))
		return
	}

	// Browsers send data URLs; keep only the payload after the comma.
	payload := req.Image
	if idx := strings.Index(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}
	imageBytes, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		config.ErrorStatus("failed to decode image payload", http.StatusBadRequest, w, err)
		return
	}

	attrs, err := i.Analyzer.Analyze(r.Context(), imageBytes, req.MimeType)
	if err != nil {
		config.ErrorStatus("image analysis failed", http.StatusBadGateway, w, err)
		return
	}

	imageURL := ""
	if i.Images != nil {
		imageURL, err = i.Images.Upload(r.Context(), imageBytes)
		if err != nil {
			config.ErrorStatus("failed to upload image", http.StatusInternalServerError, w, err)
			return
		}
	}

	foundByName := ""
	phoneNumber := ""
	uID, err := primitive.ObjectIDFromHex(actor.ID)
	if err == nil {
		ctx, cancel := api.WithQueryTimeout(r.Context())
		defer cancel()
		user, err := i.UserDB.FindOne(ctx, bson.M{"_id": uID})
		if err != nil {
			zap.S().Warnw("failed to load uploader profile", "userID", actor.ID, "error", err)
		} else {
			foundByName = user.Details.Name
			phoneNumber = user.Details.PhoneNumber
		}
	}

	newItem := models.FoundItem{
		ID: primitive.NewObjectID(),
		Details: models.FoundItemDetails{
			Title:       attrs.Title,
			Category:    attrs.Category,
			Color:       attrs.Color,
			Brand:       attrs.Brand,
			Tags:        attrs.Tags,
			ImageURL:    imageURL,
			FoundByID:   actor.ID,
			FoundByName: foundByName,
			Email:       actor.Email,
			PhoneNumber: phoneNumber,
			Status:      models.StatusWithFinder,
			CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	if _, err := i.DB.InsertOne(r.Context(), newItem); err != nil {
		config.ErrorStatus("failed to create item", http.StatusInternalServerError, w, err)
		return
	}

	total, err := i.Ledger.Credit(r.Context(), karma.ItemPosted(newItem.ID.Hex(), actor.ID))
	if err != nil {
		// The item is already committed; replaying the credit under the same
		// event key applies the missing points exactly once.
		config.ErrorStatus("item created but karma credit failed", http.StatusInternalServerError, w, err)
		return
	}

	i.Hub.SendToUser(actor.ID, "karma_credit", map[string]interface{}{
		"points": karma.PointsItemPosted,
		"total":  total,
		"itemId": newItem.ID.Hex(),
	})

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Item posted successfully",
		"id":      newItem.ID.Hex(),
		"item":    newItem,
		"karma":   total,
	})
}

// ItemByIDHandler retrieves a found item by its ID
func (i Item) ItemByIDHandler(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["item_id"]

	iID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	filter := bson.M{"_id": iID}
	item, err := i.DB.FindOne(r.Context(), filter)
	if err != nil {
		config.ErrorStatus("failed to find item", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(item)
}

// ItemsHandler returns all found items, paginated, newest first
func (i Item) ItemsHandler(w http.ResponseWriter, r *http.Request) {
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
	if status := r.URL.Query().Get("status"); status != "" {
		filter["item.status"] = status
	}

	totalCount, err := i.DB.CountDocuments(r.Context(), filter)
	if err != nil {
		config.ErrorStatus("failed to get total count of items", http.StatusInternalServerError, w, err)
		return
	}

	sort := bson.D{{Key: "item.createdAt", Value: -1}}
	dbResp, err := i.DB.Find(r.Context(), filter, &options.FindOptions{Limit: &limit64, Skip: &skip64, Sort: sort})
	if err != nil {
		config.ErrorStatus("failed to get items", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.FoundItem{}
	}

	paginatedResponse := ItemsPaginatedResponse{
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

// ItemsByUserIDHandler returns all found items posted by the given user
func (i Item) ItemsByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	dbResp, err := i.DB.Find(r.Context(), bson.M{"item.foundByID": userID})
	if err != nil {
		config.ErrorStatus("failed to get items by user ID", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.FoundItem{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// OverdueItemsHandler returns the actor's items that have sat with them for
// more than seven days. Overdue is recomputed on every call, never stored.
func (i Item) OverdueItemsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated actor", http.StatusUnauthorized, w, errors.New("missing actor"))
		return
	}

	dbResp, err := i.DB.Find(r.Context(), bson.M{
		"item.foundByID": actor.ID,
		"item.status":    models.StatusWithFinder,
	})
	if err != nil {
		config.ErrorStatus("failed to get items", http.StatusNotFound, w, err)
		return
	}

	now := time.Now()
	overdue := []models.FoundItem{}
	for _, item := range dbResp {
		if item.Overdue(now) {
			overdue = append(overdue, item)
		}
	}

	b, err := json.Marshal(overdue)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// HandoverItemHandler marks an overdue item as dropped at the guard gate and
// credits the finder fifty points. Only the finder may hand their item over,
// only from the With Finder status and only once it is overdue.
func (i Item) HandoverItemHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated actor", http.StatusUnauthorized, w, errors.New("missing actor"))
		return
	}

	itemID := mux.Vars(r)["item_id"]
	iID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	item, err := i.DB.FindOne(r.Context(), bson.M{"_id": iID})
	if err != nil {
		config.ErrorStatus("failed to find item", http.StatusNotFound, w, err)
		return
	}

	if item.Details.FoundByID != actor.ID {
		config.ErrorStatus("only the finder can hand over an item", http.StatusForbidden, w, errors.New("actor does not own item"))
		return
	}
	if item.Details.Status != models.StatusWithFinder {
		config.ErrorStatus("item is no longer with its finder", http.StatusConflict, w, errors.New("invalid status transition"))
		return
	}
	if !item.Overdue(time.Now()) {
		config.ErrorStatus("item is not overdue yet", http.StatusConflict, w, errors.New("handover requires an overdue item"))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	update := bson.M{"$set": bson.M{
		"item.status":       models.StatusAtSecurity,
		"item.handoverDate": now,
	}}
	if err := i.DB.UpdateOne(r.Context(), bson.M{"_id": iID}, update); err != nil {
		config.ErrorStatus("failed to update item", http.StatusInternalServerError, w, err)
		return
	}

	total, err := i.Ledger.Credit(r.Context(), karma.Handover(itemID, actor.ID))
	if err != nil {
		// Status change already committed; the credit is replayable by key.
		config.ErrorStatus("item handed over but karma credit failed", http.StatusInternalServerError, w, err)
		return
	}

	i.Hub.SendToUser(actor.ID, "karma_credit", map[string]interface{}{
		"points": karma.PointsHandover,
		"total":  total,
		"itemId": itemID,
	})

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Item marked as dropped at security",
		"karma":   total,
	})
}

type returnItemRequest struct {
	ReturnedTo string `json:"returnedTo"`
}

// ReturnItemHandler marks an item as returned to its owner and credits the
// finder one hundred points. The receiver identity is required; an item
// already returned or at security cannot be returned again.
func (i Item) ReturnItemHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFrom(r.Context())
	if !ok {
		config.ErrorStatus("no authenticated actor", http.StatusUnauthorized, w, errors.New("missing actor"))
		return
	}

	itemID := mux.Vars(r)["item_id"]
	iID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req returnItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.ReturnedTo) == "" {
		config.ErrorStatus("returnedTo is required", http.StatusBadRequest, w, errors.New("empty receiver identity"))
		return
	}

	item, err := i.DB.FindOne(r.Context(), bson.M{"_id": iID})
	if err != nil {
		config.ErrorStatus("failed to find item", http.StatusNotFound, w, err)
		return
	}

	if item.Details.FoundByID != actor.ID {
		config.ErrorStatus("only the finder can mark an item returned", http.StatusForbidden, w, errors.New("actor does not own item"))
		return
	}
	if item.Details.Status == models.StatusReturned || item.Details.Status == models.StatusAtSecurity {
		config.ErrorStatus("item already reached a terminal status", http.StatusConflict, w, errors.New("invalid status transition"))
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	update := bson.M{"$set": bson.M{
		"item.status":       models.StatusReturned,
		"item.returnedTo":   req.ReturnedTo,
		"item.returnedDate": now,
	}}
	if err := i.DB.UpdateOne(r.Context(), bson.M{"_id": iID}, update); err != nil {
		config.ErrorStatus("failed to update item", http.StatusInternalServerError, w, err)
		return
	}

	total, err := i.Ledger.Credit(r.Context(), karma.Returned(itemID, actor.ID))
	if err != nil {
		config.ErrorStatus("item returned but karma credit failed", http.StatusInternalServerError, w, err)
		return
	}

	i.Hub.SendToUser(actor.ID, "karma_credit", map[string]interface{}{
		"points": karma.PointsReturned,
		"total":  total,
		"itemId": itemID,
	})

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Item marked as returned",
		"karma":   total,
	})
}
