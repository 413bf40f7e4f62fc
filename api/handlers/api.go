package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/foundit-campus/foundit-api/api"
	"github.com/foundit-campus/foundit-api/api/scheduler"
	"github.com/foundit-campus/foundit-api/config"
	"github.com/foundit-campus/foundit-api/databases"
	"github.com/foundit-campus/foundit-api/gemini"
	"github.com/foundit-campus/foundit-api/images"
	"github.com/foundit-campus/foundit-api/karma"
	"github.com/foundit-campus/foundit-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
	uploader  images.Uploader
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper), JWTSecret: a.Config.JWTSecret}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	ledger := karma.NewLedger(
		databases.NewKarmaDatabase(a.dbHelper),
		databases.NewCreditEventDatabase(a.dbHelper),
		nil,
	)
	hub := NewAlertHub()

	ttl := a.Config.CorpusCacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	item := Item{
		DB:       databases.NewItemDatabase(a.dbHelper),
		UserDB:   databases.NewUserDatabase(a.dbHelper),
		Ledger:   ledger,
		Analyzer: &gemini.Service{APIKey: a.Config.GeminiAPIKey, Model: a.Config.GeminiModel},
		Images:   a.uploader,
		Hub:      hub,
	}
	lost := LostReport{
		DB:     databases.NewLostReportDatabase(a.dbHelper),
		ItemDB: databases.NewItemDatabase(a.dbHelper),
		UserDB: databases.NewUserDatabase(a.dbHelper),
		Ledger: ledger,
		Hub:    hub,
		Corpus: gocache.New(ttl, 2*ttl),
	}
	k := Karma{DB: databases.NewKarmaDatabase(a.dbHelper), Ledger: ledger}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	// Long-lived websocket connections live outside this subrouter on purpose.
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/item", api.Middleware(http.HandlerFunc(item.CreateItemHandler))).Methods("POST")
	apiCreate.Handle("/items", api.Middleware(http.HandlerFunc(item.ItemsHandler))).Methods("GET")
	apiCreate.Handle("/items/overdue", api.Middleware(http.HandlerFunc(item.OverdueItemsHandler))).Methods("GET")
	apiCreate.Handle("/items/user/{user_id}", api.Middleware(http.HandlerFunc(item.ItemsByUserIDHandler))).Methods("GET")
	apiCreate.Handle("/item/{item_id}", api.Middleware(http.HandlerFunc(item.ItemByIDHandler))).Methods("GET")
	apiCreate.Handle("/item/{item_id}/handover", api.Middleware(http.HandlerFunc(item.HandoverItemHandler))).Methods("PUT")
	apiCreate.Handle("/item/{item_id}/return", api.Middleware(http.HandlerFunc(item.ReturnItemHandler))).Methods("PUT")

	apiCreate.Handle("/lost-report", api.Middleware(http.HandlerFunc(lost.CreateLostReportHandler))).Methods("POST")
	apiCreate.Handle("/lost-reports", api.Middleware(http.HandlerFunc(lost.LostReportsHandler))).Methods("GET")
	apiCreate.Handle("/lost-reports/search", api.Middleware(http.HandlerFunc(lost.SearchLostReportHandler))).Methods("POST")
	apiCreate.Handle("/lost-report/{report_id}", api.Middleware(http.HandlerFunc(lost.ResolveLostReportHandler))).Methods("DELETE")

	apiCreate.Handle("/karma/leaderboard", api.Middleware(http.HandlerFunc(k.LeaderboardHandler))).Methods("GET")
	apiCreate.Handle("/karma/{user_id}", api.Middleware(http.HandlerFunc(k.KarmaByUserIDHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	r.Handle("/ws/alerts", api.Middleware(http.HandlerFunc(hub.HandleAlertsWebSocket)))

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("foundit-api has connected to the database")

	if a.Config.CloudinaryURL != "" {
		uploader, err := images.NewCloudinaryUploader(a.Config.CloudinaryURL)
		if err != nil {
			zap.S().With(err).Error("failed to create cloudinary uploader")
			return err
		}
		a.uploader = uploader
	} else {
		zap.S().Warn("CLOUDINARY_URL not set, uploaded images will not be hosted")
	}

	a.Scheduler = scheduler.NewScheduler(databases.NewItemDatabase(a.dbHelper), &a.Config)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
