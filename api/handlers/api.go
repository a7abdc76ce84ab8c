package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/api"
	"github.com/jackle3/moderation-api/config"
	"github.com/jackle3/moderation-api/databases"
	"github.com/jackle3/moderation-api/flow"
	"github.com/jackle3/moderation-api/models"
)

// App stores the router, engine and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Engine   *flow.Engine
	Hub      *NotificationHub
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewModeratorDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	report := Report{Engine: a.Engine}
	mod := Moderation{Engine: a.Engine}
	auto := Automatic{Engine: a.Engine, MinConfidence: a.Config.MinConfidence}
	sessions := Sessions{Engine: a.Engine, Archive: databases.NewReportArchiveDatabase(a.dbHelper)}
	metrics := MetricsHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/report", http.HandlerFunc(report.CreateReportHandler)).Methods("POST")
	apiCreate.Handle("/report/{session_id}/input", http.HandlerFunc(report.ReporterInputHandler)).Methods("POST")
	apiCreate.Handle("/report/{session_id}/note", http.HandlerFunc(report.ReporterNoteHandler)).Methods("POST")
	apiCreate.Handle("/report/{session_id}", http.HandlerFunc(report.CancelReportHandler)).Methods("DELETE")

	apiCreate.Handle("/moderation/{session_id}/claim", api.Middleware(http.HandlerFunc(mod.ClaimHandler))).Methods("POST")
	apiCreate.Handle("/moderation/{session_id}/input", api.Middleware(http.HandlerFunc(mod.ModeratorInputHandler))).Methods("POST")
	apiCreate.Handle("/moderation/{session_id}/dismiss", api.Middleware(http.HandlerFunc(mod.DismissHandler))).Methods("POST")

	apiCreate.Handle("/reports/automatic", http.HandlerFunc(auto.AutomaticReportHandler)).Methods("POST")
	apiCreate.Handle("/reports/active/{community_id}", api.Middleware(http.HandlerFunc(sessions.ActiveReportsHandler))).Methods("GET")
	apiCreate.Handle("/reports/archive/{community_id}", api.Middleware(http.HandlerFunc(sessions.ArchivedReportsHandler))).Methods("GET")

	apiCreate.Handle("/metrics", api.Middleware(http.HandlerFunc(metrics.GetMetricsSummary))).Methods("GET")

	r.HandleFunc("/ws/notifications", a.Hub.HandleNotificationsWebSocket)

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
	zap.S().Info("moderation-api has connected to the database")

	a.Hub = NewNotificationHub()

	engine, err := flow.New(flow.Config{
		Taxonomy:          models.DefaultTaxonomy(),
		ModeratorSurfaces: a.Config.ModeratorSurfaces,
		NoteLimit:         a.Config.NoteLimit,
		PromptTimeout:     a.Config.PromptTimeout,
	}, a.Hub)
	if err != nil {
		zap.S().With(err).Error("failed to create moderation engine")
		return err
	}
	engine.Archive = databases.NewReportArchiveDatabase(a.dbHelper)
	engine.Oversight = EmailOversight{Recipient: a.Config.OversightEmail}
	a.Engine = engine

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
