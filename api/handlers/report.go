package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jackle3/moderation-api/config"
	"github.com/jackle3/moderation-api/flow"
	"github.com/jackle3/moderation-api/models"
)

// Report handles the reporter side of the workflow: opening a report,
// answering taxonomy prompts, attaching the optional note and cancelling.
type Report struct {
	Engine *flow.Engine
}

type createReportRequest struct {
	ReporterID string               `json:"reporterId"`
	Message    models.TargetMessage `json:"message"`
}

type reporterInputRequest struct {
	Value string `json:"value"`
	Level *int   `json:"level,omitempty"`
}

type reporterNoteRequest struct {
	Note string `json:"note"`
	Skip bool   `json:"skip"`
}

// CreateReportHandler opens a new manual report session
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ReporterID == "" || req.Message.MessageID == "" || req.Message.CommunityID == "" {
		config.ErrorStatus("reporterId and message are required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	snap, err := re.Engine.OpenReport(r.Context(), req.ReporterID, req.Message)
	if err != nil {
		flowErrorStatus("failed to open report", w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(snap)
	_, _ = w.Write(b)
}

// ReporterInputHandler records a taxonomy selection for the session
func (re Report) ReporterInputHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	var req reporterInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	level := -1
	if req.Level != nil {
		level = *req.Level
	}
	if err := re.Engine.ReporterInput(r.Context(), sessionID, req.Value, level); err != nil {
		flowErrorStatus("failed to record selection", w, err)
		return
	}
	writeSessionJSON(w, re.Engine, sessionID)
}

// ReporterNoteHandler attaches the optional free-form note (or skips it)
// and submits the report to the moderator surface
func (re Report) ReporterNoteHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	var req reporterNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := re.Engine.ReporterNote(r.Context(), sessionID, req.Note, req.Skip); err != nil {
		flowErrorStatus("failed to submit report", w, err)
		return
	}
	writeSessionJSON(w, re.Engine, sessionID)
}

// CancelReportHandler abandons a report that has not been submitted yet
func (re Report) CancelReportHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	if err := re.Engine.CancelReport(r.Context(), sessionID); err != nil {
		flowErrorStatus("failed to cancel report", w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"message": "report cancelled"}`))
}

var errMissingFields = errors.New("missing required fields")

// flowErrorStatus maps the engine's sentinel errors onto HTTP statuses.
func flowErrorStatus(message string, w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, flow.ErrUnknownSession):
		code = http.StatusNotFound
	case errors.Is(err, flow.ErrStaleInteraction),
		errors.Is(err, flow.ErrLostRace),
		errors.Is(err, flow.ErrNoteAlreadySet):
		code = http.StatusConflict
	case errors.Is(err, flow.ErrInvalidSelection):
		code = http.StatusBadRequest
	case errors.Is(err, flow.ErrNoModeratorSurface):
		code = http.StatusServiceUnavailable
	}
	config.ErrorStatus(message, code, w, err)
}

func writeSessionJSON(w http.ResponseWriter, engine *flow.Engine, sessionID string) {
	sess, ok := engine.Store().Get(sessionID)
	if !ok {
		config.ErrorStatus("session not found", http.StatusNotFound, w, flow.ErrUnknownSession)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(sess.Snapshot())
	_, _ = w.Write(b)
}
