package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jackle3/moderation-api/config"
	"github.com/jackle3/moderation-api/flow"
)

// Moderation handles the moderator side of the workflow: claiming an
// escalated report, walking the action prompts and dismissing.
type Moderation struct {
	Engine *flow.Engine
}

type moderatorActionRequest struct {
	ActorID string `json:"actorId"`
	Value   string `json:"value,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ClaimHandler assigns the session to the first moderator who engages it
func (m Moderation) ClaimHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	var req moderatorActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ActorID == "" {
		config.ErrorStatus("actorId is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	if err := m.Engine.Claim(r.Context(), sessionID, req.ActorID); err != nil {
		flowErrorStatus("failed to claim report", w, err)
		return
	}
	writeSessionJSON(w, m.Engine, sessionID)
}

// ModeratorInputHandler records a severity, message-action or user-action
// selection from the claiming moderator
func (m Moderation) ModeratorInputHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	var req moderatorActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ActorID == "" {
		config.ErrorStatus("actorId is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	if err := m.Engine.ModeratorInput(r.Context(), sessionID, req.Value, req.ActorID); err != nil {
		flowErrorStatus("failed to record decision", w, err)
		return
	}

	sess, ok := m.Engine.Store().Get(sessionID)
	if !ok {
		// the input completed the flow and the retention sweep may already
		// have collected the session; report success regardless
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "decision recorded"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(sess.Snapshot())
	_, _ = w.Write(b)
}

// DismissHandler closes the report without taking action
func (m Moderation) DismissHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	var req moderatorActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ActorID == "" {
		config.ErrorStatus("actorId is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	if err := m.Engine.Dismiss(r.Context(), sessionID, req.Reason, req.ActorID); err != nil {
		flowErrorStatus("failed to dismiss report", w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"message": "report dismissed"}`))
}
