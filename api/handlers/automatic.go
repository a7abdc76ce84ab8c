package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/config"
	"github.com/jackle3/moderation-api/flow"
	"github.com/jackle3/moderation-api/models"
)

// Automatic ingests classifier verdicts and turns the confident ones into
// moderation sessions that skip the reporter flow entirely.
type Automatic struct {
	Engine        *flow.Engine
	MinConfidence float64
}

type automaticReportRequest struct {
	Message models.TargetMessage    `json:"message"`
	Result  models.ClassifierResult `json:"result"`
}

// AutomaticReportHandler files a classifier verdict as a report. Verdicts
// below the confidence floor are acknowledged and dropped.
func (a Automatic) AutomaticReportHandler(w http.ResponseWriter, r *http.Request) {
	var req automaticReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Message.MessageID == "" || req.Message.CommunityID == "" {
		config.ErrorStatus("message is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	if req.Result.Confidence < a.MinConfidence {
		zap.S().Infow("classifier verdict below confidence floor, dropping",
			"message_id", req.Message.MessageID,
			"confidence", req.Result.Confidence,
			"floor", a.MinConfidence,
		)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	snap, err := a.Engine.SubmitAutomatic(r.Context(), req.Message, req.Result)
	if err != nil {
		if errors.Is(err, flow.ErrNoModeratorSurface) {
			// nowhere to escalate, the engine already logged the drop
			w.WriteHeader(http.StatusNoContent)
			return
		}
		flowErrorStatus("failed to file automatic report", w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	b, _ := json.Marshal(snap)
	_, _ = w.Write(b)
}
