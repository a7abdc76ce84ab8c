package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jackle3/moderation-api/config"
	"github.com/jackle3/moderation-api/databases"
	"github.com/jackle3/moderation-api/flow"
	"github.com/jackle3/moderation-api/models"
)

// Sessions exposes read-only views over the live session store and the
// archive of closed reports.
type Sessions struct {
	Engine  *flow.Engine
	Archive databases.ReportArchiveDatabase
}

type activeReportsResponse struct {
	Reports []models.ReportSession `json:"reports"`
	Count   int                    `json:"count"`
}

// ActiveReportsHandler lists the open reports for a community, newest first
func (s Sessions) ActiveReportsHandler(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["community_id"]

	reports := s.Engine.ListActive(communityID)
	if reports == nil {
		reports = []models.ReportSession{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(activeReportsResponse{Reports: reports, Count: len(reports)})
	_, _ = w.Write(b)
}

// ArchivedReportsHandler pages through a community's closed reports
func (s Sessions) ArchivedReportsHandler(w http.ResponseWriter, r *http.Request) {
	communityID := mux.Vars(r)["community_id"]

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	reports, err := s.Archive.FindByCommunity(r.Context(), communityID, page, limit)
	if err != nil {
		config.ErrorStatus("failed to fetch archived reports", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(activeReportsResponse{Reports: reports, Count: len(reports)})
	_, _ = w.Write(b)
}
