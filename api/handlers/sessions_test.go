package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jackle3/moderation-api/api/handlers"
	mocksdb "github.com/jackle3/moderation-api/databases/mocks"
	"github.com/jackle3/moderation-api/models"
)

func TestSessions_ActiveReportsHandler(t *testing.T) {
	engine := newHandlerEngine(t, map[string]string{"community-1": "mod-channel-1"})
	u := handlers.Sessions{Engine: engine}
	sessionID := escalatedSession(t, engine)

	req, err := http.NewRequest("GET", "/api/v1/reports/active/community-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"community_id": "community-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ActiveReportsHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var got struct {
		Reports []models.ReportSession `json:"reports"`
		Count   int                    `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, sessionID, got.Reports[0].ID)
}

func TestSessions_ActiveReportsHandlerEmptyCommunity(t *testing.T) {
	engine := newHandlerEngine(t, map[string]string{"community-1": "mod-channel-1"})
	u := handlers.Sessions{Engine: engine}
	escalatedSession(t, engine)

	req, err := http.NewRequest("GET", "/api/v1/reports/active/community-2", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"community_id": "community-2"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ActiveReportsHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	assert.JSONEq(t, `{"reports": [], "count": 0}`, rr.Body.String())
}

func TestSessions_ArchivedReportsHandler(t *testing.T) {
	archive := &mocksdb.ReportArchiveDatabase{}
	archive.On("FindByCommunity", mock.Anything, "community-1", 2, 10).
		Return([]models.ReportSession{{ID: "report-1", Outcome: models.OutcomeActioned}}, nil)

	u := handlers.Sessions{Engine: newHandlerEngine(t, nil), Archive: archive}

	req, err := http.NewRequest("GET", "/api/v1/reports/archive/community-1?page=2&limit=10", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"community_id": "community-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ArchivedReportsHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var got struct {
		Reports []models.ReportSession `json:"reports"`
		Count   int                    `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "report-1", got.Reports[0].ID)
	archive.AssertExpectations(t)
}

func TestSessions_ArchivedReportsHandlerDatabaseError(t *testing.T) {
	archive := &mocksdb.ReportArchiveDatabase{}
	archive.On("FindByCommunity", mock.Anything, "community-1", 0, 0).
		Return(nil, errors.New("mocked-error"))

	u := handlers.Sessions{Engine: newHandlerEngine(t, nil), Archive: archive}

	req, err := http.NewRequest("GET", "/api/v1/reports/archive/community-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"community_id": "community-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ArchivedReportsHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusInternalServerError)
	}
}
