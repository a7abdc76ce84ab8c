package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/jackle3/moderation-api/api/handlers"
	"github.com/jackle3/moderation-api/models"
)

func TestReport_CreateReportHandler(t *testing.T) {
	engine := newHandlerEngine(t, map[string]string{"community-1": "mod-channel-1"})
	u := handlers.Report{Engine: engine}

	body, _ := json.Marshal(map[string]interface{}{
		"reporterId": "reporter-1",
		"message":    handlerMessage(),
	})
	req, err := http.NewRequest("POST", "/api/v1/reports", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(u.CreateReportHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusCreated {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusCreated)
	}

	var snap models.ReportSession
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, models.OriginManual, snap.Origin)
	assert.Equal(t, models.LifecycleCollecting, snap.Lifecycle)
	assert.Equal(t, "reporter-1", snap.ReporterID)
}

func TestReport_CreateReportHandlerBadBody(t *testing.T) {
	u := handlers.Report{Engine: newHandlerEngine(t, nil)}

	req, err := http.NewRequest("POST", "/api/v1/reports", bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestReport_CreateReportHandlerMissingFields(t *testing.T) {
	u := handlers.Report{Engine: newHandlerEngine(t, nil)}

	body, _ := json.Marshal(map[string]interface{}{"reporterId": "reporter-1"})
	req, err := http.NewRequest("POST", "/api/v1/reports", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CreateReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestReport_ReporterInputHandler(t *testing.T) {
	engine := newHandlerEngine(t, map[string]string{"community-1": "mod-channel-1"})
	u := handlers.Report{Engine: engine}

	snap, err := engine.OpenReport(context.Background(), "reporter-1", handlerMessage())
	if err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(map[string]interface{}{"value": "fraud"})
	req, err := http.NewRequest("POST", "/api/v1/reports/"+snap.ID+"/input", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"session_id": snap.ID})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ReporterInputHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var got models.ReportSession
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []string{"fraud"}, got.CategoryPath)
}

func TestReport_ReporterInputHandlerUnknownSession(t *testing.T) {
	u := handlers.Report{Engine: newHandlerEngine(t, nil)}

	body, _ := json.Marshal(map[string]interface{}{"value": "fraud"})
	req, err := http.NewRequest("POST", "/api/v1/reports/nope/input", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"session_id": "nope"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ReporterInputHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
}

func TestReport_ReporterInputHandlerInvalidSelection(t *testing.T) {
	engine := newHandlerEngine(t, nil)
	u := handlers.Report{Engine: engine}

	snap, err := engine.OpenReport(context.Background(), "reporter-1", handlerMessage())
	if err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(map[string]interface{}{"value": "not-a-category"})
	req, err := http.NewRequest("POST", "/api/v1/reports/"+snap.ID+"/input", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"session_id": snap.ID})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ReporterInputHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestReport_ReporterNoteHandlerSubmits(t *testing.T) {
	engine := newHandlerEngine(t, map[string]string{"community-1": "mod-channel-1"})
	u := handlers.Report{Engine: engine}

	ctx := context.Background()
	snap, err := engine.OpenReport(ctx, "reporter-1", handlerMessage())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.ReporterInput(ctx, snap.ID, "fraud", -1); err != nil {
		t.Fatal(err)
	}
	if err := engine.ReporterInput(ctx, snap.ID, "phishing", -1); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(map[string]interface{}{"note": "they asked for my password"})
	req, err := http.NewRequest("POST", "/api/v1/reports/"+snap.ID+"/note", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"session_id": snap.ID})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ReporterNoteHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var got models.ReportSession
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, models.LifecycleEscalated, got.Lifecycle)
	assert.Equal(t, "they asked for my password", got.Note)
}

func TestReport_ReporterNoteHandlerNoSurface(t *testing.T) {
	engine := newHandlerEngine(t, nil)
	u := handlers.Report{Engine: engine}

	ctx := context.Background()
	snap, err := engine.OpenReport(ctx, "reporter-1", handlerMessage())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.ReporterInput(ctx, snap.ID, "spam", -1); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(map[string]interface{}{"skip": true})
	req, err := http.NewRequest("POST", "/api/v1/reports/"+snap.ID+"/note", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"session_id": snap.ID})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.ReporterNoteHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusServiceUnavailable {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusServiceUnavailable)
	}
}

func TestReport_CancelReportHandler(t *testing.T) {
	engine := newHandlerEngine(t, nil)
	u := handlers.Report{Engine: engine}

	snap, err := engine.OpenReport(context.Background(), "reporter-1", handlerMessage())
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest("DELETE", "/api/v1/reports/"+snap.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"session_id": snap.ID})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.CancelReportHandler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	assert.JSONEq(t, `{"message": "report cancelled"}`, rr.Body.String())

	// cancelling again hits a closed session
	req2, _ := http.NewRequest("DELETE", "/api/v1/reports/"+snap.ID, nil)
	req2 = mux.SetURLVars(req2, map[string]string{"session_id": snap.ID})
	rr2 := httptest.NewRecorder()
	http.HandlerFunc(u.CancelReportHandler).ServeHTTP(rr2, req2)

	if status := rr2.Code; status != http.StatusConflict {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusConflict)
	}
}
