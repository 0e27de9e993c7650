package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/matria/internal/config"
	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/orchestrator"
	"github.com/sandevgo/matria/internal/service/session"
	"github.com/sandevgo/matria/internal/service/triage"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	svc := triage.NewService(
		&config.AppConfig{HistoryWindowSize: 50},
		session.NewMemoryStore(50),
		orchestrator.New(),
		nil, nil, nil,
	)
	return NewServer(&config.ServerConfig{Addr: ":0", ShutdownGraceSeconds: 1}, svc)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, core.MatriaVersion, body["version"])
}

func TestPostMessage(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodPost, "/v1/messages",
		`{"user_id":"u1","message":"I've had a headache since yesterday"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var turn triage.Turn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	assert.NotEmpty(t, turn.SessionID)
	assert.NotEmpty(t, turn.Result.Response)
	// Default role is patient: no clinical view.
	assert.Nil(t, turn.Explanation.Clinical)
}

func TestPostMessageClinicianRole(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodPost, "/v1/messages",
		`{"user_id":"u1","role":"clinician","message":"patient reports headache and nausea"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var turn triage.Turn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	assert.NotNil(t, turn.Explanation.Clinical)
}

func TestPostMessageValidation(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/messages", `{"user_id":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/messages", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostMessageKeepsSession(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/messages",
		`{"user_id":"u1","message":"I've had a headache since yesterday"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var first triage.Turn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doJSON(t, s, http.MethodPost, "/v1/messages",
		`{"user_id":"u1","session_id":"`+first.SessionID+`","message":"now I feel nauseous too"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var second triage.Turn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestPostAssessment(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodPost, "/v1/assessments", `{
		"role": "clinician",
		"input": {
			"symptoms": [{"name": "severe headache", "severity": "severe"}],
			"pregnancy_stage": {"week": 34},
			"vital_signs": {"systolic_bp": 165, "diastolic_bp": 112}
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body assessmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, core.RiskLevel4, body.Result.RiskLevel)
	require.NotNil(t, body.Explanation.Clinical)
	assert.NotEmpty(t, body.Explanation.Clinical.Differentials)
}

func TestPostAssessmentValidation(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodPost, "/v1/assessments", `{"role":"clinician","input":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	s := testServer(t)
	rec := doJSON(t, s, http.MethodDelete, "/v1/sessions/abc", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
