package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifesync/internal/agent"
	"github.com/lifesync/internal/api/auth"
	"github.com/lifesync/internal/calendar"
	"github.com/lifesync/internal/conversation"
	"github.com/lifesync/internal/goals"
	"github.com/lifesync/internal/insights"
	"github.com/lifesync/internal/llm"
	"github.com/lifesync/internal/mood"
	"github.com/lifesync/internal/tasks"
	"github.com/lifesync/internal/users"
)

const testDefaultUser = "demo-user"

func newTestServer(model *llm.MockClient) *Server {
	taskStore := tasks.NewInMemoryStore()
	eventStore := calendar.NewInMemoryStore()
	goalStore := goals.NewInMemoryStore()
	moodStore := mood.NewInMemoryStore()
	userStore := users.NewInMemoryStore()

	executor := agent.NewExecutor(taskStore, eventStore, goalStore, moodStore)
	memory := agent.NewMemory(conversation.NewInMemoryStore())
	service := agent.NewService(model, memory, agent.NewSequencer(executor), executor, 50)

	return NewServer(
		Options{Port: 0, CORSOrigin: "http://localhost:5173", DefaultUser: testDefaultUser, RespondRatePerMinute: 1000},
		Dependencies{
			Agent:    service,
			Insights: insights.NewService(model, moodStore),
			Tasks:    taskStore,
			Events:   eventStore,
			Goals:    goalStore,
			Moods:    moodStore,
			Users:    userStore,
			Tokens:   auth.NewTokenService("test-secret"),
		},
	)
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echoHeaderContentType, "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(&llm.MockClient{})
	rec := doJSON(t, server, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestAgentRespondEndpoint(t *testing.T) {
	server := newTestServer(&llm.MockClient{Responses: []string{"Good luck!"}})

	rec := doJSON(t, server, http.MethodPost, "/api/agent/respond",
		map[string]string{"message": "I have an exam on Friday"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]interface{})
	assert.Contains(t, data["message"], "Good luck!")
	pending := data["pendingConfirmations"].([]interface{})
	require.Len(t, pending, 2)
}

func TestAgentRespondRequiresMessage(t *testing.T) {
	server := newTestServer(&llm.MockClient{})
	rec := doJSON(t, server, http.MethodPost, "/api/agent/respond",
		map[string]string{"message": ""}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAgentHistoryRoundTrip(t *testing.T) {
	server := newTestServer(&llm.MockClient{Responses: []string{"Hello!"}})

	rec := doJSON(t, server, http.MethodPost, "/api/agent/respond",
		map[string]string{"message": "hi"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/agent/history", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), envelope["count"])

	rec = doJSON(t, server, http.MethodDelete, "/api/agent/history", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/agent/history", nil, "")
	envelope = decodeEnvelope(t, rec)
	assert.Equal(t, float64(0), envelope["count"])
}

func TestAgentExecuteEndpoint(t *testing.T) {
	server := newTestServer(&llm.MockClient{})

	action := agent.CandidateAction{
		Type:      agent.ActionTask,
		Operation: agent.OperationCreate,
		Task:      &agent.TaskDraft{Title: "Do laundry", Priority: "Medium"},
	}
	rec := doJSON(t, server, http.MethodPost, "/api/agent/execute",
		map[string]interface{}{"action": action}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Action executed successfully")

	rec = doJSON(t, server, http.MethodPost, "/api/agent/execute",
		map[string]interface{}{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/tasks", nil, "")
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), envelope["count"])
}

func TestTaskCRUD(t *testing.T) {
	server := newTestServer(&llm.MockClient{})

	rec := doJSON(t, server, http.MethodPost, "/api/tasks",
		map[string]interface{}{"title": "Write report", "priority": "High"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	id := created["id"].(string)
	require.NotEmpty(t, id)

	// Completing the task stamps completedAt.
	rec = doJSON(t, server, http.MethodPut, "/api/tasks/"+id,
		map[string]string{"status": "completed"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "completed", updated["status"])
	assert.NotNil(t, updated["completedAt"])

	rec = doJSON(t, server, http.MethodDelete, "/api/tasks/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/tasks/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGoalProgressAutoCompletes(t *testing.T) {
	server := newTestServer(&llm.MockClient{})

	rec := doJSON(t, server, http.MethodPost, "/api/goals",
		map[string]interface{}{"title": "Read 12 books", "category": "Personal"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeEnvelope(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = doJSON(t, server, http.MethodPut, "/api/goals/"+id,
		map[string]interface{}{"progress": 150}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(100), updated["progress"])
	assert.Equal(t, "completed", updated["status"])
}

func TestMoodInsightsEndpoint(t *testing.T) {
	model := &llm.MockClient{Responses: []string{
		`{"summary": "Steady week.", "recommendations": ["Keep the evening walks"]}`,
	}}
	server := newTestServer(model)

	rec := doJSON(t, server, http.MethodPost, "/api/mood",
		map[string]interface{}{"mood": "Happy", "energy": 4}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/mood/insights?days=7", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Steady week.", data["summary"])
	assert.Equal(t, "Happy", data["dominantMood"])
}

func TestRegisterLoginAndScopedIdentity(t *testing.T) {
	server := newTestServer(&llm.MockClient{})

	rec := doJSON(t, server, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "sam@example.com", "name": "Sam", "password": "hunter2hunter2"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeEnvelope(t, rec)["data"].(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)

	// Duplicate registration conflicts.
	rec = doJSON(t, server, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "sam@example.com", "password": "hunter2hunter2"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "sam@example.com", "password": "hunter2hunter2"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "sam@example.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A task created with the token is invisible to the demo user.
	rec = doJSON(t, server, http.MethodPost, "/api/tasks",
		map[string]string{"title": "private task"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/tasks", nil, "")
	assert.Equal(t, float64(0), decodeEnvelope(t, rec)["count"])

	rec = doJSON(t, server, http.MethodGet, "/api/tasks", nil, token)
	assert.Equal(t, float64(1), decodeEnvelope(t, rec)["count"])
}

func TestAgentIdentityBoundToToken(t *testing.T) {
	server := newTestServer(&llm.MockClient{Responses: []string{"Noted."}})

	rec := doJSON(t, server, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "kit@example.com", "name": "Kit", "password": "hunter2hunter2"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := decodeEnvelope(t, rec)["data"].(map[string]interface{})["token"].(string)

	// A body userId cannot redirect an authenticated execute call; the
	// task lands under the token's identity.
	action := agent.CandidateAction{
		Type:      agent.ActionTask,
		Operation: agent.OperationCreate,
		Task:      &agent.TaskDraft{Title: "private errand", Priority: "Low"},
	}
	rec = doJSON(t, server, http.MethodPost, "/api/agent/execute",
		map[string]interface{}{"userId": "somebody-else", "action": action}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/tasks", nil, token)
	assert.Equal(t, float64(1), decodeEnvelope(t, rec)["count"])
	rec = doJSON(t, server, http.MethodGet, "/api/tasks", nil, "")
	assert.Equal(t, float64(0), decodeEnvelope(t, rec)["count"])

	// Same for respond: the conversation is recorded for the token user,
	// not the userId named in the body.
	rec = doJSON(t, server, http.MethodPost, "/api/agent/respond",
		map[string]string{"userId": "somebody-else", "message": "hello there"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/agent/history", nil, token)
	assert.Equal(t, float64(2), decodeEnvelope(t, rec)["count"])
	rec = doJSON(t, server, http.MethodGet, "/api/agent/history", nil, "")
	assert.Equal(t, float64(0), decodeEnvelope(t, rec)["count"])
}

func TestInvalidTokenRejected(t *testing.T) {
	server := newTestServer(&llm.MockClient{})
	rec := doJSON(t, server, http.MethodGet, "/api/tasks", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRemindersUnavailableWithoutDatabase(t *testing.T) {
	server := newTestServer(&llm.MockClient{})
	rec := doJSON(t, server, http.MethodGet, "/api/reminders", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCalendarDateFilter(t *testing.T) {
	server := newTestServer(&llm.MockClient{})

	for i, date := range []string{"2025-03-10", "2025-03-11"} {
		rec := doJSON(t, server, http.MethodPost, "/api/calendar", map[string]interface{}{
			"title": fmt.Sprintf("event-%d", i), "date": date, "startTime": "09:00", "endTime": "10:00",
		}, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, server, http.MethodGet, "/api/calendar?date=2025-03-10", nil, "")
	assert.Equal(t, float64(1), decodeEnvelope(t, rec)["count"])
}
