package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmanager/models"
	"taskmanager/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *services.AuthService) {
	t.Helper()
	store := services.NewStore()
	auth := services.NewAuthService(store, "test-secret")
	router := NewRouter(
		auth,
		services.NewTaskService(store),
		services.NewCategoryService(store),
		services.NewAdminService(store),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, auth
}

func doJSON(t *testing.T, method, url, token string, payload, out any) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func registerAndLogin(t *testing.T, serverURL, username string) LoginResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, serverURL+"/api/auth/register", "", RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var login LoginResponse
	resp = doJSON(t, http.MethodPost, serverURL+"/api/auth/login", "", LoginRequest{
		Username: username,
		Password: "secret123",
	}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, login.Token)
	return login
}

func TestRegisterRejectsShortCredentials(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", RegisterRequest{
		Username: "ab",
		Email:    "ab@example.com",
		Password: "secret123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server, _ := newTestServer(t)
	registerAndLogin(t, server.URL, "dana")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", LoginRequest{
		Username: "dana",
		Password: "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTasksRequireAuthentication(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/tasks", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/tasks", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskCRUDRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)
	login := registerAndLogin(t, server.URL, "mika")

	var created models.Task
	resp := doJSON(t, http.MethodPost, server.URL+"/api/tasks", login.Token, models.TaskDraft{
		Title:    "write minutes",
		Priority: models.PriorityHigh,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, login.UserID, created.OwnerID)
	assert.False(t, created.CreatedAt.IsZero())

	var listed []models.Task
	resp = doJSON(t, http.MethodGet, server.URL+"/api/tasks", login.Token, nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	completed := true
	var updated models.Task
	resp = doJSON(t, http.MethodPut, server.URL+"/api/tasks/"+created.ID, login.Token, models.TaskPatch{
		Completed: &completed,
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, updated.Completed)
	assert.Equal(t, "write minutes", updated.Title, "untouched fields survive a partial update")

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/tasks/"+created.ID, login.Token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/api/tasks", login.Token, nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, listed)
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	server, _ := newTestServer(t)
	login := registerAndLogin(t, server.URL, "vera")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/tasks", login.Token, models.TaskDraft{Title: "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTasksAreScopedToTheirOwner(t *testing.T) {
	server, _ := newTestServer(t)
	alice := registerAndLogin(t, server.URL, "alice")
	bob := registerAndLogin(t, server.URL, "bobby")

	var created models.Task
	resp := doJSON(t, http.MethodPost, server.URL+"/api/tasks", alice.Token, models.TaskDraft{Title: "private"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var bobTasks []models.Task
	resp = doJSON(t, http.MethodGet, server.URL+"/api/tasks", bob.Token, nil, &bobTasks)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, bobTasks)

	// another user's task looks like a missing task, not a forbidden one
	title := "stolen"
	resp = doJSON(t, http.MethodPut, server.URL+"/api/tasks/"+created.ID, bob.Token, models.TaskPatch{Title: &title}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoryCRUDAndDanglingReference(t *testing.T) {
	server, _ := newTestServer(t)
	login := registerAndLogin(t, server.URL, "nadia")

	var category models.Category
	resp := doJSON(t, http.MethodPost, server.URL+"/api/categories", login.Token, models.Category{Name: "Work"}, &category)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.DefaultCategoryColor, category.Color, "missing color falls back to the default")

	var task models.Task
	resp = doJSON(t, http.MethodPost, server.URL+"/api/tasks", login.Token, models.TaskDraft{
		Title:      "report",
		CategoryID: category.ID,
	}, &task)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/categories/"+category.ID, login.Token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the task keeps its now-dangling reference; resolving it is the view's job
	var listed []models.Task
	resp = doJSON(t, http.MethodGet, server.URL+"/api/tasks", login.Token, nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed, 1)
	assert.Equal(t, category.ID, listed[0].CategoryID)
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	server, auth := newTestServer(t)
	user := registerAndLogin(t, server.URL, "plain")

	resp := doJSON(t, http.MethodGet, server.URL+"/api/admin/stats", user.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin, err := auth.EnsureAdmin("admin-secret")
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(admin)
	require.NoError(t, err)

	var stats services.AdminStats
	resp = doJSON(t, http.MethodGet, server.URL+"/api/admin/stats", adminToken, nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, stats.TotalUsers)
}

func TestAdminDeleteUserCascades(t *testing.T) {
	server, auth := newTestServer(t)
	user := registerAndLogin(t, server.URL, "gone")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/tasks", user.Token, models.TaskDraft{Title: "orphan"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	admin, err := auth.EnsureAdmin("admin-secret")
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(admin)
	require.NoError(t, err)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/admin/users/"+user.UserID, adminToken, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var stats services.AdminStats
	resp = doJSON(t, http.MethodGet, server.URL+"/api/admin/stats", adminToken, nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 0, stats.TotalTasks)
}
