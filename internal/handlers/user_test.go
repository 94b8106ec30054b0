package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aamishhussain23/finacplus-assignment/internal/auth"
	"github.com/aamishhussain23/finacplus-assignment/internal/repo"
	"github.com/aamishhussain23/finacplus-assignment/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const aliceJSON = `{"name":"Alice","age":30,"dob":"05-04-1994","gender":"Female","about":"hi","password":"abcdefg123"}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewUserService(repo.NewMemoryUserRepo(), nil, auth.NewPasswordHasher(bcrypt.MinCost), nil,
		service.WithClock(func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }))
	h := NewUserHandler(svc, nil)

	r := gin.New()
	g := r.Group("/api/v1/user")
	g.GET("/get-user/:id", h.GetUser)
	g.GET("/get-all-user", h.ListUsers)
	g.GET("/get-gender", h.Genders)
	g.POST("/add-user", h.AddUser)
	g.PUT("/edit-user/:id", h.EditUser)
	g.DELETE("/delete-user/:id", h.DeleteUser)
	r.NoRoute(NoRoute)
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func addAlice(t *testing.T, r http.Handler) string {
	t.Helper()
	w, body := do(t, r, http.MethodPost, "/api/v1/user/add-user", aliceJSON)
	require.Equal(t, http.StatusCreated, w.Code, body)

	_, list := do(t, r, http.MethodGet, "/api/v1/user/get-all-user", "")
	users := list["users"].([]any)
	require.NotEmpty(t, users)
	return users[len(users)-1].(map[string]any)["_id"].(string)
}

func TestUserHandler_Scenario(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, http.MethodPost, "/api/v1/user/add-user", aliceJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User added successfully", body["message"])
	loc := w.Header().Get("Location")
	require.Contains(t, loc, "/api/v1/user/get-user/")

	w, body = do(t, r, http.MethodGet, "/api/v1/user/get-all-user", "")
	require.Equal(t, http.StatusOK, w.Code)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	row := users[0].(map[string]any)
	assert.Equal(t, "Alice", row["name"])
	assert.Equal(t, float64(30), row["age"])
	assert.Equal(t, "05-04-1994", row["dob"])
	assert.Equal(t, "Female", row["gender"])
	assert.NotEmpty(t, row["createdOn"])
	assert.NotContains(t, row, "about")
	assert.NotContains(t, row, "password")
	id := row["_id"].(string)
	assert.Equal(t, "/api/v1/user/get-user/"+id, loc)

	w, body = do(t, r, http.MethodGet, "/api/v1/user/get-user/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "hi", user["about"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")

	w, body = do(t, r, http.MethodPut, "/api/v1/user/edit-user/"+id, `{"about":"hacked","password":"wrongpass99"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid password or Unauthorised user", body["message"])

	w, body = do(t, r, http.MethodPut, "/api/v1/user/edit-user/"+id, `{"about":"updated","password":"abcdefg123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User updated successfully", body["message"])
	assert.Equal(t, "updated", body["user"].(map[string]any)["about"])

	w, body = do(t, r, http.MethodDelete, "/api/v1/user/delete-user/"+id, `{"password":"abcdefg123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", body["message"])

	w, body = do(t, r, http.MethodGet, "/api/v1/user/get-user/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestUserHandler_AddUserErrors(t *testing.T) {
	r := newTestRouter(t)
	addAlice(t, r)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{
			name:   "duplicate ignoring case",
			body:   `{"name":"ALICE","age":30,"dob":"05-04-1994","gender":"Female","about":"hi","password":"abcdefg123"}`,
			status: http.StatusConflict,
			msg:    "User already exists.",
		},
		{
			name:   "age mismatch",
			body:   `{"name":"Bob","age":31,"dob":"05-04-1994","gender":"Male","about":"hi","password":"abcdefg123"}`,
			status: http.StatusBadRequest,
			msg:    "The provided age does not match the Date of Birth. CORRECT AGE: 30",
		},
		{
			name:   "age as string",
			body:   `{"name":"Bob","age":"30","dob":"05-04-1994","gender":"Male","about":"hi","password":"abcdefg123"}`,
			status: http.StatusBadRequest,
			msg:    "Age must be a number between 0 and 120.",
		},
		{
			name:   "empty body",
			body:   "",
			status: http.StatusBadRequest,
			msg:    "Name must be a string with at least 2 characters and should not contain numbers.",
		},
		{
			name:   "malformed json",
			body:   `{"name":`,
			status: http.StatusBadRequest,
			msg:    "Invalid request body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, "/api/v1/user/add-user", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.msg, body["message"])
		})
	}
}

func TestUserHandler_DeleteRequiresPassword(t *testing.T) {
	r := newTestRouter(t)
	id := addAlice(t, r)

	w, body := do(t, r, http.MethodDelete, "/api/v1/user/delete-user/"+id, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password is required", body["message"])

	w, _ = do(t, r, http.MethodDelete, "/api/v1/user/delete-user/not-an-id", `{"password":"abcdefg123"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_Genders(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, http.MethodGet, "/api/v1/user/get-gender", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Male", "Female", "Other"}, body["genders"])
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, http.MethodGet, "/api/v1/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route not found", body["message"])
}
