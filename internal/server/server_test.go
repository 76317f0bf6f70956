package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardflow/internal/config"
	"boardflow/internal/model"
	"boardflow/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	cfg := &config.Config{
		JWTSecret:        "test-secret-key",
		JWTExpiry:        time.Hour,
		RebalanceEpsilon: 1e-5,
		MaxBoardsPerUser: 5,
	}
	return &api{t: t, engine: server.New(cfg, db, zap.NewNop()).Engine}
}

func (a *api) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	a.engine.ServeHTTP(resp, req)

	out := map[string]any{}
	if resp.Body.Len() > 0 && resp.Body.Bytes()[0] == '{' {
		require.NoError(a.t, json.Unmarshal(resp.Body.Bytes(), &out))
	}
	return resp.Code, out
}

func (a *api) register(email string) (token, id string) {
	a.t.Helper()
	code, body := a.do("POST", "/register", "", gin.H{"name": "User", "email": email, "password": "password123"})
	require.Equal(a.t, http.StatusCreated, code, body)
	return body["token"].(string), body["user"].(map[string]any)["id"].(string)
}

func (a *api) create(path, token string, body any) string {
	a.t.Helper()
	code, out := a.do("POST", path, token, body)
	require.Equal(a.t, http.StatusCreated, code, out)
	return out["id"].(string)
}

func TestBoardFlow(t *testing.T) {
	a := newAPI(t)
	owner, _ := a.register("owner@example.com")
	viewer, _ := a.register("viewer@example.com")

	board := a.create("/boards", owner, gin.H{"title": "Roadmap"})
	todo := a.create("/boards/"+board+"/columns", owner, gin.H{"title": "To Do", "color": "#336699"})
	done := a.create("/boards/"+board+"/columns", owner, gin.H{"title": "Done"})
	card := a.create("/columns/"+todo+"/cards", owner, gin.H{"title": "Write docs", "priority": "high"})

	code, _ := a.do("POST", "/boards/"+board+"/members", owner, gin.H{"email": "viewer@example.com", "role": "viewer"})
	require.Equal(t, http.StatusOK, code)

	// Просмотр разрешён, перемещение нет
	code, _ = a.do("GET", "/boards/"+board, viewer, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do("POST", "/cards/"+card+"/move", viewer, gin.H{"column_id": done, "position": 1.0})
	assert.Equal(t, http.StatusForbidden, code)

	// Успешное перемещение с актуальной версией
	code, moved := a.do("POST", "/cards/"+card+"/move", owner, gin.H{"column_id": done, "position": 1.0, "version": 1})
	require.Equal(t, http.StatusOK, code, moved)
	assert.Equal(t, done, moved["column_id"])
	assert.Equal(t, 1.0, moved["position"])
	assert.Equal(t, 2.0, moved["version"])
	assert.Equal(t, false, moved["rebalanced"])

	// Устаревшая версия даёт конфликт
	code, body := a.do("POST", "/cards/"+card+"/move", owner, gin.H{"column_id": todo, "position": 1.0, "version": 1})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["error"], "conflict")

	// Колонку с карточками удалить нельзя, пустую можно
	code, _ = a.do("DELETE", "/columns/"+done, owner, nil)
	assert.Equal(t, http.StatusConflict, code)
	code, _ = a.do("DELETE", "/columns/"+todo, owner, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = a.do("GET", "/cards/00000000-0000-0000-0000-000000000000", owner, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do("GET", "/cards/not-a-uuid", owner, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMove_ValidationErrors(t *testing.T) {
	a := newAPI(t)
	owner, _ := a.register("owner@example.com")
	board := a.create("/boards", owner, gin.H{"title": "Roadmap"})
	column := a.create("/boards/"+board+"/columns", owner, gin.H{"title": "To Do"})
	card := a.create("/columns/"+column+"/cards", owner, gin.H{"title": "Task"})

	// Позиция обязательна
	code, _ := a.do("POST", "/cards/"+card+"/move", owner, gin.H{"column_id": column})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do("POST", "/cards/"+card+"/move", owner, gin.H{"column_id": "nope", "position": 2})
	assert.Equal(t, http.StatusBadRequest, code)

	other := a.create("/boards", owner, gin.H{"title": "Other"})
	foreign := a.create("/boards/"+other+"/columns", owner, gin.H{"title": "Elsewhere"})
	code, _ = a.do("POST", "/cards/"+card+"/move", owner, gin.H{"column_id": foreign, "position": 2})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBoardLimit(t *testing.T) {
	a := newAPI(t)
	owner, _ := a.register("owner@example.com")

	for i := 0; i < 5; i++ {
		a.create("/boards", owner, gin.H{"title": fmt.Sprintf("Board %d", i)})
	}
	code, body := a.do("POST", "/boards", owner, gin.H{"title": "One too many"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, body["error"], "maximum number of boards")
}

func TestAuthRequired(t *testing.T) {
	a := newAPI(t)

	code, _ := a.do("GET", "/boards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := a.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, _ = a.do("GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestLogin(t *testing.T) {
	a := newAPI(t)
	_, id := a.register("someone@example.com")

	code, body := a.do("POST", "/login", "", gin.H{"email": "SomeOne@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body["user"].(map[string]any)["id"])

	code, _ = a.do("POST", "/login", "", gin.H{"email": "someone@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
}
