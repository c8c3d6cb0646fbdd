package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taoyao-code/xtstate/internal/api/middleware"
	"github.com/taoyao-code/xtstate/internal/xtstate"
)

func newTestRouter(opts RouteOptions) (*gin.Engine, *xtstate.Shared) {
	gin.SetMode(gin.TestMode)
	state := xtstate.NewShared()
	h := NewSlotHandler(state, nil, zap.NewNop())
	r := gin.New()
	RegisterRoutes(r, h, opts)
	return r, state
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSetupAndCheckinFlow(t *testing.T) {
	r, state := newTestRouter(RouteOptions{})

	rr := doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"db", "cache"}})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/api/v1/slots/db", gin.H{"value": true})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["activated"])

	rr = doJSON(t, r, http.MethodPost, "/api/v1/slots/cache", gin.H{"value": true})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["activated"])
	assert.True(t, state.Activated())
}

func TestSetupConflict(t *testing.T) {
	r, _ := newTestRouter(RouteOptions{})

	rr := doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"a"}})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"b"}})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already_setup")

	// force 覆盖
	rr = doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"b"}, "force": true})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCheckinErrors(t *testing.T) {
	r, _ := newTestRouter(RouteOptions{})

	// 未 setup
	rr := doJSON(t, r, http.MethodPost, "/api/v1/slots/db", gin.H{"value": true})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "not_setup")

	doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"db"}})

	// 未注册的标识符
	rr = doJSON(t, r, http.MethodPost, "/api/v1/slots/ghost", gin.H{"value": true})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown_identifier")

	// 缺失 value 字段
	rr = doJSON(t, r, http.MethodPost, "/api/v1/slots/db", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckinNoSlotsDefined(t *testing.T) {
	r, _ := newTestRouter(RouteOptions{})

	rr := doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{}})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/api/v1/slots/db", gin.H{"value": true})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "no_slots_defined")
}

func TestSnapshotAndHistory(t *testing.T) {
	r, _ := newTestRouter(RouteOptions{})
	doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"a", "b"}})
	doJSON(t, r, http.MethodPost, "/api/v1/slots/a", gin.H{"value": true})

	rr := doJSON(t, r, http.MethodGet, "/api/v1/slots", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap struct {
		Setup     bool            `json:"setup"`
		Activated bool            `json:"activated"`
		Slots     map[string]bool `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.True(t, snap.Setup)
	assert.False(t, snap.Activated)
	assert.True(t, snap.Slots["a"])
	assert.False(t, snap.Slots["b"])

	rr = doJSON(t, r, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var hist struct {
		Count   int                    `json:"count"`
		Entries []xtstate.HistoryEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hist))
	require.Equal(t, 1, hist.Count)
	assert.Equal(t, "a", hist.Entries[0].Identifier)
	assert.True(t, hist.Entries[0].Value)
	assert.NotZero(t, hist.Entries[0].Millis)

	rr = doJSON(t, r, http.MethodGet, "/api/v1/activated", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"activated":false`)
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(RouteOptions{
		Auth: middleware.AuthConfig{Enabled: true, APIKeys: []string{"sk_test_123"}},
	})

	rr := doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"a"}})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// 只读接口不受认证保护
	rr = doJSON(t, r, http.MethodGet, "/api/v1/activated", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// 带合法 key
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(gin.H{"slots": []string{"a"}}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/setup", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "sk_test_123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckinRateLimited(t *testing.T) {
	r, _ := newTestRouter(RouteOptions{
		RateLimit: middleware.NewRateLimiter(1, 1),
	})
	doJSON(t, r, http.MethodPost, "/api/v1/setup", gin.H{"slots": []string{"a"}})

	// 桶容量1：setup 已消耗令牌，后续签到应被限流
	rr := doJSON(t, r, http.MethodPost, "/api/v1/slots/a", gin.H{"value": true})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
