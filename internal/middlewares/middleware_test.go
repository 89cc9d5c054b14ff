package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/yt_approval_hub/internal/metrics"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/platform"
	"github.com/grvbrk/yt_approval_hub/internal/store"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

func newTestHandler(t *testing.T) *MiddlewareHandler {
	t.Helper()
	registry := workflow.NewRegistry(workflow.Deps{
		Videos:   store.NewMemoryVideoStore(models.DemoVideos()),
		Uploader: platform.NewSimulatedUploader(0, 0),
		Logger:   zerolog.Nop(),
	})
	sessionStore := sessions.NewCookieStore(securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
	return NewMiddlewareHandler(zerolog.Nop(), sessionStore, registry, []string{"http://localhost:5173"})
}

func echoWorkspace(t *testing.T, seen **workflow.Workspace) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := GetWorkspaceFromContext(r)
		require.True(t, ok)
		*seen = ws
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestWorkspaceMiddlewareReusesCookie(t *testing.T) {
	mh := newTestHandler(t)
	var first, second *workflow.Workspace

	rr := httptest.NewRecorder()
	mh.Workspace(echoWorkspace(t, &first)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, first)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	mh.Workspace(echoWorkspace(t, &second)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	assert.Same(t, first, second)
	assert.Empty(t, rr.Result().Cookies())
	assert.Equal(t, 1, mh.Registry.Len())
}

func TestWorkspaceMiddlewareIgnoresBadCookie(t *testing.T) {
	mh := newTestHandler(t)
	var seen *workflow.Workspace

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionName, Value: "garbage"})
	rr := httptest.NewRecorder()
	mh.Workspace(echoWorkspace(t, &seen)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	assert.Len(t, rr.Result().Cookies(), 1)
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	mh := newTestHandler(t)
	ws := mh.Registry.Create()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := mh.Authenticate(mh.RequireRole(models.RoleCreator)(ok))

	serve := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(withWorkspace(req, ws))
		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve())

	ws.OpenAuthDialog()
	require.NoError(t, ws.SelectRole(models.RoleEditor))
	_, err := ws.Login("demo@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve())

	ws.Logout()
	ws.OpenAuthDialog()
	require.NoError(t, ws.SelectRole(models.RoleCreator))
	_, err = ws.Login("demo@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, serve())
}

func TestAuthenticateWithoutWorkspace(t *testing.T) {
	mh := newTestHandler(t)
	rr := httptest.NewRecorder()
	mh.Authenticate(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSecurityHeaders(t *testing.T) {
	mh := newTestHandler(t)
	rr := httptest.NewRecorder()
	mh.Security(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

func TestCorsPreflight(t *testing.T) {
	mh := newTestHandler(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/view", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := httptest.NewRecorder()
	mh.Cors(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func withWorkspace(r *http.Request, ws *workflow.Workspace) context.Context {
	return context.WithValue(r.Context(), WorkspaceContextKey, ws)
}

func TestExistingWorkspaceNeverCreates(t *testing.T) {
	mh := newTestHandler(t)
	var seen *workflow.Workspace
	handler := mh.ExistingWorkspace(echoWorkspace(t, &seen))

	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/view", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
	}
	assert.Nil(t, seen)
	assert.Zero(t, mh.Registry.Len())

	// a cookie issued by Workspace is honoured
	rr := httptest.NewRecorder()
	var created *workflow.Workspace
	mh.Workspace(echoWorkspace(t, &created)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Same(t, created, seen)
	assert.Equal(t, 1, mh.Registry.Len())
}

func TestRequestLoggerLabelsUnmatchedRoutes(t *testing.T) {
	mh := newTestHandler(t)
	r := chi.NewRouter()
	r.Use(mh.RequestLogger)
	r.Get("/known/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	get := func(path string) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	unmatched := metrics.RequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	before := testutil.ToFloat64(unmatched)

	get("/scan/0")
	series := testutil.CollectAndCount(metrics.RequestsTotal)
	for i := 1; i < 20; i++ {
		get(fmt.Sprintf("/scan/%d", i))
	}

	assert.Equal(t, before+20, testutil.ToFloat64(unmatched))
	assert.Equal(t, series, testutil.CollectAndCount(metrics.RequestsTotal))

	known := metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/known/{id}", "200")
	knownBefore := testutil.ToFloat64(known)
	get("/known/1")
	get("/known/2")
	assert.Equal(t, knownBefore+2, testutil.ToFloat64(known))
}
