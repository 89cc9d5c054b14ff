package middlewares

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/grvbrk/yt_approval_hub/internal/metrics"
	"github.com/grvbrk/yt_approval_hub/internal/models"
	"github.com/grvbrk/yt_approval_hub/internal/utils"
	"github.com/grvbrk/yt_approval_hub/internal/workflow"
)

type contextKey string

const WorkspaceContextKey contextKey = "workspace"

const (
	SessionName    = "yt_approval_session"
	workspaceIDKey = "workspace_id"
	// unmatchedRoute labels requests no route matched, keeping raw paths out of metrics.
	unmatchedRoute = "unmatched"
)

type MiddlewareHandler struct {
	Logger         zerolog.Logger
	SessionStore   sessions.Store
	Registry       *workflow.Registry
	AllowedOrigins []string
}

func NewMiddlewareHandler(logger zerolog.Logger, store sessions.Store, registry *workflow.Registry, allowedOrigins []string) *MiddlewareHandler {
	return &MiddlewareHandler{
		Logger:         logger,
		SessionStore:   store,
		Registry:       registry,
		AllowedOrigins: allowedOrigins,
	}
}

// Workspace attaches the caller's workspace to the request, creating one and
// setting the session cookie on first contact.
func (mh *MiddlewareHandler) Workspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		session, err := mh.SessionStore.Get(r, SessionName)
		if err != nil {
			// An undecodable cookie (e.g. keys rotated on restart) still yields a usable new session.
			mh.Logger.Debug().Err(err).Msg("discarding unreadable session cookie")
		}

		id, _ := session.Values[workspaceIDKey].(string)
		ws, created := mh.Registry.GetOrCreate(id)

		if created {
			session.Values[workspaceIDKey] = ws.ID
			if err := session.Save(r, w); err != nil {
				mh.Logger.Error().Err(err).Msg("error saving session")
				utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Internal Server Error"})
				return
			}
			mh.Logger.Debug().Str("workspace_id", ws.ID).Msg("workspace created")
		}

		ctx := context.WithValue(r.Context(), WorkspaceContextKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExistingWorkspace attaches the workspace named by the session cookie and
// answers 401 when there is none. Unlike Workspace it never creates one.
func (mh *MiddlewareHandler) ExistingWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		session, err := mh.SessionStore.Get(r, SessionName)
		if err != nil {
			mh.Logger.Debug().Err(err).Msg("unreadable session cookie")
		}

		id, _ := session.Values[workspaceIDKey].(string)
		ws, err := mh.Registry.Get(id)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
			return
		}

		ctx := context.WithValue(r.Context(), WorkspaceContextKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (mh *MiddlewareHandler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ws, ok := GetWorkspaceFromContext(r)
		if !ok {
			mh.Logger.Error().Msg("no workspace in context in auth middleware")
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
			return
		}

		if !ws.Session().Authenticated {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (mh *MiddlewareHandler) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ws, ok := GetWorkspaceFromContext(r)
			if !ok || ws.Session().Role != role {
				utils.WriteJSON(w, http.StatusForbidden, utils.Envelope{"error": role.Title() + " access required"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (mh *MiddlewareHandler) Cors(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   mh.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	})(next)
}

func (mh *MiddlewareHandler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		metrics.RecordRequest(r.Method, route, strconv.Itoa(ww.Status()), elapsed.Seconds())
		mh.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", elapsed).
			Str("origin", r.Header.Get("Origin")).
			Msg("request")
	})
}

func (mh *MiddlewareHandler) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func GetWorkspaceFromContext(r *http.Request) (*workflow.Workspace, bool) {
	ws, ok := r.Context().Value(WorkspaceContextKey).(*workflow.Workspace)
	return ws, ok
}
