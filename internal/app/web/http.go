package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nuid"
	"github.com/rs/zerolog"
	"github.com/taskdeck/webapp/internal/app/bridge"
	"github.com/taskdeck/webapp/internal/backend"
	"github.com/taskdeck/webapp/internal/contracts"
	"github.com/taskdeck/webapp/internal/session"
	"github.com/taskdeck/webapp/services/frontend"
)

const serviceName = "taskdeck-webapp"

type Handler struct {
	Bridge   *bridge.Service
	Backend  *backend.Client
	Sessions session.Store
	Log      zerolog.Logger
	Metrics  *Metrics
	Now      func() time.Time
}

func NewHandler(bridgeSvc *bridge.Service, backendClient *backend.Client, sessions session.Store, log zerolog.Logger) *Handler {
	return &Handler{
		Bridge:   bridgeSvc,
		Backend:  backendClient,
		Sessions: sessions,
		Log:      log,
		Metrics:  NewMetrics(),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestLogger)

	r.Get("/", h.handleIndex)
	r.Get("/login", templ.Handler(frontend.LoginPage()).ServeHTTP)
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/chat", h.handleChatPage)
	r.Handle("/static/*", http.StripPrefix("/static/", frontend.StaticHandler()))
	r.Handle("/metrics", h.Metrics.Registry.Handler())

	r.Get("/api/health", h.handleHealth)
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/register", h.handleRegister)
	r.Post("/api/auth/logout", h.handleLogout)

	r.Group(func(authR chi.Router) {
		authR.Use(h.sessionMiddleware)
		authR.Post("/api/tasks", h.handleCreateTask)
		authR.Put("/api/tasks/{id}", h.handleUpdateTask)
		authR.Patch("/api/tasks/{id}/toggle", h.handleToggleTask)
		authR.Delete("/api/tasks/{id}", h.handleDeleteTask)
		authR.Post("/api/tasks/search", h.handleSearchTasks)
		authR.Post("/api/chat/{userID}", h.handleChat)
	})

	return r
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type taskRequest struct {
	UserID      string                       `json:"userId"`
	Title       *string                      `json:"title"`
	Description *string                      `json:"description"`
	Priority    *string                      `json:"priority"`
	DueDate     *string                      `json:"due_date"`
	IsRecurring *bool                        `json:"is_recurring"`
	Recurrence  *contracts.RecurrencePattern `json:"recurrence_pattern"`
	Tags        []string                     `json:"tags"`
}

func (t taskRequest) input() backend.TaskInput {
	return backend.TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		IsRecurring: t.IsRecurring,
		Recurrence:  t.Recurrence,
		Tags:        t.Tags,
	}
}

type toggleRequest struct {
	UserID    string `json:"userId"`
	Completed bool   `json:"completed"`
}

type userIDRequest struct {
	UserID string `json:"userId"`
}

type chatRequest struct {
	ConversationID *int64 `json:"conversation_id"`
	Message        string `json:"message"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": h.Now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := h.Bridge.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrInvalidCredentials):
			h.writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, bridge.ErrEmailRequired), errors.Is(err, bridge.ErrPasswordRequired):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeUpstreamError(w, err, http.StatusUnauthorized)
		}
		return
	}

	token := ""
	if result.Grant != nil {
		token = result.Grant.Token
	}
	if err := h.Sessions.Write(w, token, result.Identity); err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to establish session")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": result.Identity})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	identity, err := h.Bridge.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrEmailRequired), errors.Is(err, bridge.ErrPasswordRequired):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeUpstreamError(w, err, http.StatusBadRequest)
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created successfully",
		"user":    identity,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.Bridge.Logout(r.Context(), r.Header.Get("Cookie"))
	h.Sessions.Clear(w)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Title == nil || *req.Title == "" {
		h.writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	task, err := h.Backend.CreateTask(r.Context(), sess.Token, h.userID(req.UserID, sess), req.input())
	if err != nil {
		h.writeUpstreamError(w, err, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	task, err := h.Backend.UpdateTask(r.Context(), sess.Token, h.userID(req.UserID, sess), taskID, req.input())
	if err != nil {
		h.writeUpstreamError(w, err, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	task, err := h.Backend.ToggleTask(r.Context(), sess.Token, h.userID(req.UserID, sess), taskID, req.Completed)
	if err != nil {
		h.writeUpstreamError(w, err, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	taskID, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req userIDRequest
	if r.Body != nil {
		// The delete body only carries userId; an empty body falls back to
		// the session identity.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Backend.DeleteTask(r.Context(), sess.Token, h.userID(req.UserID, sess), taskID); err != nil {
		h.writeUpstreamError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchTasks relays advanced search. The incoming query string is
// passed to the backend verbatim, repeated params included; filtering is the
// backend's job in this mode.
func (h *Handler) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	var req userIDRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	list, err := h.Backend.SearchTasks(r.Context(), sess.Token, h.userID(req.UserID, sess), r.URL.Query())
	if err != nil {
		h.writeUpstreamError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Message == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := h.Backend.Chat(r.Context(), sess.Token, userID, req.ConversationID, req.Message)
	if err != nil {
		h.writeUpstreamError(w, err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Sessions.Read(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// handleDashboard is the authenticated entry point. A missing session or a
// non-canonical identity id forces re-authentication; a failed task fetch
// degrades to an empty list rather than an error page.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Read(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if !sess.Identity.Canonical() {
		h.Log.Warn().Str("user_id", sess.Identity.ID).Msg("non-canonical identity id in session, forcing re-login")
		h.Sessions.Clear(w)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var tasks []contracts.Task
	list, err := h.Backend.ListTasks(r.Context(), sess.Token, sess.Identity.ID, "all")
	if err != nil {
		h.Log.Warn().Err(err).Msg("dashboard task fetch failed")
	} else {
		tasks = list.Tasks
	}

	h.renderPage(w, r, frontend.DashboardPage(sess.Identity, tasks))
}

func (h *Handler) handleChatPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Sessions.Read(r)
	if !ok || !sess.Identity.Canonical() {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.renderPage(w, r, frontend.ChatPage(sess.Identity))
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.Log.Error().Err(err).Msg("page render failed")
	}
}

type sessionContextKey struct{}

func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.Sessions.Read(r)
		if !ok || sess.Token == "" {
			h.writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithSession(r.Context(), sess)))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Metrics.Requests.Inc()
		requestID := nuid.Next()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// userID picks the effective user id for a task operation: the request body's
// value when present, the session identity otherwise.
func (h *Handler) userID(fromBody string, sess session.Session) string {
	if fromBody != "" {
		return fromBody
	}
	return sess.Identity.ID
}

func (h *Handler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

// writeUpstreamError maps a Task Service Client failure onto the response:
// the upstream status when one exists, 502 when the backend was unreachable,
// the fallback otherwise.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error, fallback int) {
	h.Metrics.UpstreamErrors.Inc()
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		h.writeError(w, apiErr.Status, apiErr.Message)
	case errors.Is(err, backend.ErrUnavailable):
		h.writeError(w, http.StatusBadGateway, "task service unavailable")
	default:
		h.writeError(w, fallback, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func contextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

func sessionFromContext(ctx context.Context) session.Session {
	sess, _ := ctx.Value(sessionContextKey{}).(session.Session)
	return sess
}
