package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/vitaly/internal/auth"
	"github.com/2beens/vitaly/internal/chat"
	"github.com/2beens/vitaly/internal/middleware"
	"github.com/2beens/vitaly/internal/telemetry/metrics"
	"github.com/2beens/vitaly/internal/telemetry/tracing"
	"github.com/2beens/vitaly/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=dashboard

type sessionIssuer interface {
	Login(ctx context.Context, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type Handler struct {
	registry       *Registry
	sessionIssuer  sessionIssuer
	metricsManager *metrics.Manager
}

func NewHandler(
	registry *Registry,
	sessionIssuer sessionIssuer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		registry:       registry,
		sessionIssuer:  sessionIssuer,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
) {
	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")
	if rateLimiter != nil {
		loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginAllowedPerMin, handler.metricsManager))
	}

	mainRouter.HandleFunc("/dashboard", handler.handlePage).Methods("GET", "OPTIONS").Name("dashboard")
	mainRouter.HandleFunc("/dashboard/widgets/{name}", handler.handleWidget).Methods("GET", "OPTIONS").Name("dashboard-widget")
	mainRouter.HandleFunc("/dashboard/tab", handler.handleSelectTab).Methods("PUT", "OPTIONS").Name("dashboard-tab")
	mainRouter.HandleFunc("/dashboard/darkmode", handler.handleDarkMode).Methods("PUT", "OPTIONS").Name("dashboard-darkmode")
	mainRouter.HandleFunc("/dashboard/chat", handler.handleChatList).Methods("GET", "OPTIONS").Name("dashboard-chat")
	mainRouter.HandleFunc("/dashboard/chat", handler.handleChatSend).Methods("POST", "OPTIONS").Name("dashboard-chat-send")
}

func writeJSON(w http.ResponseWriter, v any) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) view(w http.ResponseWriter, r *http.Request) (*View, bool) {
	token := r.Header.Get(auth.TokenHeader)
	v, ok := handler.registry.Get(token)
	if !ok {
		log.Tracef("no dashboard view for token, path: %s", r.URL.Path)
		http.Error(w, "no dashboard view for session, login again", http.StatusUnauthorized)
		return nil, false
	}
	return v, true
}

func decodeLoginForm(r *http.Request) (auth.LoginForm, error) {
	var form auth.LoginForm
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return form, fmt.Errorf("unmarshal json params: %w", err)
		}
		return form, nil
	}

	if err := r.ParseForm(); err != nil {
		return form, fmt.Errorf("parse form: %w", err)
	}
	return auth.LoginForm{
		Email:    r.Form.Get("email"),
		Password: r.Form.Get("password"),
		Name:     r.Form.Get("name"),
		Register: r.Form.Get("register") == "true",
	}, nil
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.login")
	defer span.End()

	form, err := decodeLoginForm(r)
	if err != nil {
		log.Errorf("login, %s", err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if err := form.Validate(); err != nil {
		log.Tracef("login form invalid: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, auth.ValidationMessage, http.StatusBadRequest)
		return
	}

	token, err := handler.sessionIssuer.Login(ctx, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	v, err := handler.registry.Open(token, form)
	if err != nil {
		log.Errorf("login failed, open view: %s", err)
		span.SetStatus(codes.Error, err.Error())
		pkg.WriteJSONError(w, auth.ValidationMessage, http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.String("view.id", v.ID()))
	span.SetStatus(codes.Ok, "logged-in")
	log.Tracef("new login success, view [%s]", v.ID())
	writeJSON(w, map[string]string{"token": token})
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.logout")
	defer span.End()

	authToken := r.Header.Get(auth.TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// the view goes away even if the redis session is already gone
	viewClosed := handler.registry.Close(authToken)

	loggedOut, err := handler.sessionIssuer.Logout(ctx, authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	span.SetAttributes(attribute.Bool("view.closed", viewClosed))
	log.Debugf("logout success, view closed: %t", viewClosed)
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.page")
	defer span.End()

	v, ok := handler.view(w, r)
	if !ok {
		return
	}

	writeJSON(w, v.Page())
}

func (handler *Handler) handleWidget(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.widget")
	defer span.End()

	v, ok := handler.view(w, r)
	if !ok {
		return
	}

	name := mux.Vars(r)["name"]
	span.SetAttributes(attribute.String("widget", name))

	opt, err := v.Widget(name)
	if err != nil {
		if errors.Is(err, ErrUnknownWidget) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Errorf("render widget %s: %s", name, err)
		http.Error(w, "render widget", http.StatusInternalServerError)
		return
	}

	writeJSON(w, opt)
}

func (handler *Handler) handleSelectTab(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.selectTab")
	defer span.End()

	v, ok := handler.view(w, r)
	if !ok {
		return
	}

	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	tab, err := ParseTab(req.Tab)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v.SelectTab(tab)
	pkg.WriteTextResponseOK(w, string(tab))
}

func (handler *Handler) handleDarkMode(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.darkMode")
	defer span.End()

	v, ok := handler.view(w, r)
	if !ok {
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	v.SetDarkMode(req.Enabled)
	writeJSON(w, map[string]bool{"dark_mode": req.Enabled})
}

func (handler *Handler) handleChatList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.chatList")
	defer span.End()

	v, ok := handler.view(w, r)
	if !ok {
		return
	}

	writeJSON(w, v.Chat().Messages())
}

func (handler *Handler) handleChatSend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.chatSend")
	defer span.End()

	v, ok := handler.view(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	sent, err := v.Chat().Send(ctx, req.Text)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			http.Error(w, "empty message", http.StatusBadRequest)
			return
		}
		log.Errorf("chat send: %s", err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterChatMessages.Inc()
	}
	writeJSON(w, sent)
}
