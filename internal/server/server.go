package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/shapeitup/internal/experiment"
	"github.com/danielpatrickdp/shapeitup/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	cookieName = "shapeitup"
	cookieID   = "participant"
)

// #region config
// Config is the HTTP-facing part of the server.
type Config struct {
	CookieKey []byte // HMAC key for the participant cookie; generated when empty
	Secure    bool   // mark the cookie Secure
}

// #endregion config

// #region server
// Server maps browser requests onto experiment sessions. Each browser gets
// its own session, tracked by a signed cookie carrying the session ID.
type Server struct {
	exp     *experiment.Experiment
	store   *session.Store
	cookies *sessions.CookieStore
	page    *template.Template
	log     *zap.Logger
}

// New builds the server. A nil logger is replaced by a no-op logger.
func New(exp *experiment.Experiment, store *session.Store, cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := cfg.CookieKey
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("generate cookie key")
		}
	}
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	cookies := sessions.NewCookieStore(key)
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		exp:     exp,
		store:   store,
		cookies: cookies,
		page:    page,
		log:     logger,
	}, nil
}

// Routes returns the router for the participant pages.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/plot.png", s.handlePlot)
	r.Post("/answer", s.handleAnswer)
	r.Post("/restart", s.handleRestart)
	r.Get("/healthz", s.handleHealthz)
	return r
}

// #endregion server

// #region participant
// participant resolves the session for the request, starting a new one if
// the cookie is missing, tampered with, or refers to an evicted session.
// An evicted session restarts at the first practice task.
func (s *Server) participant(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	cs, _ := s.cookies.Get(r, cookieName)
	if id, ok := cs.Values[cookieID].(string); ok {
		if sess, ok := s.store.Get(id); ok {
			return sess, nil
		}
		s.log.Warn("session not found, restarting participant",
			zap.String("session", id),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	}
	return s.start(w, r)
}

// start creates a session and binds it to the browser.
func (s *Server) start(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	sess := s.store.Create()
	cs, _ := s.cookies.Get(r, cookieName)
	cs.Values[cookieID] = sess.ID
	if err := cs.Save(r, w); err != nil {
		s.store.Delete(sess.ID)
		return nil, fmt.Errorf("save cookie: %w", err)
	}
	s.log.Info("session started", zap.String("session", sess.ID))
	return sess, nil
}

// #endregion participant

// #region handlers
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.participant(w, r)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	view, err := s.exp.View(sess)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.page.Execute(w, view); err != nil {
		s.log.Error("render page", zap.String("session", sess.ID), zap.Error(err))
	}
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.participant(w, r)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	img, err := s.exp.Plot(sess)
	if errors.Is(err, session.ErrFinished) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(img); err != nil {
		s.log.Debug("write plot", zap.String("session", sess.ID), zap.Error(err))
	}
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	sess, err := s.participant(w, r)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	_, err = s.exp.Submit(r.Context(), sess, r.PostForm.Get("choice"))
	switch {
	case errors.Is(err, experiment.ErrInvalidChoice):
		s.fail(w, r, http.StatusBadRequest, err)
		return
	case errors.Is(err, session.ErrFinished):
	case err != nil:
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	cs, _ := s.cookies.Get(r, cookieName)
	if id, ok := cs.Values[cookieID].(string); ok {
		s.store.Delete(id)
	}
	if _, err := s.start(w, r); err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok sessions=%d\n", s.store.Len())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, code int, err error) {
	s.log.Warn("request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.Error(err))
	http.Error(w, http.StatusText(code), code)
}

// #endregion handlers

// #region middleware
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// #endregion middleware
