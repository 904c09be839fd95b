package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jrchoo/ip/internal/command"
	"github.com/jrchoo/ip/internal/logger"
	"github.com/jrchoo/ip/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))

type Server struct {
	handler command.Handler
}

type taskView struct {
	Index       int        `json:"index"`
	Kind        model.Kind `json:"kind"`
	Description string     `json:"description"`
	Done        bool       `json:"done"`
	By          string     `json:"by,omitempty"`
	From        string     `json:"from,omitempty"`
	To          string     `json:"to,omitempty"`
	Text        string     `json:"text"`
}

type commandRequest struct {
	Input string `json:"input"`
}

type commandResponse struct {
	Response string `json:"response"`
	Exit     bool   `json:"exit"`
	Error    string `json:"error,omitempty"`
}

func NewServer(handler command.Handler) *Server {
	return &Server{handler: handler}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.indexHandler)
	r.Post("/commands", s.formCommandHandler)
	r.Get("/health", s.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", s.apiTasksHandler)
		r.Post("/commands", s.apiCommandHandler)
	})
	return r
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, "", command.Response{})
}

func (s *Server) formCommandHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	input := strings.TrimSpace(r.PostForm.Get("input"))
	if input == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	resp, err := s.handler.Interpret(r.Context(), input)
	if err != nil {
		logger.Error("interpret failed", err, zap.String("input", input))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.renderIndex(w, input, resp)
}

func (s *Server) renderIndex(w http.ResponseWriter, input string, resp command.Response) {
	tasks := buildTaskViews(s.handler.Tasks())
	data := struct {
		Total  int
		Tasks  []taskView
		Input  string
		Reply  string
		Failed bool
	}{
		Total:  len(tasks),
		Tasks:  tasks,
		Input:  input,
		Reply:  resp.Text,
		Failed: resp.Err != nil,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		logger.Error("render index failed", err)
	}
}

func (s *Server) apiTasksHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildTaskViews(s.handler.Tasks()))
}

func (s *Server) apiCommandHandler(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	resp, err := s.handler.Interpret(r.Context(), req.Input)
	if err != nil {
		logger.Error("interpret failed", err, zap.String("input", req.Input))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payload := commandResponse{Response: resp.Text, Exit: resp.Exit}
	status := http.StatusOK
	if resp.Err != nil {
		payload.Error = resp.Err.Error()
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, payload)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tasks": len(s.handler.Tasks())})
}

func buildTaskViews(tasks []model.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for i, task := range tasks {
		views = append(views, taskView{
			Index:       i + 1,
			Kind:        task.Kind,
			Description: task.Description,
			Done:        task.Done,
			By:          task.By,
			From:        task.From,
			To:          task.To,
			Text:        task.Render(),
		})
	}
	return views
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
