package dashboard

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/analyzer"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/progress"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/repository"
	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// wsReadLimit caps one inbound websocket frame. A task request is a few dozen bytes.
const wsReadLimit = 4 << 10

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Backend is the analyzer API as seen by the dashboard.
type Backend interface {
	Health(ctx context.Context) error
	Tiers(ctx context.Context) ([]domain.Tier, error)
	Analyze(ctx context.Context, req service.Request) (*domain.Analysis, error)
}

type Server struct {
	mux      *http.ServeMux
	tmpl     *template.Template
	backend  Backend
	progress progress.Ticker
}

type formView struct {
	Name     string
	Duration int
	Tier     string
}

type pageData struct {
	Title       string
	APIStatus   string
	Sentinel    string
	MinDuration int
	MaxDuration int
	Tiers       []domain.Tier
	Form        formView
	Result      *domain.Analysis
	Error       string
}

// wsMessage is one frame of the progress stream.
type wsMessage struct {
	Type  string `json:"type"`
	Step  int    `json:"step,omitempty"`
	Total int    `json:"total,omitempty"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

func New(backend Backend, tk progress.Ticker) (*Server, error) {
	funcMap := template.FuncMap{
		"window":  analyzer.WindowLabel,
		"percent": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"kg":      func(v float64) string { return fmt.Sprintf("%.2f kg", v) },
	}

	tmpl, err := template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		tmpl:     tmpl,
		backend:  backend,
		progress: tk,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/", s.handleIndex)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": s.status(ctx)}); err != nil {
		log.Debug().Err(err).Msg("healthz encode failed")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s.render(w, s.page(ctx, defaultForm()))
}

// handleAnalyze is the plain form post. It blocks for the progress animation
// before rendering the result, so it works without javascript.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	req := parseForm(r)
	data := s.page(r.Context(), formView{Name: req.Name, Duration: req.DurationHours, Tier: req.Tier})
	if unselected(req.Tier) {
		s.render(w, data)
		return
	}

	if err := s.progress.Run(r.Context(), nil); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	a, err := s.backend.Analyze(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("analyze request failed")
		data.Error = "Analysis failed: " + err.Error()
	}
	data.Result = a
	s.render(w, data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	for {
		var req service.Request
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		req.DurationHours = analyzer.ClampDuration(req.DurationHours)
		if err := s.stream(r.Context(), conn, req); err != nil {
			log.Debug().Err(err).Msg("websocket closed mid-analysis")
			return
		}
	}
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn, req service.Request) error {
	if unselected(req.Tier) {
		return conn.WriteJSON(wsMessage{Type: "skipped"})
	}

	err := s.progress.Run(ctx, func(step int) error {
		return conn.WriteJSON(wsMessage{Type: "progress", Step: step, Total: s.progress.Steps})
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	a, err := s.backend.Analyze(ctx, req)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("analyze request failed")
		return conn.WriteJSON(wsMessage{Type: "error", Error: "Analysis failed: " + err.Error()})
	case a == nil:
		return conn.WriteJSON(wsMessage{Type: "skipped"})
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "result", a); err != nil {
		log.Error().Err(err).Msg("render result failed")
		return conn.WriteJSON(wsMessage{Type: "error", Error: "template error"})
	}
	return conn.WriteJSON(wsMessage{Type: "result", HTML: buf.String()})
}

func (s *Server) page(ctx context.Context, form formView) pageData {
	tiers, err := s.backend.Tiers(ctx)
	if err != nil || len(tiers) == 0 {
		log.Warn().Err(err).Msg("tier catalog unavailable, showing built-in tiers")
		tiers = repository.BuiltinTiers()
	}
	tiers = repository.Normalize(tiers)
	return pageData{
		Title:       "Carbon-Aware AI Scheduler",
		APIStatus:   s.status(ctx),
		Sentinel:    string(domain.TierUnselected),
		MinDuration: analyzer.MinDurationHours,
		MaxDuration: analyzer.MaxDurationHours,
		Tiers:       tiers,
		Form:        form,
	}
}

func (s *Server) status(ctx context.Context) string {
	if err := s.backend.Health(ctx); err == nil {
		return "online"
	}
	return "offline"
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.Error().Err(err).Msg("render error")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func defaultForm() formView {
	return formView{Duration: analyzer.MinDurationHours, Tier: string(domain.TierUnselected)}
}

// parseForm reads the submission the way the inputs constrain it: a missing or
// non-numeric duration falls back to 1 and any value is clamped to [1, 24].
func parseForm(r *http.Request) service.Request {
	d, err := strconv.Atoi(strings.TrimSpace(r.FormValue("duration_hours")))
	if err != nil {
		d = analyzer.MinDurationHours
	}
	tier := strings.TrimSpace(r.FormValue("tier"))
	if unselected(tier) {
		tier = string(domain.TierUnselected)
	}
	return service.Request{
		Name:          r.FormValue("name"),
		DurationHours: analyzer.ClampDuration(d),
		Tier:          tier,
	}
}

func unselected(tier string) bool {
	tier = strings.TrimSpace(tier)
	return tier == "" || strings.EqualFold(tier, string(domain.TierUnselected))
}
