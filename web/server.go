// ABOUTME: Web UI server with embedded templates
// ABOUTME: Dashboard and list pages, JSON deal API, export download and Prometheus metrics
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/export"
	"github.com/harperreed/energycrm/handlers"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/store"
	"github.com/harperreed/energycrm/viz"
)

//go:embed templates/*
var templatesFS embed.FS

// followupWindow is how far ahead the follow-ups page looks.
const followupWindow = 7 * 24 * time.Hour

type Server struct {
	svc       *crm.Service
	templates *template.Template
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
}

type Option func(*Server)

// WithLogger sets the request error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer exposes the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func NewServer(svc *crm.Service, opts ...Option) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"money": viz.Money,
		"stage": func(s models.Stage) string { return s.Label() },
		"date": func(t time.Time) string {
			return t.Format(time.DateOnly)
		},
		"ago": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return humanize.Time(*t)
		},
		"revenue": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return viz.Money(*v)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		svc:       svc,
		templates: tmpl,
		logger:    slog.Default(),
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /contacts", s.handleContacts)
	mux.HandleFunc("GET /companies", s.handleCompanies)
	mux.HandleFunc("GET /deals", s.handleDeals)
	mux.HandleFunc("GET /activities", s.handleActivities)
	mux.HandleFunc("GET /graphs", s.handleGraphs)
	mux.HandleFunc("GET /followups", s.handleFollowups)

	// Partials for HTMX
	mux.HandleFunc("GET /partials/deal-detail", s.handleDealDetail)
	mux.HandleFunc("GET /partials/graph", s.handleGraphPartial)
	mux.HandleFunc("POST /followups/done/{id}", s.handleFollowupDone)

	mux.HandleFunc("GET /api/deals", s.handleAPIDeals)
	mux.HandleFunc("GET /api/dashboard", s.handleAPIDashboard)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats := viz.GenerateDashboardStats(s.svc.State(), s.svc.Now())

	data := map[string]any{
		"Stats":           stats,
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	st := s.svc.State()
	contacts := query.Contacts(st.Contacts, query.ContactFilter{
		Search: r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
	})

	type ContactView struct {
		Contact     models.Contact
		CompanyName string
		Owner       string
	}

	views := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, ContactView{
			Contact:     c,
			CompanyName: query.CompanyName(st, c.CompanyID),
			Owner:       query.OwnerName(st, c.AssignedUserID),
		})
	}

	data := map[string]any{
		"Contacts":        views,
		"Query":           r.URL.Query().Get("q"),
		"Title":           "Contacts",
		"ContentTemplate": "contacts-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	st := s.svc.State()
	q := r.URL.Query()
	companies := query.Companies(st.Companies, query.CompanyFilter{
		Search:  q.Get("q"),
		Type:    q.Get("type"),
		Segment: q.Get("segment"),
		Status:  q.Get("status"),
	})

	type CompanyView struct {
		Company      models.Company
		ContactCount int
		DealValue    float64
	}

	views := make([]CompanyView, 0, len(companies))
	for _, c := range companies {
		views = append(views, CompanyView{
			Company:      c,
			ContactCount: len(query.CompanyContacts(st, c.ID)),
			DealValue:    query.CompanyDealValue(st, c.ID),
		})
	}

	data := map[string]any{
		"Companies":       views,
		"Query":           q.Get("q"),
		"Title":           "Companies",
		"ContentTemplate": "companies-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	st := s.svc.State()
	deals, err := s.filterDeals(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := map[string]any{
		"Deals":           handlers.DealsToOutput(st, deals),
		"Stats":           query.ComputeDealStats(deals),
		"Stages":          models.Stages,
		"Stage":           r.URL.Query().Get("stage"),
		"Query":           r.URL.Query().Get("q"),
		"Title":           "Deals",
		"ContentTemplate": "deals-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	st := s.svc.State()
	q := r.URL.Query()
	activities := query.Activities(st.Activities, query.ActivityFilter{
		Search:  q.Get("q"),
		Type:    q.Get("type"),
		Outcome: q.Get("outcome"),
	})

	type ActivityView struct {
		Activity models.Activity
		User     string
		Deal     string
		Contact  string
	}

	views := make([]ActivityView, 0, len(activities))
	for _, a := range activities {
		v := ActivityView{Activity: a, User: query.ActivityUserName(st, a.UserID)}
		if a.DealID != "" {
			v.Deal = query.DealName(st, a.DealID)
		}
		if a.ContactID != "" {
			v.Contact = query.ContactName(st, a.ContactID)
		}
		views = append(views, v)
	}

	data := map[string]any{
		"Activities":      views,
		"Query":           q.Get("q"),
		"Title":           "Activities",
		"ContentTemplate": "activities-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Companies":       s.svc.State().Companies,
		"Title":           "Graphs",
		"ContentTemplate": "graphs-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleGraphPartial(w http.ResponseWriter, r *http.Request) {
	generator := viz.NewGraphGenerator(s.svc.State())

	var dot string
	var err error

	switch r.URL.Query().Get("type") {
	case "pipeline":
		dot, err = generator.GeneratePipelineGraph()
	case "company":
		company, ok := crm.FindCompany(s.svc.State(), r.URL.Query().Get("entity_id"))
		if !ok {
			http.Error(w, "Company not found", http.StatusNotFound)
			return
		}
		dot, err = generator.GenerateCompanyGraph(company.ID)
	case "all":
		dot, err = generator.GenerateCompleteGraph()
	default:
		http.Error(w, "Invalid graph type", http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "graph", map[string]any{"DOT": dot})
}

func (s *Server) handleDealDetail(w http.ResponseWriter, r *http.Request) {
	st := s.svc.State()
	deal, ok := st.FindDeal(r.URL.Query().Get("id"))
	if !ok {
		http.Error(w, "Deal not found", http.StatusNotFound)
		return
	}

	var activities []models.Activity
	for _, a := range st.Activities {
		if a.DealID == deal.ID {
			activities = append(activities, a)
		}
	}

	data := map[string]any{
		"Deal":       handlers.DealsToOutput(st, []models.Deal{deal})[0],
		"Activities": activities,
	}

	s.renderTemplate(w, "deal-detail", data)
}

func (s *Server) handleFollowups(w http.ResponseWriter, r *http.Request) {
	st := s.svc.State()
	due := crm.Followups(st, s.svc.Now(), followupWindow)

	type FollowupView struct {
		crm.Followup
		Deal    string
		Contact string
	}

	views := make([]FollowupView, 0, len(due))
	for _, f := range due {
		v := FollowupView{Followup: f}
		if f.Activity.DealID != "" {
			v.Deal = query.DealName(st, f.Activity.DealID)
		}
		if f.Activity.ContactID != "" {
			v.Contact = query.ContactName(st, f.Activity.ContactID)
		}
		views = append(views, v)
	}

	data := map[string]any{
		"Followups":       views,
		"Title":           "Follow-ups",
		"ContentTemplate": "followups-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

// handleFollowupDone clears an activity's follow-up date.
func (s *Server) handleFollowupDone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, err := s.svc.UpdateActivity(r.Context(), id, func(a *models.Activity) { a.FollowUpDate = nil })
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Activity not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := w.Write([]byte(`<td colspan="5" class="done">✓ Follow-up done</td>`)); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *Server) handleAPIDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.filterDeals(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"deals": handlers.DealsToOutput(s.svc.State(), deals),
		"stats": query.ComputeDealStats(deals),
	})
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, viz.GenerateDashboardStats(s.svc.State(), s.svc.Now()))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := s.svc.Now()
	contentType := "application/json"
	if format == export.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(now, format)))

	if err := export.Write(w, export.Build(s.svc.State(), now), format); err != nil {
		s.logger.Error("export failed", "format", format, "error", err)
	}
}

// filterDeals applies the q, stage, type, where and limit query parameters.
func (s *Server) filterDeals(r *http.Request) ([]models.Deal, error) {
	q := r.URL.Query()
	deals := query.Deals(s.svc.State().Deals, query.DealFilter{
		Search:      q.Get("q"),
		Stage:       q.Get("stage"),
		ProjectType: q.Get("type"),
	})

	if where := q.Get("where"); where != "" {
		expr, err := query.Compile(where)
		if err != nil {
			return nil, err
		}
		if deals, err = query.Select(expr, deals); err != nil {
			return nil, err
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid limit: %s", raw)
		}
		if len(deals) > limit {
			deals = deals[:limit]
		}
	}
	return deals, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
