package web

import (
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"calevent/internal/agenda"
	"calevent/internal/config"
	"calevent/internal/datefmt"
	"calevent/internal/feed"
	"calevent/internal/i18n"
	appLog "calevent/internal/log"
	"calevent/internal/model"
	"calevent/internal/popover"
	"calevent/internal/render"
	"calevent/internal/style"
)

// SnapshotSource provides the current event snapshot. feed.Refresher
// implements it.
type SnapshotSource interface {
	Snapshot() feed.Snapshot
}

// Server serves the rendered calendar page and its JSON API.
type Server struct {
	cfg  *config.Config
	src  SnapshotSource
	mux  *http.ServeMux
	page *template.Template
	now  func() time.Time

	// Each agenda cell owns one render.Item so that its node memo and
	// viewer state survive between requests. Items are not safe for
	// concurrent use; cellsMu guards every access.
	cellsMu sync.Mutex
	cells   map[string]*cell
	// deleted holds event keys removed through the viewer.
	deleted map[string]bool
}

type cell struct {
	item  *render.Item
	props render.Props
}

//go:embed templates/calendar.html
var templatesFS embed.FS

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, src SnapshotSource) *Server {
	s := &Server{
		cfg:     cfg,
		src:     src,
		mux:     http.NewServeMux(),
		page:    template.Must(template.ParseFS(templatesFS, "templates/calendar.html")),
		now:     time.Now,
		cells:   make(map[string]*cell),
		deleted: make(map[string]bool),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials mean disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="calevent", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("POST /api/events/{key}/viewer", s.handleViewer)
	s.mux.HandleFunc("GET /calendar", s.handleCalendar)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	s.mux.Handle("GET /{$}", http.RedirectHandler("/calendar", http.StatusFound))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePreview serves the last captured PNG from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.PreviewPath)
}

// renderedCell is one event as placed and rendered in one day.
type renderedCell struct {
	key    string
	entry  agenda.Entry
	node   *render.Node
	viewer *render.Node
}

type renderedDay struct {
	date  time.Time
	cells []renderedCell
}

// layout renders the configured view from the current snapshot. Cells that
// disappeared from the view are dropped along with their viewer state.
func (s *Server) layout(ctx render.Context, snap feed.Snapshot) ([]renderedDay, error) {
	loc := snap.Location
	if loc == nil {
		loc = feed.ResolveLocation(s.cfg.Timezone)
	}
	start, n := agenda.Window(s.now(), s.cfg.Display.View, s.cfg.WeekStart, loc)

	s.cellsMu.Lock()
	defer s.cellsMu.Unlock()

	events := make([]model.Event, 0, len(snap.Events))
	for _, ev := range snap.Events {
		if !s.deleted[ev.Key()] {
			events = append(events, ev)
		}
	}

	seen := make(map[string]bool)
	days := make([]renderedDay, 0, n)
	for _, day := range agenda.Build(events, start, n, loc) {
		rd := renderedDay{date: day.Date}
		for _, e := range day.Entries {
			key := cellKey(e, day.Date)
			seen[key] = true

			c, ok := s.cells[key]
			if !ok {
				c = &cell{item: render.NewItem()}
				s.cells[key] = c
			}
			c.props = render.EntryProps(e, s.cfg.Display.ShowDate)

			node, err := c.item.Render(ctx, c.props)
			if err != nil {
				return nil, err
			}
			rd.cells = append(rd.cells, renderedCell{
				key:    key,
				entry:  e,
				node:   node,
				viewer: c.item.Popover(ctx, e.Event),
			})
		}
		days = append(days, rd)
	}

	for key := range s.cells {
		if !seen[key] {
			delete(s.cells, key)
		}
	}
	return days, nil
}

// cellKey identifies an event within one day.
func cellKey(e agenda.Entry, day time.Time) string {
	return e.Event.Key() + "@" + day.Format("20060102")
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Days            []dayDTO  `json:"days"`
	TruncatedUIDs   []string  `json:"truncated_uids,omitempty"`
	RangeStart      time.Time `json:"range_start"`
	RangeEnd        time.Time `json:"range_end"`
	UpdatedAt       time.Time `json:"updated_at"`
	DisplayTimeZone string    `json:"display_timezone"`
	WeekStart       string    `json:"week_start"`
	View            string    `json:"view"`
}

type dayDTO struct {
	Date   string     `json:"date"`
	Events []eventDTO `json:"events"`
}

// eventDTO is a JSON-friendly view of one rendered cell.
type eventDTO struct {
	Key      string    `json:"key"`
	EventKey string    `json:"event_key"`
	ID       string    `json:"id"`
	SourceID string    `json:"source_id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
	Disabled bool      `json:"disabled"`
	Multiday bool      `json:"multiday"`
	HasPrev  bool      `json:"has_prev"`
	HasNext  bool      `json:"has_next"`
	Style    string    `json:"style"`
	HTML     string    `json:"html"`
	Viewer   string    `json:"viewer,omitempty"`
}

// handleEvents returns the configured view as rendered cells.
//
// GET /api/events
func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	snap := s.src.Snapshot()
	ctx := render.FromConfig(s.cfg)

	days, err := s.layout(ctx, snap)
	if err != nil {
		appLog.Error("api events: render failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render events")
		return
	}

	resp := eventsResponse{
		Days:          make([]dayDTO, 0, len(days)),
		TruncatedUIDs: snap.Truncated,
		RangeStart:    snap.RangeStart,
		RangeEnd:      snap.RangeEnd,
		UpdatedAt:     snap.UpdatedAt,
		WeekStart:     s.cfg.WeekStart,
		View:          s.cfg.Display.View,
	}
	if snap.Location != nil {
		resp.DisplayTimeZone = snap.Location.String()
	}

	for _, d := range days {
		dto := dayDTO{Date: d.date.Format(time.DateOnly), Events: make([]eventDTO, 0, len(d.cells))}
		for _, c := range d.cells {
			dto.Events = append(dto.Events, cellDTO(c))
		}
		resp.Days = append(resp.Days, dto)
	}

	writeJSON(w, http.StatusOK, resp)
}

func cellDTO(c renderedCell) eventDTO {
	ev := c.entry.Event
	dto := eventDTO{
		Key:      c.key,
		EventKey: ev.Key(),
		ID:       ev.ID,
		SourceID: ev.SourceID,
		Title:    ev.Title,
		Subtitle: ev.Subtitle,
		Start:    ev.Start,
		End:      ev.End,
		AllDay:   ev.AllDay,
		Disabled: ev.Disabled,
		Multiday: c.entry.Multiday,
		HasPrev:  c.entry.HasPrev,
		HasNext:  c.entry.HasNext,
		Style:    style.Attributes{Extra: c.node.Style}.CSS(),
		HTML:     render.HTML(c.node),
	}
	if c.viewer != nil {
		dto.Viewer = render.HTML(c.viewer)
	}
	return dto
}

type pageData struct {
	Lang      string
	Dir       string
	Title     string
	Columns   int
	Empty     string
	UpdatedAt string
	Days      []pageDay
}

type pageDay struct {
	Header string
	Cells  []pageCell
}

type pageCell struct {
	Key    string
	HTML   template.HTML
	Viewer template.HTML
}

// handleCalendar renders the full calendar page. The body carries
// data-ready="true" so headless capture knows the page is complete.
func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	snap := s.src.Snapshot()
	ctx := render.FromConfig(s.cfg)

	days, err := s.layout(ctx, snap)
	if err != nil {
		appLog.Error("calendar page: render failed", err)
		http.Error(w, "failed to render calendar", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Lang:    ctx.Locale.String(),
		Dir:     string(ctx.Direction),
		Title:   "calevent",
		Columns: min(len(days), 7),
		Empty:   i18n.T(ctx.Locale, "agenda.no_events"),
	}
	if data.Columns == 0 {
		data.Columns = 1
	}
	if !snap.UpdatedAt.IsZero() {
		loc := snap.Location
		if loc == nil {
			loc = time.Local
		}
		data.UpdatedAt = snap.UpdatedAt.In(loc).Format(time.RFC3339)
	}

	for _, d := range days {
		header, err := datefmt.Localized{}.Format(d.date, datefmt.DayMonth, ctx.Locale)
		if err != nil {
			header = d.date.Format(time.DateOnly)
		}
		pd := pageDay{Header: header}
		for _, c := range d.cells {
			// Node HTML is escaped by render.HTML.
			pc := pageCell{Key: c.key, HTML: template.HTML(render.HTML(c.node))}
			if c.viewer != nil {
				pc.Viewer = template.HTML(render.HTML(c.viewer))
			}
			pd.Cells = append(pd.Cells, pc)
		}
		data.Days = append(data.Days, pd)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		appLog.Error("calendar page: template failed", err)
	}
}

// viewerResponse is the JSON response shape for viewer transitions.
type viewerResponse struct {
	Key           string `json:"key"`
	Open          bool   `json:"open"`
	Anchor        string `json:"anchor,omitempty"`
	DeleteConfirm bool   `json:"delete_confirm"`
	Deleted       bool   `json:"deleted,omitempty"`
	Viewer        string `json:"viewer,omitempty"`
}

// handleViewer drives the viewer of one cell.
//
// POST /api/events/{key}/viewer
//   - action=open&anchor=...: open (or re-anchor) the viewer
//   - action=close:           close it and clear the delete confirmation
//   - action=confirm-delete:  ask for delete confirmation
//   - action=cancel-delete:   withdraw the confirmation
//   - action=delete:          hide the event; requires a pending confirmation
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	action := r.PostForm.Get("action")
	ctx := render.FromConfig(s.cfg)

	s.cellsMu.Lock()
	defer s.cellsMu.Unlock()

	c, ok := s.cells[key]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown event")
		return
	}
	ev := c.props.Event
	viewer := c.item.Viewer()

	var err error
	switch action {
	case "open":
		anchor := popover.Anchor(r.PostForm.Get("anchor"))
		if anchor == popover.None {
			anchor = popover.Anchor(key)
		}
		c.item.Click(ctx, ev, anchor)
	case "close":
		c.item.Trigger(popover.None)
	case "confirm-delete":
		err = viewer.SetDeleteConfirm(true)
	case "cancel-delete":
		err = viewer.SetDeleteConfirm(false)
	case "delete":
		if !viewer.DeleteConfirmPending() {
			writeError(w, http.StatusConflict, "delete requires confirmation")
			return
		}
		if ev.Disabled {
			writeError(w, http.StatusConflict, "event is disabled")
			return
		}
		s.deleted[ev.Key()] = true
		c.item.Trigger(popover.None)
		appLog.Info("event hidden via viewer", "event_key", ev.Key(), "id", ev.ID)
		writeJSON(w, http.StatusOK, viewerResponse{Key: key, Deleted: true})
		return
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}
	if errors.Is(err, popover.ErrClosed) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	resp := viewerResponse{
		Key:           key,
		Open:          viewer.IsOpen(),
		Anchor:        string(viewer.Anchor()),
		DeleteConfirm: viewer.DeleteConfirmPending(),
	}
	if n := c.item.Popover(ctx, ev); n != nil {
		resp.Viewer = render.HTML(n)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
