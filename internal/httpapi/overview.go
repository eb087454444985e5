package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"aquascope/overview-go/internal/geo"
	"aquascope/overview-go/internal/markers"
	"aquascope/overview-go/internal/overview"
)

const (
	tileLayerURL    = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	tileAttribution = "© OpenStreetMap contributors"
	boundsPadding   = 0.1
	emptyMessage    = "No devices with map positions in this scope."
)

type overviewModel struct {
	Header overviewHeader `json:"header"`
	Map    *overviewMap   `json:"map,omitempty"`
	Empty  *string        `json:"empty,omitempty"`
	Stats  overview.Stats `json:"stats"`
	Stale  bool           `json:"stale"`
}

type overviewHeader struct {
	Title       string    `json:"title"`
	User        string    `json:"user"`
	GeneratedAt time.Time `json:"generated_at"`
}

type overviewMap struct {
	TileURL     string         `json:"tile_url"`
	Attribution string         `json:"attribution"`
	Viewport    *geo.Viewport  `json:"viewport,omitempty"`
	Markers     []deviceMarker `json:"markers"`
}

type deviceMarker struct {
	ID       int64         `json:"id"`
	Position geo.LatLng    `json:"position"`
	Glyph    markers.Glyph `json:"glyph"`
	Popup    devicePopup   `json:"popup"`
}

type devicePopup struct {
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	Serial         string     `json:"serial,omitempty"`
	Site           string     `json:"site,omitempty"`
	Status         string     `json:"status"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	LatestFlow     *float64   `json:"latest_flow,omitempty"`
	LatestPressure *float64   `json:"latest_pressure,omitempty"`
}

func (h *Handler) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	node, err := parseNodeParam(q.Get("node"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_failed", "invalid node", map[string]any{"node": q.Get("node")})
		return
	}

	ctx := r.Context()
	loaded, loadErr := h.view.Select(ctx, h.sess, node)
	if !loaded && q.Get("refresh") == "1" {
		loadErr = h.view.Refresh(ctx, h.sess)
	}
	// A failed load never fails the render: the view keeps its last-known
	// snapshot and the response is flagged stale instead.
	if loadErr != nil {
		h.log.Warn().Err(loadErr).Msg("overview served from last-known snapshot")
	}

	model := h.renderOverview(h.view.Snapshot(), h.view.Stats(), loadErr != nil)
	h.writeJSON(w, http.StatusOK, model)
}

func (h *Handler) renderOverview(snap *overview.Snapshot, stats overview.Stats, stale bool) overviewModel {
	model := overviewModel{
		Header: overviewHeader{
			Title:       "All devices",
			User:        h.sess.User,
			GeneratedAt: time.Now().UTC(),
		},
		Stats: stats,
		Stale: stale,
	}

	if snap == nil {
		msg := emptyMessage
		model.Empty = &msg
		return model
	}

	model.Header.GeneratedAt = snap.LoadedAt
	model.Header.Title = scopeTitle(snap.Scope)

	valid := overview.ValidDevices(snap.Devices)
	if len(valid) == 0 {
		msg := emptyMessage
		model.Empty = &msg
		return model
	}

	points := make([]geo.LatLng, 0, len(valid))
	marks := make([]deviceMarker, 0, len(valid))
	for _, d := range valid {
		pos := geo.LatLng{Lat: *d.Latitude, Lng: *d.Longitude}
		points = append(points, pos)
		marks = append(marks, deviceMarker{
			ID:       d.ID,
			Position: pos,
			Glyph:    markers.Render(d.Status, d.Type),
			Popup: devicePopup{
				Name:           d.Name,
				Type:           d.Type,
				Serial:         d.Serial,
				Site:           d.SiteName,
				Status:         d.Status,
				LastSeen:       d.LastSeen,
				LatestFlow:     d.LatestFlow,
				LatestPressure: d.LatestPressure,
			},
		})
	}

	m := &overviewMap{
		TileURL:     tileLayerURL,
		Attribution: tileAttribution,
		Markers:     marks,
	}
	// A viewport that cannot be derived is simply omitted; the client keeps
	// its current view.
	if vp, ok := geo.FitViewport(points, boundsPadding); ok {
		m.Viewport = &vp
	}
	model.Map = m
	return model
}

func scopeTitle(node *overview.OrgNode) string {
	if node == nil {
		return "All devices"
	}
	if name := strings.TrimSpace(node.Name); name != "" {
		return name
	}
	return "Node " + strconv.FormatInt(node.ID, 10)
}

func parseNodeParam(value string) (*overview.OrgNode, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, err
	}
	return &overview.OrgNode{ID: id}, nil
}
