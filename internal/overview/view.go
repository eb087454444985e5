package overview

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aquascope/overview-go/internal/metrics"
	"aquascope/overview-go/internal/session"
)

// Inventory is the minimal upstream surface the view needs. *upstream.Client
// satisfies this.
type Inventory interface {
	ListNodeDevices(ctx context.Context, sess session.Session, nodeID int64) ([]Device, error)
	ListOrgDevices(ctx context.Context, sess session.Session) ([]Device, error)
	AlarmSummary(ctx context.Context, sess session.Session, nodeID *int64) (AlarmSummary, error)
}

// View holds the overview's display state: the selected scope, the last
// successfully loaded snapshot, and memoized statistics.
//
// Loads are not cancelled when the selection changes. If callers drive Select
// concurrently, a slow response for an older selection can land after a newer
// one and overwrite it; the last writer wins. That matches the upstream
// product's behavior and is deliberately left as-is here.
type View struct {
	log     zerolog.Logger
	inv     Inventory
	metrics *metrics.Metrics

	mu       sync.Mutex
	scopeKey string
	scope    *OrgNode
	snap     *Snapshot
	loading  int

	statsRev string
	stats    Stats
}

func NewView(log zerolog.Logger, inv Inventory, m *metrics.Metrics) *View {
	return &View{log: log, inv: inv, metrics: m}
}

// Select switches the view to the given organizational node (nil selects the
// whole organization). A changed selection triggers exactly one load; selecting
// the already-current scope serves the existing snapshot without refetching.
// The boolean reports whether a load was performed. On load failure the prior
// snapshot stays in place and the error is returned so the caller can decide
// whether to surface it.
func (v *View) Select(ctx context.Context, sess session.Session, node *OrgNode) (bool, error) {
	key := scopeKey(node)

	v.mu.Lock()
	if v.snap != nil && v.scopeKey == key {
		v.mu.Unlock()
		return false, nil
	}
	v.scopeKey = key
	v.scope = node
	v.mu.Unlock()

	return true, v.load(ctx, sess, node)
}

// Refresh re-loads the current selection, keeping the prior snapshot on error.
func (v *View) Refresh(ctx context.Context, sess session.Session) error {
	v.mu.Lock()
	node := v.scope
	v.mu.Unlock()
	return v.load(ctx, sess, node)
}

// Snapshot returns the last successfully loaded snapshot, or nil before the
// first load succeeds.
func (v *View) Snapshot() *Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// Loading reports whether at least one load is currently in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading > 0
}

// Stats returns panel statistics for the current snapshot, recomputing only
// when the snapshot revision changes.
func (v *View) Stats() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.snap == nil {
		return ComputeStats(nil, AlarmSummary{})
	}
	if v.statsRev != v.snap.Revision {
		v.stats = ComputeStats(v.snap.Devices, v.snap.Alarms)
		v.statsRev = v.snap.Revision
	}
	return v.stats
}

func (v *View) load(ctx context.Context, sess session.Session, node *OrgNode) error {
	scope := scopeKey(node)
	start := time.Now()

	v.mu.Lock()
	v.loading++
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.loading--
		v.mu.Unlock()
	}()

	devices, alarms, err := v.fetch(ctx, sess, node)
	v.metrics.ObserveUpstreamFetch(scope, err == nil, time.Since(start))
	if err != nil {
		v.log.Error().Err(err).Str("scope", scope).Msg("overview load failed")
		return err
	}

	snap := &Snapshot{
		Revision: uuid.NewString(),
		Scope:    node,
		Devices:  devices,
		Alarms:   alarms,
		LoadedAt: time.Now().UTC(),
	}

	v.mu.Lock()
	v.snap = snap
	v.mu.Unlock()

	v.log.Info().
		Str("scope", scope).
		Str("revision", snap.Revision).
		Int("devices", len(devices)).
		Int("active_alarms", alarms.ActiveCount).
		Msg("overview loaded")
	return nil
}

func (v *View) fetch(ctx context.Context, sess session.Session, node *OrgNode) ([]Device, AlarmSummary, error) {
	var (
		devices []Device
		err     error
	)
	if node != nil {
		devices, err = v.inv.ListNodeDevices(ctx, sess, node.ID)
	} else {
		devices, err = v.inv.ListOrgDevices(ctx, sess)
	}
	if err != nil {
		return nil, AlarmSummary{}, fmt.Errorf("list devices: %w", err)
	}

	var nodeID *int64
	if node != nil {
		nodeID = &node.ID
	}
	alarms, err := v.inv.AlarmSummary(ctx, sess, nodeID)
	if err != nil {
		return nil, AlarmSummary{}, fmt.Errorf("alarm summary: %w", err)
	}
	return devices, alarms, nil
}

func scopeKey(node *OrgNode) string {
	if node == nil {
		return "org"
	}
	return "node:" + strconv.FormatInt(node.ID, 10)
}
