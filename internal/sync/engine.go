// Package sync reconciles the local store with the remote spreadsheet API:
// opportunistic single-record pushes on every local mutation, on-demand
// whole-table pulls that overwrite local state, and a periodic background
// loop guarded by a single in-flight flag.
package sync

import (
	"context"
	"encoding/json"
	"strings"
	stdsync "sync"
	"time"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/cloud"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/store"
)

// Status mirrors the sync indicator states.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Interval between background reconciliation ticks.
const Interval = 30 * time.Second

// backgroundTables are the tables the loop pulls each tick. Users and audit
// stay local unless a full sync is requested explicitly.
var backgroundTables = []string{model.TableProduksi, model.TableDistribusi, model.TableLogistik}

// LocalStore is what the engine needs from the persistent store.
type LocalStore interface {
	ReadList(table string) []json.RawMessage
	WriteList(table string, items []json.RawMessage) error
	ReadValue(slot string) ([]byte, bool)
}

// Remote is the cloud API surface the engine drives.
type Remote interface {
	Configured() bool
	FetchTable(ctx context.Context, table string) ([]json.RawMessage, error)
	Ping(ctx context.Context) error
	PushItem(ctx context.Context, table string, item json.RawMessage) error
	UpdateItem(ctx context.Context, table, id string, item json.RawMessage) error
	DeleteItem(ctx context.Context, table, id string) error
	SyncTable(ctx context.Context, table string, items []json.RawMessage) error
}

// Broadcaster fans sync state out to connected dashboards. May be nil.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// TableResult is the per-table outcome of a pull.
type TableResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// State is a snapshot of the engine for the status endpoint.
type State struct {
	Status   Status     `json:"status"`
	LastSync *time.Time `json:"lastSync,omitempty"`
}

type Engine struct {
	store  LocalStore
	remote Remote
	hub    Broadcaster
	logger *zap.Logger

	interval    time.Duration
	pullTimeout time.Duration

	mu        stdsync.Mutex
	isSyncing bool
	status    Status
	lastSync  time.Time
}

func NewEngine(s LocalStore, remote Remote, hub Broadcaster, logger *zap.Logger) *Engine {
	return &Engine{
		store:       s,
		remote:      remote,
		hub:         hub,
		logger:      logger,
		interval:    Interval,
		pullTimeout: cloud.PullTimeout,
		status:      StatusIdle,
	}
}

// PushItem implements repository.CloudPusher: fire-and-forget "add" push
// with any embedded image payload stripped. Never blocks the caller, never
// reports failure upward.
func (e *Engine) PushItem(table string, item json.RawMessage) {
	e.broadcastMutation("add", table)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.pullTimeout)
		defer cancel()
		err := e.remote.PushItem(ctx, table, stripFoto(item))
		e.logPush("auto-sync", table, err)
	}()
}

// UpdateItem implements repository.CloudPusher for updates. The full merged
// record travels; only add-pushes strip the photo payload.
func (e *Engine) UpdateItem(table, id string, item json.RawMessage) {
	e.broadcastMutation("update", table)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.pullTimeout)
		defer cancel()
		err := e.remote.UpdateItem(ctx, table, id, item)
		e.logPush("update sync", table, err)
	}()
}

// DeleteItem implements repository.CloudPusher for deletions.
func (e *Engine) DeleteItem(table, id string) {
	e.broadcastMutation("delete", table)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.pullTimeout)
		defer cancel()
		err := e.remote.DeleteItem(ctx, table, id)
		e.logPush("delete sync", table, err)
	}()
}

// broadcastMutation tells connected dashboards that a table changed so
// open views can refresh.
func (e *Engine) broadcastMutation(op, table string) {
	if e.hub == nil {
		return
	}
	e.hub.BroadcastJSON(map[string]any{
		"type":  "record_mutation",
		"op":    op,
		"table": table,
	})
}

func (e *Engine) logPush(kind, table string, err error) {
	if err != nil {
		e.logger.Warn("☁️ "+kind+" gagal", zap.String("table", table), zap.Error(err))
		return
	}
	e.logger.Debug("☁️ "+kind+" OK", zap.String("table", table))
}

// PullTable fetches the remote listing and overwrites the entire local
// table. Full replace, not a merge: a local add whose own push has not
// landed yet loses the race by design.
func (e *Engine) PullTable(ctx context.Context, table string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, e.pullTimeout)
	defer cancel()

	items, err := e.remote.FetchTable(ctx, table)
	if err != nil {
		return 0, err
	}
	if err := e.store.WriteList(table, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// PushTable bulk-sends the entire local table. Empty tables are a no-op.
func (e *Engine) PushTable(ctx context.Context, table string) error {
	items := e.store.ReadList(table)
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.pullTimeout)
	defer cancel()
	return e.remote.SyncTable(ctx, table, items)
}

// FullSync sequentially pulls every known table. One table failing must not
// abort the rest; the caller gets a per-table outcome map.
func (e *Engine) FullSync(ctx context.Context) map[string]TableResult {
	results := make(map[string]TableResult, len(model.Tables()))
	for _, table := range model.Tables() {
		count, err := e.PullTable(ctx, table)
		if err != nil {
			results[table] = TableResult{Success: false, Error: err.Error()}
			continue
		}
		results[table] = TableResult{Success: true, Count: count}
	}
	return results
}

// Ping probes the remote.
func (e *Engine) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, cloud.PingTimeout)
	defer cancel()
	return e.remote.Ping(ctx)
}

// Snapshot returns the current indicator state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := State{Status: e.status}
	if !e.lastSync.IsZero() {
		last := e.lastSync
		st.LastSync = &last
	}
	return st
}

// Run drives the background reconciliation loop until ctx is canceled.
// A tick is skipped when nobody is logged in, when the remote is not
// configured, or when a previous cycle is still in flight.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick runs one background reconciliation cycle. Exposed so a manual
// "sync now" can share the guard with the loop.
func (e *Engine) Tick(ctx context.Context) {
	if !e.remote.Configured() || !e.sessionActive() {
		return
	}

	e.mu.Lock()
	if e.isSyncing {
		e.mu.Unlock()
		return
	}
	e.isSyncing = true
	e.setStatusLocked(StatusSyncing)
	e.mu.Unlock()

	var failed bool
	for _, table := range backgroundTables {
		if _, err := e.PullTable(ctx, table); err != nil {
			e.logger.Warn("background sync gagal", zap.String("table", table), zap.Error(err))
			failed = true
			break
		}
	}

	// The in-flight flag clears unconditionally so the loop can never wedge.
	e.mu.Lock()
	e.isSyncing = false
	if failed {
		e.setStatusLocked(StatusOffline)
	} else {
		e.lastSync = time.Now()
		e.setStatusLocked(StatusOnline)
	}
	e.mu.Unlock()
}

func (e *Engine) sessionActive() bool {
	_, ok := e.store.ReadValue(store.SlotCurrentUser)
	return ok
}

// setStatusLocked updates the indicator and broadcasts the transition.
// Caller holds e.mu.
func (e *Engine) setStatusLocked(s Status) {
	e.status = s
	if e.hub == nil {
		return
	}
	payload := map[string]any{
		"type":   "sync_status",
		"status": string(s),
	}
	if !e.lastSync.IsZero() {
		payload["lastSync"] = e.lastSync.Format(time.RFC3339)
	}
	e.hub.BroadcastJSON(payload)
}

// stripFoto removes large embedded image payloads before a cloud push,
// keeping only the filename reference.
func stripFoto(item json.RawMessage) json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(item, &m); err != nil {
		return item
	}
	raw, ok := m["foto"]
	if !ok {
		return item
	}
	var foto string
	if err := json.Unmarshal(raw, &foto); err != nil || !strings.HasPrefix(foto, "data:image") {
		return item
	}
	delete(m, "foto")
	out, err := json.Marshal(m)
	if err != nil {
		return item
	}
	return out
}
