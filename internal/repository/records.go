// Package repository implements table-oriented CRUD over the persistent
// store: ID assignment, timestamp stamping, per-table duplicate suppression
// (users only), audit trail emission, and fire-and-forget cloud push hooks.
// Local mutation success is always independent of remote outcome.
package repository

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/store"
)

// ErrNotFound is returned by Update when no record with the given ID exists.
var ErrNotFound = errors.New("data tidak ditemukan")

// Storage is what the repository needs from the persistent store.
type Storage interface {
	ReadList(table string) []json.RawMessage
	WriteList(table string, items []json.RawMessage) error
	ReadValue(slot string) ([]byte, bool)
	WriteValue(slot string, v []byte) error
	DeleteValue(slot string) error
}

// CloudPusher receives best-effort push notifications for local mutations.
// Implementations must not block: a failed push is logged at the call site
// and never surfaced to the mutating caller.
type CloudPusher interface {
	PushItem(table string, item json.RawMessage)
	UpdateItem(table, id string, item json.RawMessage)
	DeleteItem(table, id string)
}

// core is the shared machinery behind every table repo.
type core struct {
	store  Storage
	cloud  CloudPusher // nil when no remote endpoint is configured
	logger *zap.Logger
	now    func() time.Time

	idMu   sync.Mutex
	lastID int64
}

// newID returns a time-based token (Unix millis as a decimal string),
// bumped forward when two IDs land in the same millisecond.
func (c *core) newID() string {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return strconv.FormatInt(id, 10)
}

// sessionName resolves the acting user's name from the persisted session
// slot, falling back to "System" when nobody is logged in.
func (c *core) sessionName() string {
	raw, ok := c.store.ReadValue(store.SlotCurrentUser)
	if !ok {
		return "System"
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil || u.Nama == "" {
		return "System"
	}
	return u.Nama
}

// audit appends one entry to the audit table. Writes go straight to the
// store: no push, no recursion back through a table repo.
func (c *core) audit(aksi, detail string) {
	now := c.now()
	entry := model.AuditEntry{
		Base: model.Base{
			ID:      c.newID(),
			Tanggal: now.Format("2006-01-02"),
		},
		Aksi:   aksi,
		Detail: detail,
		User:   c.sessionName(),
		Waktu:  now.Format("15:04"),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("gagal serialisasi audit", zap.Error(err))
		return
	}
	list := append(c.store.ReadList(model.TableAudit), raw)
	if err := c.store.WriteList(model.TableAudit, list); err != nil {
		c.logger.Warn("gagal menyimpan audit", zap.Error(err))
	}
}

// recordPtr constrains P to "pointer to a table record struct".
type recordPtr[T any] interface {
	*T
	model.Record
}

// Table is the generic per-table repository. Insertion order is preserved;
// reads decode straight from the stored JSON list.
type Table[T any, P recordPtr[T]] struct {
	c    *core
	name string
}

// Name returns the table name.
func (t *Table[T, P]) Name() string { return t.name }

// All returns the full ordered list for the table. Records that fail to
// decode are skipped, mirroring the store's corruption policy.
func (t *Table[T, P]) All() []T {
	raws := t.c.store.ReadList(t.name)
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			t.c.logger.Warn("record korup dilewati", zap.String("table", t.name), zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out
}

// ByDate returns records whose tanggal exactly equals date. Exact string
// match, no range or timezone normalization.
func (t *Table[T, P]) ByDate(date string) []T {
	all := t.All()
	out := make([]T, 0, len(all))
	for i := range all {
		if P(&all[i]).RecordDate() == date {
			out = append(out, all[i])
		}
	}
	return out
}

// ByID returns the first record with the given ID.
func (t *Table[T, P]) ByID(id string) (P, bool) {
	all := t.All()
	for i := range all {
		if P(&all[i]).RecordID() == id {
			return P(&all[i]), true
		}
	}
	return nil, false
}

// Add assigns an ID if missing, stamps createdAt, appends, persists, emits
// an audit entry, and fires a best-effort cloud push. The returned record is
// the stored one.
func (t *Table[T, P]) Add(item P) P {
	if item.RecordID() == "" {
		item.SetRecordID(t.c.newID())
	}
	item.StampCreated(t.c.now().Format(time.RFC3339))

	raw, err := json.Marshal(item)
	if err != nil {
		t.c.logger.Error("gagal serialisasi record", zap.String("table", t.name), zap.Error(err))
		return item
	}
	list := append(t.c.store.ReadList(t.name), raw)
	if err := t.c.store.WriteList(t.name, list); err != nil {
		t.c.logger.Error("gagal menyimpan record", zap.String("table", t.name), zap.Error(err))
	}

	if t.name != model.TableAudit {
		t.c.audit(model.AksiAdd, "Menambah data ke "+t.name)
		if t.c.cloud != nil {
			t.c.cloud.PushItem(t.name, raw)
		}
	}
	return item
}

// Update shallow-merges patch into the record with the given ID (patch
// wins), stamps updatedAt, persists, audits, and pushes the full merged
// record. Unknown fields already on the record survive the merge.
func (t *Table[T, P]) Update(id string, patch map[string]any) (P, error) {
	raws := t.c.store.ReadList(t.name)
	idx := indexOf(raws, id)
	if idx < 0 {
		return nil, ErrNotFound
	}

	var merged map[string]any
	if err := json.Unmarshal(raws[idx], &merged); err != nil {
		merged = map[string]any{"id": id}
	}
	for k, v := range patch {
		merged[k] = v
	}
	merged["updatedAt"] = t.c.now().Format(time.RFC3339)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	raws[idx] = raw
	if err := t.c.store.WriteList(t.name, raws); err != nil {
		t.c.logger.Error("gagal menyimpan record", zap.String("table", t.name), zap.Error(err))
	}

	if t.name != model.TableAudit {
		t.c.audit(model.AksiUpdate, "Mengupdate data di "+t.name)
		if t.c.cloud != nil {
			t.c.cloud.UpdateItem(t.name, id, raw)
		}
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return P(&item), nil
}

// Delete removes the record with the given ID. A missing ID is a no-op for
// the list but is still audited and pushed, matching the legacy behavior.
func (t *Table[T, P]) Delete(id string) error {
	raws := t.c.store.ReadList(t.name)
	filtered := make([]json.RawMessage, 0, len(raws))
	for _, raw := range raws {
		if idOf(raw) != id {
			filtered = append(filtered, raw)
		}
	}
	if err := t.c.store.WriteList(t.name, filtered); err != nil {
		return err
	}

	if t.name != model.TableAudit {
		t.c.audit(model.AksiDelete, "Menghapus data dari "+t.name)
		if t.c.cloud != nil {
			t.c.cloud.DeleteItem(t.name, id)
		}
	}
	return nil
}

func idOf(raw json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ID
}

func indexOf(raws []json.RawMessage, id string) int {
	for i, raw := range raws {
		if idOf(raw) == id {
			return i
		}
	}
	return -1
}
