// Package store is the persistent key-value substrate under the record
// repository. Each table is one row holding its JSON-serialized ordered
// record list; writes replace the whole list, last writer wins. Reads that
// hit corrupt JSON degrade to "no data" instead of failing the caller.
package store

import (
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
)

// keyPrefix namespaces every entry, matching the legacy deployments so a
// backup from one can be replayed into the other.
const keyPrefix = "sppg_v2_"

// Well-known non-table slots.
const (
	SlotCurrentUser = "current_user"
	SlotAPIURL      = "api_url"
)

// Entry is one persisted key/value pair.
type Entry struct {
	Key       string `gorm:"type:varchar(64);primaryKey"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates the backing table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Entry{})
}

// ReadList returns the ordered record list for a table. A missing key,
// a storage failure, or corrupt JSON all read as an empty list; corruption
// must never propagate as an error into render paths.
func (s *Store) ReadList(table string) []json.RawMessage {
	raw, ok := s.get(keyPrefix + table)
	if !ok {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("data tabel korup, dianggap kosong",
			zap.String("table", table), zap.Error(err))
		return nil
	}
	return list
}

// WriteList replaces a table's entire list.
func (s *Store) WriteList(table string, items []json.RawMessage) error {
	if items == nil {
		items = []json.RawMessage{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.put(keyPrefix+table, raw)
}

// ReadValue reads a non-table slot (session user, configured endpoint).
func (s *Store) ReadValue(slot string) ([]byte, bool) {
	return s.get(keyPrefix + slot)
}

func (s *Store) WriteValue(slot string, v []byte) error {
	return s.put(keyPrefix+slot, v)
}

func (s *Store) DeleteValue(slot string) error {
	return s.db.Delete(&Entry{}, "key = ?", keyPrefix+slot).Error
}

// Wipe removes every table list plus the session slot. Used for the full
// data reset and for the endpoint-change resync.
func (s *Store) Wipe() {
	for _, table := range model.Tables() {
		if err := s.db.Delete(&Entry{}, "key = ?", keyPrefix+table).Error; err != nil {
			s.logger.Warn("gagal menghapus tabel", zap.String("table", table), zap.Error(err))
		}
	}
	if err := s.DeleteValue(SlotCurrentUser); err != nil {
		s.logger.Warn("gagal menghapus sesi", zap.Error(err))
	}
}

func (s *Store) get(key string) ([]byte, bool) {
	var entry Entry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("gagal membaca storage", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return entry.Value, true
}

func (s *Store) put(key string, value []byte) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
