package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s := New(db, zap.NewNop())
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestListRoundtrip(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	items := []json.RawMessage{
		json.RawMessage(`{"id":"1","nama":"Beras"}`),
		json.RawMessage(`{"id":"2","nama":"Telur"}`),
	}
	if err := s.WriteList(model.TableLogistik, items); err != nil {
		t.Fatalf("WriteList: %v", err)
	}

	got := s.ReadList(model.TableLogistik)
	if len(got) != 2 {
		t.Fatalf("ReadList returned %d items, want 2", len(got))
	}
	if string(got[0]) != string(items[0]) {
		t.Errorf("item 0 = %s, want %s", got[0], items[0])
	}

	// overwrite replaces, not appends
	if err := s.WriteList(model.TableLogistik, items[:1]); err != nil {
		t.Fatalf("WriteList: %v", err)
	}
	if got := s.ReadList(model.TableLogistik); len(got) != 1 {
		t.Errorf("after overwrite got %d items, want 1", len(got))
	}
}

func TestReadMissingTable(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	if got := s.ReadList("tidak_ada"); got != nil {
		t.Errorf("missing table should read as nil, got %v", got)
	}
}

func TestCorruptListReadsEmpty(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	if err := s.put(keyPrefix+model.TableProduksi, []byte(`{bukan json`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := s.ReadList(model.TableProduksi); got != nil {
		t.Errorf("corrupt list should read as nil, got %v", got)
	}
}

func TestValueSlots(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	if _, ok := s.ReadValue(SlotCurrentUser); ok {
		t.Fatal("empty slot should not resolve")
	}
	if err := s.WriteValue(SlotCurrentUser, []byte(`{"nama":"Ayu"}`)); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	raw, ok := s.ReadValue(SlotCurrentUser)
	if !ok || string(raw) != `{"nama":"Ayu"}` {
		t.Fatalf("ReadValue = %s, %v", raw, ok)
	}
	if err := s.DeleteValue(SlotCurrentUser); err != nil {
		t.Fatalf("DeleteValue: %v", err)
	}
	if _, ok := s.ReadValue(SlotCurrentUser); ok {
		t.Error("deleted slot should not resolve")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s := openTestStore(t, path)
	if err := s.WriteList(model.TableUsers, []json.RawMessage{json.RawMessage(`{"id":"7"}`)}); err != nil {
		t.Fatalf("WriteList: %v", err)
	}

	reopened := openTestStore(t, path)
	if got := reopened.ReadList(model.TableUsers); len(got) != 1 {
		t.Fatalf("after reopen got %d items, want 1", len(got))
	}
}

func TestWipe(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))

	for _, table := range model.Tables() {
		if err := s.WriteList(table, []json.RawMessage{json.RawMessage(`{"id":"1"}`)}); err != nil {
			t.Fatalf("WriteList %s: %v", table, err)
		}
	}
	if err := s.WriteValue(SlotCurrentUser, []byte(`{}`)); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}
	if err := s.WriteValue(SlotAPIURL, []byte(`https://example.test`)); err != nil {
		t.Fatalf("WriteValue: %v", err)
	}

	s.Wipe()

	for _, table := range model.Tables() {
		if got := s.ReadList(table); got != nil {
			t.Errorf("table %s should be empty after wipe", table)
		}
	}
	if _, ok := s.ReadValue(SlotCurrentUser); ok {
		t.Error("session slot should be gone after wipe")
	}
	// the endpoint slot survives: it is what the wipe decision keys on
	if _, ok := s.ReadValue(SlotAPIURL); !ok {
		t.Error("endpoint slot should survive a wipe")
	}
}
