package service

import (
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
)

// BackupVersion is the schema version written into every export. Kept in
// lockstep with the legacy deployments so backups replay across both.
const BackupVersion = "2.2.0"

var ErrInvalidImport = errors.New("format data tidak valid")

// BackupService exports and imports the whole local dataset as one JSON
// document, one key per table.
type BackupService struct {
	storage repository.Storage
	repo    *repository.Repository
	logger  *zap.Logger
	now     func() time.Time
}

func NewBackupService(storage repository.Storage, repo *repository.Repository, logger *zap.Logger) *BackupService {
	return &BackupService{storage: storage, repo: repo, logger: logger, now: time.Now}
}

// ExportAll produces the backup document: every table's record list plus
// the schema version and export timestamp.
func (s *BackupService) ExportAll() ([]byte, error) {
	doc := make(map[string]any, len(model.Tables())+2)
	for _, table := range model.Tables() {
		list := s.storage.ReadList(table)
		if list == nil {
			list = []json.RawMessage{}
		}
		doc[table] = list
	}
	doc["exportedAt"] = s.now().Format(time.RFC3339)
	doc["version"] = BackupVersion
	return json.MarshalIndent(doc, "", "  ")
}

// ImportAll replaces each table present in the document wholesale. The whole
// document is validated first: malformed input fails typed without partially
// applying anything. One audit entry records the import.
func (s *BackupService) ImportAll(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return ErrInvalidImport
	}

	// Validate every present table before touching the store.
	lists := make(map[string][]json.RawMessage)
	for _, table := range model.Tables() {
		raw, ok := doc[table]
		if !ok {
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return ErrInvalidImport
		}
		lists[table] = list
	}

	for table, list := range lists {
		if err := s.storage.WriteList(table, list); err != nil {
			s.logger.Error("gagal menulis tabel saat import", zap.String("table", table), zap.Error(err))
			return err
		}
	}

	s.repo.AppendAudit(model.AksiImport, "Data diimpor dari backup")
	return nil
}

// ResetAll wipes every table list. Audited; the session survives so the
// admin doing the reset stays logged in.
func (s *BackupService) ResetAll() error {
	for _, table := range model.Tables() {
		if err := s.storage.WriteList(table, nil); err != nil {
			return err
		}
	}
	s.repo.AppendAudit(model.AksiReset, "Semua data lokal dihapus")
	return nil
}
