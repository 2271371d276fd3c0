package repository

import (
	"time"

	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
)

// Repository aggregates the per-table repos over one shared store.
type Repository struct {
	c *core

	Users      *Users
	Produksi   *Table[model.Produksi, *model.Produksi]
	Distribusi *Table[model.Distribusi, *model.Distribusi]
	Logistik   *Table[model.Logistik, *model.Logistik]
	Audit      *Table[model.AuditEntry, *model.AuditEntry]
}

// Option tweaks repository construction (tests override the clock).
type Option func(*core)

func WithClock(now func() time.Time) Option {
	return func(c *core) { c.now = now }
}

// New wires the repository. cloud may be nil when no remote endpoint is
// configured; pushes are then skipped entirely.
func New(storage Storage, cloud CloudPusher, logger *zap.Logger, opts ...Option) *Repository {
	c := &core{
		store:  storage,
		cloud:  cloud,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return &Repository{
		c:          c,
		Users:      &Users{Table[model.User, *model.User]{c: c, name: model.TableUsers}},
		Produksi:   &Table[model.Produksi, *model.Produksi]{c: c, name: model.TableProduksi},
		Distribusi: &Table[model.Distribusi, *model.Distribusi]{c: c, name: model.TableDistribusi},
		Logistik:   &Table[model.Logistik, *model.Logistik]{c: c, name: model.TableLogistik},
		Audit:      &Table[model.AuditEntry, *model.AuditEntry]{c: c, name: model.TableAudit},
	}
}

// AppendAudit records an audit entry for actions that happen outside the
// table repos (login, logout, import, reset).
func (r *Repository) AppendAudit(aksi, detail string) {
	r.c.audit(aksi, detail)
}
