package repository

import (
	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
)

// Users is the user table repo with phone-number duplicate suppression on
// top of the generic table operations.
type Users struct {
	Table[model.User, *model.User]
}

// ByPhone finds a user by phone number, comparing with leading zeros
// stripped so legacy records with mixed formats still match.
func (u *Users) ByPhone(phone string) (*model.User, bool) {
	norm := model.NormalizePhone(phone)
	if norm == "" {
		return nil, false
	}
	all := u.All()
	for i := range all {
		if model.NormalizePhone(all[i].Phone) == norm {
			return &all[i], true
		}
	}
	return nil, false
}

// Add inserts a user unless one with the same normalized phone already
// exists, in which case the existing record is returned unchanged. This is
// a silent no-op merge, not an error: re-imports from other devices must not
// create duplicates.
func (u *Users) Add(item *model.User) *model.User {
	if item.Phone != "" {
		if existing, ok := u.ByPhone(item.Phone); ok {
			u.c.logger.Info("user dengan phone ini sudah ada",
				zap.String("phone", item.Phone))
			return existing
		}
	}
	return u.Table.Add(item)
}
