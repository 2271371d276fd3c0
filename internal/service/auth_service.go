package service

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/model"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/store"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/jwt"
)

var (
	ErrNotRegistered = errors.New("nomor HP tidak terdaftar")
	ErrInactive      = errors.New("akun tidak aktif")
	ErrWrongPin      = errors.New("PIN salah")
)

type AuthService interface {
	Login(phone, pin string) (*LoginResponse, error)
	Logout() error
	CurrentUser() (*model.User, bool)
	SessionValid(tokenVersion string) bool
}

type LoginResponse struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	CanEdit   bool       `json:"canEdit"`
	RoleLabel string     `json:"roleLabel"`
}

// session is the single persisted current-user slot. The embedded user is
// the durable backing store for "who is logged in"; TokenVersion enforces
// one active session per node.
type session struct {
	model.User
	TokenVersion string `json:"tokenVersion,omitempty"`
}

type authService struct {
	repo    *repository.Repository
	storage repository.Storage
	logger  *zap.Logger
}

func NewAuthService(repo *repository.Repository, storage repository.Storage, logger *zap.Logger) AuthService {
	return &authService{repo: repo, storage: storage, logger: logger}
}

func (s *authService) Login(phone, pin string) (*LoginResponse, error) {
	// 1. Lookup by normalized phone
	user, ok := s.repo.Users.ByPhone(phone)
	if !ok {
		return nil, ErrNotRegistered
	}

	// 2. Account must be active
	if !user.IsActive() {
		return nil, ErrInactive
	}

	// 3. PIN check. Users synced from old deployments may have no PIN yet;
	// they fall back to the legacy default.
	if user.Pin == "" {
		s.logger.Warn("user login dengan PIN default", zap.String("phone", user.Phone))
	}
	if pin != user.EffectivePin() {
		return nil, ErrWrongPin
	}

	// 4. Persist the session slot, then audit (the audit entry's user field
	// resolves from the slot we just wrote)
	tokenVersion := uuid.New().String()
	sess := session{User: *user, TokenVersion: tokenVersion}
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.storage.WriteValue(store.SlotCurrentUser, raw); err != nil {
		return nil, err
	}
	s.repo.AppendAudit(model.AksiLogin, user.Nama+" login ke sistem")

	// 5. Issue the bearer token for the HTTP surface
	token, err := jwt.GenerateToken(user.ID, user.Nama, user.Role, user.CanEdit(), tokenVersion)
	if err != nil {
		return nil, errors.New("gagal membuat token")
	}

	return &LoginResponse{
		Token:     token,
		User:      *user,
		CanEdit:   user.CanEdit(),
		RoleLabel: model.RoleLabel(user.Role),
	}, nil
}

func (s *authService) Logout() error {
	if user, ok := s.CurrentUser(); ok {
		s.repo.AppendAudit(model.AksiLogout, user.Nama+" logout dari sistem")
	}
	return s.storage.DeleteValue(store.SlotCurrentUser)
}

// CurrentUser returns the persisted session user. This is the sole
// mechanism for "is anyone logged in".
func (s *authService) CurrentUser() (*model.User, bool) {
	raw, ok := s.storage.ReadValue(store.SlotCurrentUser)
	if !ok {
		return nil, false
	}
	var sess session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.Warn("sesi korup, dianggap logout", zap.Error(err))
		return nil, false
	}
	return &sess.User, true
}

// SessionValid checks a token's version against the persisted slot, so a
// later login (or logout) invalidates earlier tokens.
func (s *authService) SessionValid(tokenVersion string) bool {
	raw, ok := s.storage.ReadValue(store.SlotCurrentUser)
	if !ok {
		return false
	}
	var sess session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return false
	}
	return sess.TokenVersion == tokenVersion
}
