package session

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"sonnik/internal/api"
	"sonnik/internal/notify"
	"sonnik/internal/state"
)

// User-visible messages, kept identical to the browser client's.
const (
	MessageBanned         = "Ваш аккаунт заблокирован. Обратитесь к администратору."
	MessageSessionExpired = "Сессия истекла. Пожалуйста, войдите снова."
	MessageUserNotFound   = "Пользователь не найден. Проверьте номер телефона или зарегистрируйтесь"
	MessageUserExists     = "Пользователь с таким номером уже существует. Войдите в аккаунт"
	MessageRegisterFailed = "Ошибка регистрации. Попробуйте еще раз"
	MessageNetworkError   = "Ошибка соединения с сервером"
	MessageLoggedIn       = "Вход успешен!"
	MessageRegistered     = "Регистрация успешна!"
	MessageLoggedOut      = "Вы вышли из аккаунта"
)

// Manager owns the Session object. Every component reads the session
// through it; only the manager mutates it, always as a full replace.
type Manager struct {
	client   *api.Client
	store    *state.Store
	notifier notify.Notifier

	mu      sync.Mutex
	session Session
	profile *Profile
	epoch   uint64
}

// NewManager instantiates a session manager in guest mode. Call Initialize
// to reconcile against the persisted token.
func NewManager(client *api.Client, store *state.Store, notifier notify.Notifier) *Manager {
	return &Manager{
		client:   client,
		store:    store,
		notifier: notifier,
		session:  Session{Mode: ModeGuest},
	}
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Mode returns the current usage tier.
func (m *Manager) Mode() Mode {
	return m.Current().Mode
}

// Profile returns a copy of the cached profile, or nil in guest mode.
func (m *Manager) Profile() *Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil
	}
	profile := *m.profile
	return &profile
}

// Epoch returns the session generation. It moves on every transition out of
// the current session (logout, ban, expiry, re-login). Callers holding
// results from an in-flight call must re-check the epoch before applying
// them; a moved epoch means the results are stale and must be dropped.
func (m *Manager) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// Initialize reads the persisted token and reconciles it against the
// backend. Outcomes: valid token → authenticated with the profile cached;
// invalid and banned → full state wipe, one banned notification, guest;
// invalid otherwise → token-only clear, guest; no token → guest.
func (m *Manager) Initialize(ctx context.Context) error {
	token, err := m.store.Get(state.KeySessionID)
	if err != nil {
		return errors.Wrap(err, "reading session token")
	}
	userID, err := m.store.Get(state.KeyUserID)
	if err != nil {
		return errors.Wrap(err, "reading user id")
	}
	if token == "" || userID == "" {
		m.replace(Session{Mode: ModeGuest}, nil)
		return nil
	}

	user, err := m.client.AuthStatus(ctx, token)
	if err != nil {
		if api.IsBanned(err) {
			m.forceLogout()
			return errors.Wrap(ErrBanned, "validating session")
		}
		// Expired, invalid, or unreachable: only the token is known
		// stale, the rest of the profile cache stays.
		if err := m.store.Delete(state.KeySessionID); err != nil {
			return errors.Wrap(err, "clearing session token")
		}
		m.replace(Session{Mode: ModeGuest}, nil)
		return nil
	}

	if err := m.persistProfile(token, user); err != nil {
		return err
	}
	m.replace(Session{Token: token, UserID: user.ID, Mode: ModeAuthenticated}, profileOf(user))
	return nil
}

// Login authenticates by phone and transitions to authenticated mode on
// success. On failure the mode is left untouched and exactly one
// notification is emitted.
func (m *Manager) Login(ctx context.Context, phone string) error {
	response, err := m.client.Login(ctx, phone)
	if err != nil {
		switch {
		case api.IsBanned(err):
			m.notifier.Notify(notify.Error, MessageBanned)
			return errors.Wrap(ErrBanned, "logging in")
		case api.IsNetworkError(err):
			m.notifier.Notify(notify.Error, MessageNetworkError)
			return err
		default:
			m.notifier.Notify(notify.Error, MessageUserNotFound)
			return errors.Wrap(err, "logging in")
		}
	}

	if err := m.persistProfile(response.SessionID, response.User); err != nil {
		return err
	}
	m.replace(Session{Token: response.SessionID, UserID: response.User.ID, Mode: ModeAuthenticated}, profileOf(response.User))
	m.notifier.Notify(notify.Success, MessageLoggedIn)
	return nil
}

// Register creates an account and transitions to authenticated mode on
// success. Field validation happens at the edge, before this call.
func (m *Manager) Register(ctx context.Context, request *api.RegisterRequest) error {
	response, err := m.client.Register(ctx, request)
	if err != nil {
		switch {
		case api.IsNetworkError(err):
			m.notifier.Notify(notify.Error, MessageNetworkError)
			return err
		case isDuplicate(err):
			m.notifier.Notify(notify.Error, MessageUserExists)
			return errors.Wrap(err, "registering")
		default:
			m.notifier.Notify(notify.Error, MessageRegisterFailed)
			return errors.Wrap(err, "registering")
		}
	}

	user := &api.User{
		ID:        response.UserID,
		Name:      request.Name,
		Phone:     request.Phone,
		Email:     request.Email,
		BirthDate: request.BirthDate,
	}
	if err := m.persistProfile(response.SessionID, user); err != nil {
		return err
	}
	m.replace(Session{Token: response.SessionID, UserID: user.ID, Mode: ModeAuthenticated}, profileOf(user))
	m.notifier.Notify(notify.Success, MessageRegistered)
	return nil
}

// Logout notifies the backend (failure ignored), clears every persisted key
// and enters guest mode.
func (m *Manager) Logout(ctx context.Context) error {
	current := m.Current()
	if current.Mode == ModeAuthenticated {
		// Best effort: the local wipe happens regardless.
		_ = m.client.Logout(ctx, current.Token)
	}
	if err := m.store.Clear(); err != nil {
		return errors.Wrap(err, "clearing local state")
	}
	m.replace(Session{Mode: ModeGuest}, nil)
	m.notifier.Notify(notify.Success, MessageLoggedOut)
	return nil
}

// Do runs an authorized call with the stored token. Ban and expiry signals
// are intercepted here: by the time an error reaches the caller the session
// transition has already happened, so call sites never handle bans
// themselves.
func (m *Manager) Do(ctx context.Context, call func(token string) error) error {
	current := m.Current()
	if current.Mode != ModeAuthenticated {
		return ErrUnauthenticated
	}

	err := call(current.Token)
	if err == nil {
		return nil
	}
	switch {
	case api.IsBanned(err):
		m.forceLogout()
		return errors.Wrap(ErrBanned, "authorized call")
	case api.IsSessionExpired(err):
		m.expire()
		return errors.Wrap(ErrSessionExpired, "authorized call")
	default:
		return err
	}
}

// SetAvatar caches a local avatar file path alongside the profile. It is
// wiped with the rest of the state on logout and ban.
func (m *Manager) SetAvatar(path string) error {
	if m.Mode() != ModeAuthenticated {
		return ErrUnauthenticated
	}
	return errors.Wrap(m.store.Set(state.KeyUserAvatar, path), "persisting avatar path")
}

// Avatar returns the cached avatar path, empty when unset.
func (m *Manager) Avatar() (string, error) {
	return m.store.Get(state.KeyUserAvatar)
}

// CheckAdmin reports whether the current session has admin rights.
func (m *Manager) CheckAdmin(ctx context.Context) (bool, error) {
	isAdmin := false
	err := m.Do(ctx, func(token string) error {
		var err error
		isAdmin, err = m.client.AdminCheck(ctx, token)
		return err
	})
	return isAdmin, err
}

// forceLogout handles a ban signal: full wipe, one persistent notification,
// guest mode. Any in-flight call observing the old epoch must drop its
// results.
func (m *Manager) forceLogout() {
	// A failed wipe leaves nothing sensitive behind beyond what was
	// already there; the mode transition matters more.
	_ = m.store.Clear()
	m.replace(Session{Mode: ModeGuest}, nil)
	m.notifier.Notify(notify.Error, MessageBanned)
}

// expire handles a 401: the token alone is known stale.
func (m *Manager) expire() {
	_ = m.store.Delete(state.KeySessionID)
	m.replace(Session{Mode: ModeGuest}, nil)
	m.notifier.Notify(notify.Info, MessageSessionExpired)
}

// replace swaps the session object wholesale and bumps the epoch.
func (m *Manager) replace(session Session, profile *Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session
	m.profile = profile
	m.epoch++
}

// persistProfile stores the token and profile fields under the browser
// client's keys.
func (m *Manager) persistProfile(token string, user *api.User) error {
	pairs := map[string]string{
		state.KeySessionID:     token,
		state.KeyUserID:        user.ID,
		state.KeyUserName:      user.Name,
		state.KeyUserPhone:     user.Phone,
		state.KeyUserEmail:     user.Email,
		state.KeyUserBirthDate: user.BirthDate,
	}
	for key, value := range pairs {
		if err := m.store.Set(key, value); err != nil {
			return errors.Wrapf(err, "persisting %s", key)
		}
	}
	return nil
}

func profileOf(user *api.User) *Profile {
	return &Profile{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		Email:     user.Email,
		BirthDate: user.BirthDate,
	}
}

// The backend reports duplicate registrations with an "уже существует"
// marker in the error text.
func isDuplicate(err error) bool {
	return strings.Contains(api.ErrorMessage(err), "уже существует")
}
