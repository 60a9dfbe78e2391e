package quota

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"sonnik/internal/api"
	"sonnik/internal/notify"
	"sonnik/internal/session"
	"sonnik/internal/state"
)

// Guest tier ceiling: 5 requests per rolling 24-hour window.
const (
	GuestMaxRequests = 5
	guestWindow      = 24 * time.Hour
)

// User-visible messages, kept identical to the browser client's.
const (
	MessageChatLimit    = "Закончились лимиты чатов! Купите премиум для безлимитного доступа"
	MessageRequestLimit = "Закончились лимиты! Купите премиум для безлимитного доступа"
	MessageGuestLimit   = "Закончились лимиты! Авторизуйтесь для безлимитного доступа"
	MessageGuestMode    = "Гостевой режим: 5 запросов в сутки"
)

// guestQuota is the persisted guest counter. The JSON shape matches the
// browser client's localStorage value.
type guestQuota struct {
	Count     int       `json:"count"`
	LastReset time.Time `json:"lastReset"`
}

// Enforcer tracks and enforces request and chat quotas. Guest counters are
// local and persisted; authenticated counters are server truth, re-fetched
// after every mutating action and never incremented locally.
type Enforcer struct {
	manager  *session.Manager
	client   *api.Client
	store    *state.Store
	notifier notify.Notifier
	now      func() time.Time

	mu     sync.Mutex
	limits *api.Limits
}

// NewEnforcer instantiates a quota enforcer.
func NewEnforcer(manager *session.Manager, client *api.Client, store *state.Store, notifier notify.Notifier) *Enforcer {
	return &Enforcer{
		manager:  manager,
		client:   client,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Refresh re-fetches the server-side counters. Callers must invoke it after
// every mutating action (send, create/delete chat, premium purchase); the
// server is the sole source of truth for authenticated quotas. In guest mode
// it only drops any stale counters.
func (e *Enforcer) Refresh(ctx context.Context) error {
	if e.manager.Mode() != session.ModeAuthenticated {
		e.setLimits(nil)
		return nil
	}

	epoch := e.manager.Epoch()
	var limits *api.Limits
	err := e.manager.Do(ctx, func(token string) error {
		var err error
		limits, err = e.client.UserLimits(ctx, token)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "loading user limits")
	}
	if e.manager.Epoch() != epoch {
		// The session changed underneath the fetch; the counters belong
		// to a session that no longer exists.
		return nil
	}
	e.setLimits(limits)
	return nil
}

// Limits returns a copy of the last fetched authenticated counters, or nil.
func (e *Enforcer) Limits() *api.Limits {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.limits == nil {
		return nil
	}
	limits := *e.limits
	return &limits
}

func (e *Enforcer) setLimits(limits *api.Limits) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.limits = limits
}

// CanStartChat reports whether a new chat may be opened. Guests are capped
// by the request quota, not by chat count. On refusal it emits the blocking
// notification and signals the premium upsell.
func (e *Enforcer) CanStartChat() (ok, upsell bool) {
	if e.manager.Mode() != session.ModeAuthenticated {
		return true, false
	}
	limits := e.Limits()
	if limits == nil || limits.IsPremium.Bool() {
		return true, false
	}
	if limits.CurrentChats >= limits.MaxChats {
		e.notifier.Notify(notify.Error, MessageChatLimit)
		return false, true
	}
	return true, false
}

// CanSendRequest reports whether a message may be attempted. For guests it
// consults the persisted window, resetting it first when it lapsed; the
// counter is not incremented here, ConsumeGuestRequest does that once per
// attempted send. On refusal it emits the blocking notification; upsell is
// signaled for authenticated users only (guests are pointed at login).
func (e *Enforcer) CanSendRequest() (ok, upsell bool, err error) {
	if e.manager.Mode() != session.ModeAuthenticated {
		quota, err := e.loadGuestQuota()
		if err != nil {
			return false, false, err
		}
		if quota.Count >= GuestMaxRequests {
			e.notifier.Notify(notify.Error, MessageGuestLimit)
			return false, false, nil
		}
		return true, false, nil
	}

	limits := e.Limits()
	if limits == nil || limits.IsPremium.Bool() {
		return true, false, nil
	}
	if limits.RequestsUsed >= limits.MaxRequests {
		e.notifier.Notify(notify.Error, MessageRequestLimit)
		return false, true, nil
	}
	return true, false, nil
}

// ConsumeGuestRequest increments the guest counter and persists it. It must
// run synchronously before the network call so a slow response cannot admit
// further sends against a pre-increment count, and so the
// fallback-on-network-failure path does not double count.
func (e *Enforcer) ConsumeGuestRequest() error {
	quota, err := e.loadGuestQuota()
	if err != nil {
		return err
	}
	quota.Count++
	if err := e.saveGuestQuota(quota); err != nil {
		return err
	}
	if quota.Count == 1 {
		e.notifier.Notify(notify.Info, MessageGuestMode)
	}
	return nil
}

// GuestRemaining returns how many guest requests are left in the window.
func (e *Enforcer) GuestRemaining() (int, error) {
	quota, err := e.loadGuestQuota()
	if err != nil {
		return 0, err
	}
	remaining := GuestMaxRequests - quota.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// loadGuestQuota reads the persisted counter, resetting it (and persisting
// the reset) when the 24-hour window has lapsed.
func (e *Enforcer) loadGuestQuota() (*guestQuota, error) {
	now := e.now()
	raw, err := e.store.Get(state.KeyGuestRequests)
	if err != nil {
		return nil, errors.Wrap(err, "reading guest quota")
	}

	quota := &guestQuota{LastReset: now}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), quota); err != nil {
			return nil, errors.Wrap(err, "unmarshaling guest quota")
		}
	}
	if now.Sub(quota.LastReset) > guestWindow {
		quota.Count = 0
		quota.LastReset = now
		if err := e.saveGuestQuota(quota); err != nil {
			return nil, err
		}
	}
	return quota, nil
}

func (e *Enforcer) saveGuestQuota(quota *guestQuota) error {
	raw, err := json.Marshal(quota)
	if err != nil {
		return errors.Wrap(err, "marshaling guest quota")
	}
	if err := e.store.Set(state.KeyGuestRequests, string(raw)); err != nil {
		return errors.Wrap(err, "writing guest quota")
	}
	return nil
}
