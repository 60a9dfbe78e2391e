package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sonnik/internal/api"
	"sonnik/internal/notify"
	"sonnik/internal/session"
	"sonnik/internal/state"
)

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// guestEnforcer returns an enforcer backed by a guest-mode manager and a
// fresh store. The backend is never reached.
func guestEnforcer(t *testing.T) (*Enforcer, *state.Store, *notify.Recorder) {
	t.Helper()
	store, err := state.New(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	recorder := &notify.Recorder{}
	client := api.NewClient("http://127.0.0.1:1", time.Second)
	manager := session.NewManager(client, store, recorder)

	enforcer := NewEnforcer(manager, client, store, recorder)
	enforcer.now = func() time.Time { return fixedNow }
	return enforcer, store, recorder
}

func storedGuestCount(t *testing.T, store *state.Store) int {
	t.Helper()
	raw, err := store.Get(state.KeyGuestRequests)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	quota := &guestQuota{}
	require.NoError(t, json.Unmarshal([]byte(raw), quota))
	return quota.Count
}

func TestGuestQuotaFreshStore(t *testing.T) {
	enforcer, _, recorder := guestEnforcer(t)

	ok, upsell, err := enforcer.CanSendRequest()
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, upsell)

	remaining, err := enforcer.GuestRemaining()
	require.NoError(t, err)
	require.Equal(t, GuestMaxRequests, remaining)
	require.Empty(t, recorder.Notifications)
}

func TestGuestQuotaExhaustion(t *testing.T) {
	enforcer, store, recorder := guestEnforcer(t)

	for i := 0; i < GuestMaxRequests; i++ {
		ok, _, err := enforcer.CanSendRequest()
		require.NoError(t, err)
		require.True(t, ok, "send %d should be admitted", i+1)
		require.NoError(t, enforcer.ConsumeGuestRequest())
	}

	// The sixth attempt is refused before any network work happens.
	ok, upsell, err := enforcer.CanSendRequest()
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, upsell)
	require.Equal(t, 1, recorder.Count(MessageGuestLimit))

	remaining, err := enforcer.GuestRemaining()
	require.NoError(t, err)
	require.Zero(t, remaining)
	require.Equal(t, GuestMaxRequests, storedGuestCount(t, store))

	// The guest-mode hint fires on the first consumed request only.
	require.Equal(t, 1, recorder.Count(MessageGuestMode))
}

func TestGuestQuotaConsumePersistsBeforeReply(t *testing.T) {
	enforcer, store, _ := guestEnforcer(t)

	require.NoError(t, enforcer.ConsumeGuestRequest())
	// The counter is already on disk; a fallback reply after a network
	// failure must not consume a second slot.
	require.Equal(t, 1, storedGuestCount(t, store))

	require.NoError(t, enforcer.ConsumeGuestRequest())
	require.Equal(t, 2, storedGuestCount(t, store))
}

func TestGuestQuotaWindowReset(t *testing.T) {
	enforcer, store, _ := guestEnforcer(t)

	stale := &guestQuota{Count: GuestMaxRequests, LastReset: fixedNow.Add(-25 * time.Hour)}
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, store.Set(state.KeyGuestRequests, string(raw)))

	ok, _, err := enforcer.CanSendRequest()
	require.NoError(t, err)
	require.True(t, ok)

	// The reset is persisted, not just observed.
	require.Zero(t, storedGuestCount(t, store))
}

func TestGuestQuotaWindowStillOpen(t *testing.T) {
	enforcer, store, recorder := guestEnforcer(t)

	open := &guestQuota{Count: GuestMaxRequests, LastReset: fixedNow.Add(-23 * time.Hour)}
	raw, err := json.Marshal(open)
	require.NoError(t, err)
	require.NoError(t, store.Set(state.KeyGuestRequests, string(raw)))

	ok, _, err := enforcer.CanSendRequest()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, recorder.Count(MessageGuestLimit))
}

func TestGuestQuotaReadsBrowserFormat(t *testing.T) {
	// Counters written by the browser client carry a millisecond ISO
	// timestamp.
	enforcer, store, _ := guestEnforcer(t)
	require.NoError(t, store.Set(state.KeyGuestRequests, `{"count":2,"lastReset":"2026-09-01T08:30:00.000Z"}`))

	remaining, err := enforcer.GuestRemaining()
	require.NoError(t, err)
	require.Equal(t, 3, remaining)
}

// limitsBackend serves auth-status and user-limits, with the counters held
// in an atomic pointer so tests can flip them between refreshes.
func limitsBackend(t *testing.T, limits *atomic.Pointer[api.Limits]) (*Enforcer, *notify.Recorder) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"user":{"id":"u1","name":"Иван","phone":"+79001234567"}}`))
	})
	mux.HandleFunc("/user/limits", func(w http.ResponseWriter, r *http.Request) {
		l := limits.Load()
		premium := 0
		if l.IsPremium.Bool() {
			premium = 1
		}
		fmt.Fprintf(w, `{"success":true,"user":{"is_premium":%d,"requests_used":%d,"max_requests":%d,"current_chats":%d,"max_chats":%d,"requests_remaining":%d}}`,
			premium, l.RequestsUsed, l.MaxRequests, l.CurrentChats, l.MaxChats, l.RequestsRemaining)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store, err := state.New(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Set(state.KeySessionID, "tok"))
	require.NoError(t, store.Set(state.KeyUserID, "u1"))

	recorder := &notify.Recorder{}
	client := api.NewClient(server.URL, time.Second)
	manager := session.NewManager(client, store, recorder)
	require.NoError(t, manager.Initialize(context.Background()))

	return NewEnforcer(manager, client, store, recorder), recorder
}

func TestChatLimitUpsellThenPremium(t *testing.T) {
	limits := &atomic.Pointer[api.Limits]{}
	limits.Store(&api.Limits{CurrentChats: 1, MaxChats: 1, MaxRequests: 10})
	enforcer, recorder := limitsBackend(t, limits)

	ctx := context.Background()
	require.NoError(t, enforcer.Refresh(ctx))

	ok, upsell := enforcer.CanStartChat()
	require.False(t, ok)
	require.True(t, upsell)
	require.Equal(t, 1, recorder.Count(MessageChatLimit))

	// An admin flips the account to premium; the next refresh lifts the
	// ceiling.
	limits.Store(&api.Limits{IsPremium: true, CurrentChats: 1, MaxChats: 1, MaxRequests: 10})
	require.NoError(t, enforcer.Refresh(ctx))

	ok, upsell = enforcer.CanStartChat()
	require.True(t, ok)
	require.False(t, upsell)
}

func TestRequestLimitUpsell(t *testing.T) {
	limits := &atomic.Pointer[api.Limits]{}
	limits.Store(&api.Limits{RequestsUsed: 10, MaxRequests: 10, MaxChats: 3})
	enforcer, recorder := limitsBackend(t, limits)

	require.NoError(t, enforcer.Refresh(context.Background()))

	ok, upsell, err := enforcer.CanSendRequest()
	require.NoError(t, err)
	require.False(t, ok)
	require.True(t, upsell)
	require.Equal(t, 1, recorder.Count(MessageRequestLimit))
}

func TestLimitsReturnsCopy(t *testing.T) {
	limits := &atomic.Pointer[api.Limits]{}
	limits.Store(&api.Limits{RequestsUsed: 2, MaxRequests: 10, MaxChats: 3})
	enforcer, _ := limitsBackend(t, limits)
	require.NoError(t, enforcer.Refresh(context.Background()))

	first := enforcer.Limits()
	first.RequestsUsed = 99
	require.Equal(t, 2, enforcer.Limits().RequestsUsed)
}
