package app

import (
	"time"

	"github.com/pkg/errors"

	"sonnik/internal/api"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/fallback"
	"sonnik/internal/notify"
	"sonnik/internal/quota"
	"sonnik/internal/session"
	"sonnik/internal/state"
)

// App wires the client components together for a command run.
type App struct {
	Config   *configuration.Config
	Client   *api.Client
	Store    *state.Store
	Notifier notify.Notifier
	Session  *session.Manager
	Quota    *quota.Enforcer
	Fallback fallback.Responder
}

// New instantiates the app: opens the local state store and builds the
// session manager and quota enforcer on top of it.
func New(config *configuration.Config) (*App, error) {
	store, err := state.New(config.StatePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening state store")
	}

	client := api.NewClient(config.APIBaseURL, time.Duration(config.RequestTimeout)*time.Second)
	notifier := cli.Notifier{}
	manager := session.NewManager(client, store, notifier)
	enforcer := quota.NewEnforcer(manager, client, store, notifier)

	return &App{
		Config:   config,
		Client:   client,
		Store:    store,
		Notifier: notifier,
		Session:  manager,
		Quota:    enforcer,
		Fallback: fallback.NewCanned(),
	}, nil
}

// Close releases the state store.
func (a *App) Close() error {
	return a.Store.Close()
}
