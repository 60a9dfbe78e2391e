package admin

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sonnik/internal/app"
	"sonnik/internal/configuration"
	"sonnik/internal/notify"
	"sonnik/internal/session"
)

// NewCmd instantiates and returns the admin command group.
func NewCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "User management dashboard",
		Long:  "User management dashboard (admin accounts only)",
	}
	cmd.AddCommand(newStatsCmd(config))
	cmd.AddCommand(newUsersCmd(config))
	cmd.AddCommand(newTogglePremiumCmd(config))
	cmd.AddCommand(newToggleBanCmd(config))
	return cmd
}

// open initializes the session and verifies admin rights.
func open(ctx context.Context, config *configuration.Config) (*app.App, error) {
	a, err := app.New(config)
	if err != nil {
		return nil, err
	}
	if err := a.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrBanned) {
		a.Close()
		return nil, err
	}
	if a.Session.Mode() != session.ModeAuthenticated {
		a.Notifier.Notify(notify.Error, "Для доступа к этой функции необходимо авторизоваться")
		a.Close()
		return nil, session.ErrUnauthenticated
	}

	isAdmin, err := a.Session.CheckAdmin(ctx)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "checking admin rights")
	}
	if !isAdmin {
		a.Notifier.Notify(notify.Error, "Доступ запрещён")
		a.Close()
		return nil, errors.New("not an admin")
	}
	return a, nil
}
