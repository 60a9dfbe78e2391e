package account

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sonnik/internal/app"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/quota"
	"sonnik/internal/session"
)

// NewStatusCmd instantiates and returns the status command.
func NewStatusCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session and limits",
		Long:  "Show the current session, profile and usage limits",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			ctx := context.Background()
			if err := a.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrBanned) {
				cobra.CheckErr(err)
			}

			mode := a.Session.Mode()
			cli.Title("ИИ СОННИК [%s]", mode)
			if mode != session.ModeAuthenticated {
				remaining, err := a.Quota.GuestRemaining()
				if err == nil {
					cli.UserInput("Осталось запросов: %d/%d\n", remaining, quota.GuestMaxRequests)
				}
				return
			}

			profile := a.Session.Profile()
			cli.UserInput("Имя: %s\n", profile.Name)
			cli.UserInput("Телефон: %s\n", profile.Phone)
			if profile.Email != "" {
				cli.UserInput("Email: %s\n", profile.Email)
			}
			if profile.BirthDate != "" {
				cli.UserInput("Дата рождения: %s\n", profile.BirthDate)
			}
			if avatar, err := a.Session.Avatar(); err == nil && avatar != "" {
				cli.UserInput("Аватар: %s\n", avatar)
			}

			if err := a.Quota.Refresh(ctx); err != nil {
				return
			}
			limits := a.Quota.Limits()
			if limits == nil {
				return
			}
			if limits.IsPremium.Bool() {
				cli.GroupHeader("💎 Премиум: безлимитные чаты и запросы")
				return
			}
			cli.UserInput("Запросы: %d/%d\n", limits.RequestsUsed, limits.MaxRequests)
			cli.UserInput("Чаты: %d/%d\n", limits.CurrentChats, limits.MaxChats)
		},
	}
	return cmd
}
