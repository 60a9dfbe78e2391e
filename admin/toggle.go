package admin

import (
	"context"

	"github.com/spf13/cobra"

	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/notify"
)

// newTogglePremiumCmd instantiates and returns the toggle-premium command.
func newTogglePremiumCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle-premium <user-id>",
		Short: "Flip a user's premium status",
		Long:  "Flip a user's premium status",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			userID := args[0]
			if !cli.QueryUser("Изменить премиум статус пользователя " + userID + "?") {
				return
			}

			ctx := context.Background()
			a, err := open(ctx, config)
			cobra.CheckErr(err)
			defer a.Close()

			var isPremium bool
			err = a.Session.Do(ctx, func(token string) error {
				var err error
				isPremium, err = a.Client.ToggleUserPremium(ctx, token, userID)
				return err
			})
			if err != nil {
				a.Notifier.Notify(notify.Error, "Ошибка изменения премиум статуса")
				return
			}
			if isPremium {
				a.Notifier.Notify(notify.Success, "Премиум статус включен")
			} else {
				a.Notifier.Notify(notify.Success, "Премиум статус отключен")
			}
		},
	}
	return cmd
}

// newToggleBanCmd instantiates and returns the toggle-ban command.
func newToggleBanCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle-ban <user-id>",
		Short: "Flip a user's ban status",
		Long:  "Flip a user's ban status; a banned user's session dies on its next authorized call",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			userID := args[0]
			if !cli.QueryUser("Изменить статус блокировки пользователя " + userID + "?") {
				return
			}

			ctx := context.Background()
			a, err := open(ctx, config)
			cobra.CheckErr(err)
			defer a.Close()

			var isBanned bool
			err = a.Session.Do(ctx, func(token string) error {
				var err error
				isBanned, err = a.Client.ToggleUserBan(ctx, token, userID)
				return err
			})
			if err != nil {
				a.Notifier.Notify(notify.Error, "Ошибка изменения статуса блокировки")
				return
			}
			if isBanned {
				a.Notifier.Notify(notify.Success, "Пользователь заблокирован")
			} else {
				a.Notifier.Notify(notify.Success, "Пользователь разблокирован")
			}
		},
	}
	return cmd
}
