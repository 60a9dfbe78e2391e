package chat

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sonnik/internal/app"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/notify"
	"sonnik/internal/session"
)

// newDeleteCmd instantiates and returns the chat delete command.
func newDeleteCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a chat",
		Long:  "Delete a chat by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			chatID := args[0]

			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			ctx := context.Background()
			if err := a.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrBanned) {
				cobra.CheckErr(err)
			}
			if a.Session.Mode() != session.ModeAuthenticated {
				a.Notifier.Notify(notify.Error, "Для доступа к этой функции необходимо авторизоваться")
				return
			}
			if !cli.QueryUser("Удалить чат " + chatID + "?") {
				return
			}

			current := a.Session.Current()
			err = a.Session.Do(ctx, func(token string) error {
				return a.Client.DeleteChat(ctx, token, chatID, current.UserID)
			})
			if err != nil {
				if !errors.Is(err, session.ErrBanned) && !errors.Is(err, session.ErrSessionExpired) {
					a.Notifier.Notify(notify.Error, "Ошибка удаления чата")
				}
				return
			}
			a.Notifier.Notify(notify.Success, "Чат удалён")

			// Deleting a chat frees a slot; counters come from the
			// server.
			_ = a.Quota.Refresh(ctx)
		},
	}
	return cmd
}
