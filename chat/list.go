package chat

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sonnik/internal/api"
	"sonnik/internal/app"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/session"
)

// newListCmd instantiates and returns the chat list command.
func newListCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all chats",
		Long:  "List all chats, grouped by recency",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			ctx := context.Background()
			if err := a.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrBanned) {
				cobra.CheckErr(err)
			}
			if a.Session.Mode() != session.ModeAuthenticated {
				// Guests have no persisted history.
				cli.Title("ИИ СОННИК [guest]")
				return
			}

			cli.Title("ИИ СОННИК: ЧАТЫ")
			current := a.Session.Current()
			var chats []*api.ChatSummary
			err = a.Session.Do(ctx, func(token string) error {
				var err error
				chats, err = a.Client.ListChats(ctx, token, current.UserID)
				return err
			})
			cobra.CheckErr(err)

			if len(chats) == 0 {
				cli.UserInput("Пока нет сохранённых снов\n")
				return
			}
			printGroupedChats(chats, time.Now())
		},
	}
	return cmd
}
