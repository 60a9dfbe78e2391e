package admin

import (
	"context"

	"github.com/spf13/cobra"

	"sonnik/internal/api"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
)

// newStatsCmd instantiates and returns the admin stats command.
func newStatsCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Long:  "Show total users, premium, banned, chats and messages",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			a, err := open(ctx, config)
			cobra.CheckErr(err)
			defer a.Close()

			var stats *api.AdminStats
			err = a.Session.Do(ctx, func(token string) error {
				var err error
				stats, err = a.Client.AdminStats(ctx, token)
				return err
			})
			cobra.CheckErr(err)

			cli.Title("АДМИН ПАНЕЛЬ: СТАТИСТИКА")
			cli.UserInput("Пользователи: %d\n", stats.TotalUsers)
			cli.UserInput("Премиум: %d\n", stats.TotalPremium)
			cli.UserInput("Заблокированы: %d\n", stats.TotalBanned)
			cli.UserInput("Чаты: %d\n", stats.TotalChats)
			cli.UserInput("Сообщения: %d\n", stats.TotalMessages)
		},
	}
	return cmd
}
