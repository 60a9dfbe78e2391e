package account

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sonnik/internal/app"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/file"
	"sonnik/internal/notify"
	"sonnik/internal/session"
)

// NewAvatarCmd instantiates and returns the avatar command.
func NewAvatarCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar <path>",
		Short: "Set the profile avatar",
		Long:  "Cache a local image file path as the profile avatar",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path, err := file.ExpandPath(args[0])
			cobra.CheckErr(err)
			if _, err := os.Stat(path); err != nil {
				cli.Notifier{}.Notify(notify.Error, "Файл не найден: "+path)
				return
			}

			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			ctx := context.Background()
			if err := a.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrBanned) {
				cobra.CheckErr(err)
			}
			if err := a.Session.SetAvatar(path); err != nil {
				a.Notifier.Notify(notify.Error, "Для доступа к этой функции необходимо авторизоваться")
				return
			}
			a.Notifier.Notify(notify.Success, "Аватар обновлён")
		},
	}
	return cmd
}
