package account

import (
	"context"

	"github.com/spf13/cobra"

	"sonnik/internal/app"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/notify"
)

// NewLoginCmd instantiates and returns the login command.
func NewLoginCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <phone>",
		Short: "Log in by phone number",
		Long:  "Log in by phone number",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			phone := args[0]
			if phone == "" {
				cli.Notifier{}.Notify(notify.Error, "Введите номер телефона")
				return
			}

			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			// Login emits its own success or failure notification.
			_ = a.Session.Login(context.Background(), phone)
		},
	}
	return cmd
}
