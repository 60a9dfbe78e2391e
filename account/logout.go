package account

import (
	"context"

	"github.com/spf13/cobra"

	"sonnik/internal/app"
	"sonnik/internal/configuration"
)

// NewLogoutCmd instantiates and returns the logout command.
func NewLogoutCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear local state",
		Long:  "Log out and clear local state",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			ctx := context.Background()
			// Pick up the stored token so the backend gets its
			// best-effort notification; the wipe happens regardless.
			_ = a.Session.Initialize(ctx)
			cobra.CheckErr(a.Session.Logout(ctx))
		},
	}
	return cmd
}
