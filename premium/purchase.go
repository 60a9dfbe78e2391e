package premium

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sonnik/internal/api"
	"sonnik/internal/app"
	"sonnik/internal/configuration"
	"sonnik/internal/notify"
	"sonnik/internal/session"
)

// NewCmd instantiates and returns the premium command group.
func NewCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Premium subscription",
		Long:  "Premium subscription: unlimited chats and requests",
	}
	cmd.AddCommand(newPurchaseCmd(config))
	return cmd
}

// newPurchaseCmd instantiates and returns the purchase command.
func newPurchaseCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Plan string
	}

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Buy a premium plan",
		Long:  "Buy a monthly or yearly premium plan",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			if opts.Plan != "monthly" && opts.Plan != "yearly" {
				cobra.CheckErr(errors.Errorf("unknown plan %q (monthly or yearly)", opts.Plan))
			}

			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			ctx := context.Background()
			if err := a.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrBanned) {
				cobra.CheckErr(err)
			}
			if a.Session.Mode() != session.ModeAuthenticated {
				a.Notifier.Notify(notify.Info, "Авторизуйтесь для покупки премиума")
				return
			}

			a.Notifier.Notify(notify.Info, "Обрабатываем оплату...")
			err = a.Session.Do(ctx, func(token string) error {
				return a.Client.PurchasePremium(ctx, token, opts.Plan)
			})
			if err != nil {
				if errors.Is(err, session.ErrBanned) || errors.Is(err, session.ErrSessionExpired) {
					return
				}
				if message := api.ErrorMessage(err); message != "" {
					a.Notifier.Notify(notify.Error, message)
				} else {
					a.Notifier.Notify(notify.Error, "Ошибка при оплате")
				}
				return
			}

			period := "1 месяц"
			if opts.Plan == "yearly" {
				period = "1 год"
			}
			a.Notifier.Notify(notify.Success, "Премиум активирован! Срок действия: "+period)
			// Ceilings changed server-side; pick them up now.
			_ = a.Quota.Refresh(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.Plan, "plan", "monthly", "premium plan (monthly or yearly)")
	return cmd
}
