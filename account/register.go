package account

import (
	"context"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"sonnik/internal/api"
	"sonnik/internal/app"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/notify"
)

// registrationForm collects the account fields. Phone and name are
// required; a short phone is rejected before anything touches the network.
var registrationForm = []*survey.Question{
	{
		Name:     "phone",
		Prompt:   &survey.Input{Message: "Номер телефона:"},
		Validate: survey.Required,
	},
	{
		Name:     "name",
		Prompt:   &survey.Input{Message: "Имя:"},
		Validate: survey.Required,
	},
	{
		Name:   "email",
		Prompt: &survey.Input{Message: "Email (необязательно):"},
	},
	{
		Name:   "birthDate",
		Prompt: &survey.Input{Message: "Дата рождения, ГГГГ-ММ-ДД (необязательно):"},
	},
}

// NewRegisterCmd instantiates and returns the register command.
func NewRegisterCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account with phone, name and optional contact details",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			answers := struct {
				Phone     string
				Name      string
				Email     string
				BirthDate string
			}{}
			if err := survey.Ask(registrationForm, &answers); err != nil {
				cobra.CheckErr(err)
			}

			notifier := cli.Notifier{}
			if answers.Phone == "" || answers.Name == "" {
				notifier.Notify(notify.Error, "Заполните обязательные поля: телефон и имя")
				return
			}
			if len(answers.Phone) < 10 {
				notifier.Notify(notify.Error, "Введите корректный номер телефона")
				return
			}

			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			request := &api.RegisterRequest{
				Phone:     answers.Phone,
				Name:      answers.Name,
				Email:     answers.Email,
				BirthDate: answers.BirthDate,
			}
			// Register emits its own success or failure notification.
			_ = a.Session.Register(context.Background(), request)
		},
	}
	return cmd
}
