package main

import (
	"github.com/spf13/cobra"

	"sonnik/account"
	"sonnik/admin"
	"sonnik/chat"
	"sonnik/internal/configuration"
	"sonnik/premium"
)

const configFilepath = "~/.sonnik/config.json"

var rootCmd = &cobra.Command{
	Use:   "sonnik",
	Short: "A CLI for the ИИ Сонник dream interpretation service",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(chat.NewCmd(config))
	rootCmd.AddCommand(account.NewLoginCmd(config))
	rootCmd.AddCommand(account.NewRegisterCmd(config))
	rootCmd.AddCommand(account.NewLogoutCmd(config))
	rootCmd.AddCommand(account.NewStatusCmd(config))
	rootCmd.AddCommand(account.NewAvatarCmd(config))
	rootCmd.AddCommand(admin.NewCmd(config))
	rootCmd.AddCommand(premium.NewCmd(config))
	rootCmd.Execute()
}
