package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sonnik/internal/api"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/listing"
)

// newUsersCmd instantiates and returns the admin users command.
func newUsersCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Page     int
		PageSize int
		Search   string
	}

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Long:  "List users with pagination and search",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			a, err := open(ctx, config)
			cobra.CheckErr(err)
			defer a.Close()

			var users []*api.UserRecord
			err = a.Session.Do(ctx, func(token string) error {
				var err error
				users, err = a.Client.AdminUsers(ctx, token)
				return err
			})
			cobra.CheckErr(err)

			// Searching never touches the fetched list; clearing the
			// term means rendering `users` again.
			visible := listing.SearchUsers(users, opts.Search)
			if opts.Search != "" {
				cli.GroupHeader("🔍 Найдено %d пользователей по запросу %q", len(visible), opts.Search)
			}
			if len(visible) == 0 {
				cli.UserInput("Пользователи не найдены\n")
				return
			}

			pageSize := opts.PageSize
			if pageSize <= 0 {
				pageSize = config.AdminPageSize
			}
			page := opts.Page
			for {
				records, pageCount := listing.Paginate(visible, pageSize, page)
				if page < 1 {
					page = 1
				}
				if page > pageCount {
					page = pageCount
				}

				cli.Title("ПОЛЬЗОВАТЕЛИ - Страница %d из %d (всего: %d)", page, pageCount, len(visible))
				offset := (page - 1) * pageSize
				for i, user := range records {
					cli.UserInput("%3d. %s\n", offset+i+1, formatUser(user))
				}

				if page >= pageCount {
					cli.Separator()
					break
				}
				cli.Separator()
				if !cli.QueryUser("Следующая страница?") {
					break
				}
				page++
			}
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVarP(&opts.PageSize, "page-size", "p", 0, "page size (defaults to configuration)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "filter by name, phone or email")
	return cmd
}

func formatUser(user *api.UserRecord) string {
	status := "👤 Обычный"
	if user.IsBanned.Bool() {
		status = "🚫 Заблокирован"
	} else if user.IsPremium.Bool() {
		status = "💎 Премиум"
	}
	name := user.Name
	if name == "" {
		name = "Не указано"
	}
	phone := user.Phone
	if phone == "" {
		phone = "Не указан"
	}
	email := user.Email
	if email == "" {
		email = "Не указан"
	}
	return fmt.Sprintf("%s | %s | %s | %s | чаты: %d | сообщения: %d | %s | id: %s",
		phone, name, email, user.CreatedAt.Format("02.01.2006"),
		user.ChatCount, user.MessageCount, status, user.ID)
}
