package chat

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sonnik/internal/api"
	"sonnik/internal/app"
	"sonnik/internal/cli"
	"sonnik/internal/configuration"
	"sonnik/internal/listing"
	"sonnik/internal/notify"
	"sonnik/internal/quota"
	"sonnik/internal/session"
)

const greeting = "Привет! Расскажите мне о своём сне, и я помогу вам понять его значение."

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		ChatID string
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Back and forth dream interpretation chat",
		Long:  "Back and forth dream interpretation chat",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := app.New(config)
			cobra.CheckErr(err)
			defer a.Close()

			ctx := context.Background()

			// Startup order: session first, then quotas, then the
			// chat list. A ban during validation leaves us in guest
			// mode with the notification already shown.
			if err := a.Session.Initialize(ctx); err != nil && !errors.Is(err, session.ErrBanned) {
				cobra.CheckErr(err)
			}
			if err := a.Quota.Refresh(ctx); err != nil {
				a.Notifier.Notify(notify.Error, "Ошибка загрузки лимитов")
			}

			runner := &loop{app: a, ctx: ctx}
			runner.run(opts.ChatID)
		},
	}

	cmd.Flags().StringVar(&opts.ChatID, "id", "", "open a specific chat")
	cmd.AddCommand(newListCmd(config))
	cmd.AddCommand(newDeleteCmd(config))
	return cmd
}

// loop drives one interactive chat session. A session is either NoChat
// (currentChatID empty) or Open; deleting the open chat or dropping to
// guest mode returns it to NoChat.
type loop struct {
	app *app.App
	ctx context.Context

	currentChatID string
	lastListed    []*api.ChatSummary
}

func (l *loop) run(chatID string) {
	mode := l.app.Session.Mode()
	cli.Title("ИИ СОННИК [%s]", mode)

	if mode == session.ModeAuthenticated {
		l.renderChatList()
		if chatID != "" {
			l.openChat(chatID)
		}
	} else {
		remaining, err := l.app.Quota.GuestRemaining()
		if err == nil {
			cli.GroupHeader("Осталось запросов: %d/%d", remaining, quota.GuestMaxRequests)
		}
		l.app.Notifier.Notify(notify.Info, "Вы в гостевом режиме. Доступно 5 запросов. Авторизуйтесь для безлимитного доступа.")
	}

	for {
		text, err := cli.PromptUser()
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "/") {
			if quit := l.handleCommand(text); quit {
				return
			}
			continue
		}
		l.send(text)
	}
}

func (l *loop) handleCommand(text string) (quit bool) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/q":
		return true
	case "/new":
		l.newChat()
	case "/list":
		l.renderChatList()
	case "/open":
		if len(fields) < 2 {
			cli.UserInput("usage: /open <number>\n")
			return false
		}
		l.openByNumber(fields[1])
	case "/delete":
		l.deleteCurrent()
	default:
		cli.UserInput("commands: /new /list /open <number> /delete /quit\n")
	}
	return false
}

// send routes a message: creating a chat first when none is open, then
// requesting the interpretation.
func (l *loop) send(text string) {
	if l.app.Session.Mode() == session.ModeAuthenticated {
		l.sendAuthenticated(text)
		return
	}
	l.sendGuest(text)
}

func (l *loop) sendGuest(text string) {
	ok, _, err := l.app.Quota.CanSendRequest()
	if err != nil {
		cobra.CheckErr(err)
	}
	if !ok {
		// Blocked: the quota notification has been shown.
		return
	}
	if l.currentChatID == "" {
		l.currentChatID = "guest-" + uuid.New().String()[:8]
		cli.BotOutput(greeting + "\n")
	}

	// The counter moves before the network call: the fallback path must
	// not double count, and a slow response must not admit extra sends.
	if err := l.app.Quota.ConsumeGuestRequest(); err != nil {
		cobra.CheckErr(err)
	}

	cli.Typing()
	response, err := l.app.Client.GuestMessage(l.ctx, text, l.currentChatID)
	if err != nil {
		// Degraded mode keeps the conversation going on a canned
		// reply.
		response = l.app.Fallback.Reply(text)
	}
	cli.BotOutput(response + "\n")

	remaining, err := l.app.Quota.GuestRemaining()
	if err == nil {
		cli.GroupHeader("Осталось запросов: %d/%d", remaining, quota.GuestMaxRequests)
	}
}

func (l *loop) sendAuthenticated(text string) {
	if l.currentChatID == "" {
		if !l.createChat(text) {
			return
		}
	}

	ok, upsell, err := l.app.Quota.CanSendRequest()
	if err != nil {
		cobra.CheckErr(err)
	}
	if !ok {
		if upsell {
			l.showUpsell()
		}
		return
	}

	epoch := l.app.Session.Epoch()
	cli.Typing()
	var response string
	err = l.app.Session.Do(l.ctx, func(token string) error {
		var err error
		response, err = l.app.Client.SendMessage(l.ctx, token, l.currentChatID, text)
		return err
	})
	if l.app.Session.Epoch() != epoch {
		// The session changed while the request was in flight (for
		// example a ban was detected); the response is stale.
		l.currentChatID = ""
		return
	}
	if err != nil {
		l.handleSendError(err)
		return
	}

	cli.BotOutput(response + "\n")
	// Server truth: re-fetch counters after every mutation.
	if err := l.app.Quota.Refresh(l.ctx); err != nil {
		l.app.Notifier.Notify(notify.Error, "Ошибка загрузки лимитов")
	}
}

func (l *loop) handleSendError(err error) {
	switch {
	case errors.Is(err, session.ErrBanned), errors.Is(err, session.ErrSessionExpired):
		// Already notified; the session is gone.
		l.currentChatID = ""
	case api.LimitType(err) == "requests":
		l.app.Notifier.Notify(notify.Error, "Закончились лимиты! Купите премиум для безлимитного доступа")
		l.showUpsell()
	case api.IsNetworkError(err):
		l.app.Notifier.Notify(notify.Error, session.MessageNetworkError)
	default:
		l.app.Notifier.Notify(notify.Error, "Ошибка отправки сообщения")
	}
}

// createChat opens a server-side chat seeded with the first message and
// shows the derived title. Returns false when blocked or failed.
func (l *loop) createChat(firstMessage string) bool {
	ok, upsell := l.app.Quota.CanStartChat()
	if !ok {
		if upsell {
			l.showUpsell()
		}
		return false
	}

	current := l.app.Session.Current()
	var created *api.CreateChatResponse
	err := l.app.Session.Do(l.ctx, func(token string) error {
		var err error
		created, err = l.app.Client.CreateChat(l.ctx, token, current.UserID, firstMessage)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrBanned), errors.Is(err, session.ErrSessionExpired):
		case api.LimitType(err) == "chats":
			if message := api.ErrorMessage(err); message != "" {
				l.app.Notifier.Notify(notify.Error, message)
			} else {
				l.app.Notifier.Notify(notify.Error, "Закончились лимиты чатов! Купите премиум для безлимитного доступа")
			}
			l.showUpsell()
		default:
			l.app.Notifier.Notify(notify.Error, "Ошибка создания чата")
		}
		return false
	}

	l.currentChatID = created.ChatID
	title := created.Title
	if title == "" {
		title = listing.GenerateTitle(firstMessage)
	}
	cli.GroupHeader("%s", title)
	if err := l.app.Quota.Refresh(l.ctx); err != nil {
		l.app.Notifier.Notify(notify.Error, "Ошибка загрузки лимитов")
	}
	return true
}

// newChat starts an empty chat (the /new command).
func (l *loop) newChat() {
	if l.app.Session.Mode() != session.ModeAuthenticated {
		l.currentChatID = "guest-" + uuid.New().String()[:8]
		cli.BotOutput(greeting + "\n")
		l.app.Notifier.Notify(notify.Success, "Новый чат создан")
		return
	}
	if l.createChat("") {
		cli.BotOutput(greeting + "\n")
		l.app.Notifier.Notify(notify.Success, "Новый чат создан")
		l.renderChatList()
	}
}

func (l *loop) openByNumber(raw string) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > len(l.lastListed) {
		cli.UserInput("no such chat number; run /list first\n")
		return
	}
	l.openChat(l.lastListed[n-1].ID)
}

// openChat replaces the open conversation with the selected chat's full
// history. Guests have no history: they always get a fresh greeting.
func (l *loop) openChat(chatID string) {
	if l.app.Session.Mode() != session.ModeAuthenticated {
		l.currentChatID = chatID
		cli.BotOutput(greeting + "\n")
		return
	}

	var history *api.ChatMessagesResponse
	err := l.app.Session.Do(l.ctx, func(token string) error {
		var err error
		history, err = l.app.Client.ChatMessages(l.ctx, token, chatID)
		return err
	})
	if err != nil {
		if !errors.Is(err, session.ErrBanned) && !errors.Is(err, session.ErrSessionExpired) {
			l.app.Notifier.Notify(notify.Error, "Ошибка загрузки чата")
		}
		return
	}

	l.currentChatID = chatID
	if history.ChatInfo != nil && history.ChatInfo.Title != "" {
		cli.Title("%s", history.ChatInfo.Title)
	}
	if len(history.Messages) == 0 {
		cli.BotOutput(greeting + "\n")
		return
	}
	for _, message := range history.Messages {
		if message.UserMessage != "" {
			cli.UserInput("> %s\n", message.UserMessage)
		}
		if message.AIResponse != "" {
			cli.BotOutput(message.AIResponse + "\n")
		}
	}
}

// deleteCurrent deletes the open chat after confirmation and returns the
// session to NoChat.
func (l *loop) deleteCurrent() {
	if l.app.Session.Mode() != session.ModeAuthenticated {
		l.app.Notifier.Notify(notify.Error, "Для доступа к этой функции необходимо авторизоваться")
		return
	}
	if l.currentChatID == "" {
		cli.UserInput("no open chat\n")
		return
	}
	if !cli.QueryUser("Удалить текущий чат?") {
		return
	}

	current := l.app.Session.Current()
	chatID := l.currentChatID
	err := l.app.Session.Do(l.ctx, func(token string) error {
		return l.app.Client.DeleteChat(l.ctx, token, chatID, current.UserID)
	})
	if err != nil {
		if !errors.Is(err, session.ErrBanned) && !errors.Is(err, session.ErrSessionExpired) {
			l.app.Notifier.Notify(notify.Error, "Ошибка удаления чата")
		}
		l.currentChatID = ""
		return
	}

	l.currentChatID = ""
	l.app.Notifier.Notify(notify.Success, "Чат удалён")
	if err := l.app.Quota.Refresh(l.ctx); err != nil {
		l.app.Notifier.Notify(notify.Error, "Ошибка загрузки лимитов")
	}
	l.renderChatList()
}

// renderChatList fetches and prints the grouped chat list. Guests never
// fetch history: they see nothing here.
func (l *loop) renderChatList() {
	if l.app.Session.Mode() != session.ModeAuthenticated {
		return
	}

	current := l.app.Session.Current()
	epoch := l.app.Session.Epoch()
	var chats []*api.ChatSummary
	err := l.app.Session.Do(l.ctx, func(token string) error {
		var err error
		chats, err = l.app.Client.ListChats(l.ctx, token, current.UserID)
		return err
	})
	if err != nil {
		// A failed load leaves the previous listing in place.
		if !errors.Is(err, session.ErrBanned) && !errors.Is(err, session.ErrSessionExpired) {
			l.app.Notifier.Notify(notify.Error, "Ошибка загрузки чатов")
		}
		return
	}
	if l.app.Session.Epoch() != epoch {
		return
	}

	if len(chats) == 0 {
		cli.UserInput("Пока нет сохранённых снов\n")
		l.lastListed = nil
		return
	}
	l.lastListed = printGroupedChats(chats, time.Now())
}

// printGroupedChats renders sorted, grouped, numbered chats and returns
// them in display order for /open lookups.
func printGroupedChats(chats []*api.ChatSummary, now time.Time) []*api.ChatSummary {
	sorted := listing.SortByRecency(chats)
	groups := listing.GroupByRecency(sorted, now)

	var ordered []*api.ChatSummary
	n := 0
	for _, group := range groups {
		cli.GroupHeader("%s", group.Label)
		for _, chat := range group.Chats {
			n++
			title := chat.Title
			if title == "" {
				title = listing.PlaceholderTitle
			}
			when := chat.CreatedAt.Time
			if chat.LastMessageAt != nil && !chat.LastMessageAt.IsZero() {
				when = chat.LastMessageAt.Time
			}
			cli.UserInput("%3d. %s (%s)\n", n, title, listing.FormatRelativeTime(when, now))
			ordered = append(ordered, chat)
		}
	}
	return ordered
}

func (l *loop) showUpsell() {
	cli.GroupHeader("💎 ИИ Сонник Premium: безлимитные чаты и запросы. sonnik premium purchase --plan monthly")
}
