package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"sonnik/internal/notify"
)

var (
	// Colors for different types of output
	userInputColor   = color.New(color.FgWhite)               // White for user input
	botOutputColor   = color.New(color.FgCyan)                // Cyan for interpreter responses
	titleColor       = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor   = color.New(color.FgHiBlack)             // Dark grey for separators
	groupHeaderColor = color.New(color.FgHiBlue, color.Bold)  // Bold blue for group headers
	successColor     = color.New(color.FgGreen)               // Green for success notifications
	errorColor       = color.New(color.FgRed)                 // Red for error notifications
	infoColor        = color.New(color.FgYellow)              // Yellow for info notifications
	promptColor      = color.New(color.FgHiBlue)              // Bright blue for prompts
	typingColor      = color.New(color.FgHiBlack)             // Dark grey for the typing indicator
)

// Width used when stdout is not a terminal (goterm reports -1 there).
const fallbackWidth = 80

func terminalWidth() int {
	if width := goterm.Width(); width > 0 {
		return width
	}
	return fallbackWidth
}

// Separator printed to cli.
func Separator() {
	separatorColor.Println(strings.Repeat("-", terminalWidth()))
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	titleColor.Println(centerLine(title, terminalWidth()))
}

// centerLine pads the title with dashes on both sides. Width is counted in
// runes so Cyrillic titles center correctly; a title wider than the terminal
// is printed unpadded.
func centerLine(title string, width int) string {
	titleWidth := utf8.RuneCountInString(title)
	left := (width - titleWidth) / 2
	if left < 0 {
		left = 0
	}
	right := width - titleWidth - left
	if right < 0 {
		right = 0
	}
	return strings.Repeat("-", left) + title + strings.Repeat("-", right)
}

// GroupHeader printed to cli.
func GroupHeader(text string, args ...any) {
	groupHeaderColor.Printf(text+"\n", args...)
}

// UserInput printed to cli.
func UserInput(text string, args ...any) {
	userInputColor.Printf(text, args...)
}

// BotOutput printed to cli.
func BotOutput(text string, args ...any) {
	text = strings.ReplaceAll(text, "%", "%%")
	botOutputColor.Printf(text, args...)
}

// Typing prints the pending-response indicator line.
func Typing() {
	typingColor.Println("ИИ Сонник анализирует сон...")
}

// PromptUser for input.
func PromptUser() (string, error) {
	exit := false
	config := &readline.Config{
		Prompt:            promptColor.Sprint("> "),
		InterruptPrompt:   "^C",
		HistoryFile:       "/tmp/sonnik.history",
		HistorySearchFold: true,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == '\x0A' { // Ctrl + J
				exit = true
			}
			return r, true
		},
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		if exit {
			break
		}
		rl.SetPrompt("")
	}
	return strings.Join(lines, "\n"), nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}

// Notifier prints transient notifications to the terminal.
type Notifier struct{}

// Notify implements notify.Notifier.
func (Notifier) Notify(kind notify.Kind, message string) {
	switch kind {
	case notify.Error:
		errorColor.Printf("❌ Ошибка: %s\n", message)
	case notify.Info:
		infoColor.Printf("💡 Информация: %s\n", message)
	default:
		successColor.Printf("✅ Успешно: %s\n", message)
	}
}
