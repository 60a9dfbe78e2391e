package listing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "empty message",
			message: "",
			want:    PlaceholderTitle,
		},
		{
			name:    "whitespace only",
			message: "   \n\t  ",
			want:    PlaceholderTitle,
		},
		{
			name:    "short message kept whole",
			message: "Я летал над городом",
			want:    "💭 Я летал над городом",
		},
		{
			name:    "whitespace collapsed",
			message: "  привет \n  мир  ",
			want:    "💭 привет мир",
		},
		{
			name:    "truncated to four words",
			message: "Мне снился большой белый кот",
			want:    "💭 Мне снился большой белый...",
		},
		{
			name:    "long text over four words",
			message: "Сегодня ночью мне приснился очень странный и запутанный сон",
			want:    "💭 Сегодня ночью мне приснился...",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, GenerateTitle(test.message))
		})
	}
}

func TestGenerateTitleHardCap(t *testing.T) {
	title := GenerateTitle(strings.Repeat("а", 60))
	require.Equal(t, 40, utf8.RuneCountInString(title))
	require.True(t, strings.HasSuffix(title, "..."))
}

func TestGenerateTitleProperties(t *testing.T) {
	messages := []string{
		"",
		"   ",
		"кот",
		"Я летал над городом",
		"Мне снился большой белый кот на крыше девятиэтажки",
		strings.Repeat("оченьдлинноеслово", 10),
		strings.Repeat("сон про море ", 20),
	}
	for _, message := range messages {
		title := GenerateTitle(message)
		// Deterministic and bounded for any input.
		require.Equal(t, title, GenerateTitle(message))
		require.LessOrEqual(t, utf8.RuneCountInString(title), 40)
		require.True(t, strings.HasPrefix(title, "💭"))
	}
}
