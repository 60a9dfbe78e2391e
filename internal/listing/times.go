package listing

import (
	"fmt"
	"time"
)

var shortMonthNames = [...]string{
	"янв.", "февр.", "мар.", "апр.", "мая", "июн.",
	"июл.", "авг.", "сент.", "окт.", "нояб.", "дек.",
}

// FormatRelativeTime renders a chat timestamp the way the sidebar shows it:
// relative within a week, day and month beyond that.
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "только что"
	case diff < time.Hour:
		return fmt.Sprintf("%d мин назад", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d ч назад", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d д назад", int(diff.Hours()/24))
	default:
		return fmt.Sprintf("%d %s", t.Day(), shortMonthNames[t.Month()-1])
	}
}
