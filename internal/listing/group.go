package listing

import (
	"sort"
	"time"

	"sonnik/internal/api"
)

// Fixed group labels, most recent first.
const (
	GroupToday     = "Сегодня"
	GroupYesterday = "Вчера"
	GroupThisWeek  = "На этой неделе"
	GroupThisMonth = "В этом месяце"
	GroupEarlier   = "Ранее"
)

var monthNames = [...]string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

// Group is one labeled bucket of the chat list.
type Group struct {
	Label string
	Chats []*api.ChatSummary
}

// SortByRecency returns a copy of chats ordered by last activity
// (lastMessageAt, falling back to createdAt), most recent first. The input
// slice is never reordered.
func SortByRecency(chats []*api.ChatSummary) []*api.ChatSummary {
	sorted := make([]*api.ChatSummary, len(chats))
	copy(sorted, chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return recency(sorted[i]).After(recency(sorted[j]))
	})
	return sorted
}

func recency(chat *api.ChatSummary) time.Time {
	if chat.LastMessageAt != nil && !chat.LastMessageAt.IsZero() {
		return chat.LastMessageAt.Time
	}
	return chat.CreatedAt.Time
}

// GroupByRecency buckets chats by creation date into labeled groups. Rules
// are evaluated in priority order (today, yesterday, this ISO week, this
// month, a named month of the current year, earlier years) and each chat
// lands in exactly one group. Group order follows first appearance in the
// input, so feed it a SortByRecency result for a most-recent-first listing.
func GroupByRecency(chats []*api.ChatSummary, now time.Time) []Group {
	var groups []Group
	index := map[string]int{}

	for _, chat := range chats {
		label := bucketLabel(chat.CreatedAt.Time, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Chats = append(groups[i].Chats, chat)
	}
	return groups
}

func bucketLabel(created, now time.Time) string {
	yesterday := now.AddDate(0, 0, -1)
	switch {
	case sameDay(created, now):
		return GroupToday
	case sameDay(created, yesterday):
		return GroupYesterday
	case sameISOWeek(created, now):
		return GroupThisWeek
	case created.Month() == now.Month() && created.Year() == now.Year():
		return GroupThisMonth
	case created.Year() == now.Year():
		return monthNames[created.Month()-1]
	default:
		return GroupEarlier
	}
}

func sameDay(a, b time.Time) bool {
	return a.Day() == b.Day() && a.Month() == b.Month() && a.Year() == b.Year()
}

func sameISOWeek(a, b time.Time) bool {
	aYear, aWeek := a.ISOWeek()
	bYear, bWeek := b.ISOWeek()
	return aYear == bYear && aWeek == bWeek
}
