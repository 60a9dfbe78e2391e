package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sonnik/internal/api"
)

func chatAt(id string, created time.Time) *api.ChatSummary {
	return &api.ChatSummary{
		ID:        id,
		Title:     "💭 " + id,
		CreatedAt: api.Time{Time: created},
	}
}

func TestGroupByRecency(t *testing.T) {
	// A Friday, so the ISO week holds days that are neither today nor
	// yesterday.
	now := time.Date(2026, 9, 25, 12, 0, 0, 0, time.UTC)

	chats := []*api.ChatSummary{
		chatAt("today", time.Date(2026, 9, 25, 9, 0, 0, 0, time.UTC)),
		chatAt("yesterday", time.Date(2026, 9, 24, 23, 30, 0, 0, time.UTC)),
		chatAt("this-week", time.Date(2026, 9, 22, 8, 0, 0, 0, time.UTC)),
		chatAt("this-month", time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)),
		chatAt("named-month", time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)),
		chatAt("earlier", time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC)),
	}

	groups := GroupByRecency(chats, now)

	labels := make([]string, 0, len(groups))
	total := 0
	for _, group := range groups {
		labels = append(labels, group.Label)
		total += len(group.Chats)
	}
	require.Equal(t, []string{
		GroupToday, GroupYesterday, GroupThisWeek, GroupThisMonth, "август", GroupEarlier,
	}, labels)

	// Every chat lands in exactly one group.
	require.Equal(t, len(chats), total)
	seen := map[string]string{}
	for _, group := range groups {
		for _, chat := range group.Chats {
			_, duplicate := seen[chat.ID]
			require.False(t, duplicate, "chat %s bucketed twice", chat.ID)
			seen[chat.ID] = group.Label
		}
	}
	require.Equal(t, GroupToday, seen["today"])
	require.Equal(t, GroupYesterday, seen["yesterday"])
	require.Equal(t, GroupThisWeek, seen["this-week"])
	require.Equal(t, GroupThisMonth, seen["this-month"])
	require.Equal(t, "август", seen["named-month"])
	require.Equal(t, GroupEarlier, seen["earlier"])
}

func TestGroupByRecencyPriority(t *testing.T) {
	// Yesterday beats the week bucket even when both match.
	now := time.Date(2026, 9, 25, 12, 0, 0, 0, time.UTC)
	require.Equal(t, GroupYesterday, bucketLabel(time.Date(2026, 9, 24, 8, 0, 0, 0, time.UTC), now))

	// Yesterday crosses a year boundary.
	newYear := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.Equal(t, GroupYesterday, bucketLabel(time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC), newYear))
}

func TestGroupByRecencyEmpty(t *testing.T) {
	require.Empty(t, GroupByRecency(nil, time.Now()))
}

func TestSortByRecency(t *testing.T) {
	active := api.Time{Time: time.Date(2026, 9, 25, 10, 0, 0, 0, time.UTC)}
	chats := []*api.ChatSummary{
		chatAt("old", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)),
		chatAt("new", time.Date(2026, 9, 20, 8, 0, 0, 0, time.UTC)),
		{
			ID: "active",
			// Created early, but its last message makes it the most
			// recent entry.
			CreatedAt:     api.Time{Time: time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)},
			LastMessageAt: &active,
		},
	}

	sorted := SortByRecency(chats)

	require.Equal(t, "active", sorted[0].ID)
	require.Equal(t, "new", sorted[1].ID)
	require.Equal(t, "old", sorted[2].ID)

	// The input slice keeps its order.
	require.Equal(t, "old", chats[0].ID)
	require.Equal(t, "new", chats[1].ID)
	require.Equal(t, "active", chats[2].ID)
}
