package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"sonnik/internal/api"
)

func testUsers() []*api.UserRecord {
	users := make([]*api.UserRecord, 0, 25)
	for i := 0; i < 25; i++ {
		users = append(users, &api.UserRecord{
			ID:    fmt.Sprintf("u%02d", i),
			Name:  fmt.Sprintf("User %02d", i),
			Phone: fmt.Sprintf("+7900000%04d", i),
			Email: fmt.Sprintf("user%02d@example.com", i),
		})
	}
	users[3].Name = "Ivan Petrov"
	users[11].Email = "ivan.sidorov@example.com"
	users[19].Name = "IVAN"
	return users
}

func TestSearchUsers(t *testing.T) {
	users := testUsers()

	found := SearchUsers(users, "ivan")
	require.Len(t, found, 3)
	require.Equal(t, "u03", found[0].ID)
	require.Equal(t, "u11", found[1].ID)
	require.Equal(t, "u19", found[2].ID)

	// Matching is case-insensitive both ways.
	require.Len(t, SearchUsers(users, "IVAN"), 3)

	// The source list is untouched: same length, same order.
	require.Len(t, users, 25)
	for i, user := range users {
		require.Equal(t, fmt.Sprintf("u%02d", i), user.ID)
	}
}

func TestSearchUsersByPhone(t *testing.T) {
	users := testUsers()
	found := SearchUsers(users, "0007")
	require.Len(t, found, 1)
	require.Equal(t, "u07", found[0].ID)
}

func TestSearchUsersEmptyTerm(t *testing.T) {
	users := testUsers()

	// Clearing the term restores the full list.
	all := SearchUsers(users, "")
	require.Len(t, all, 25)
	require.Len(t, SearchUsers(users, "   "), 25)

	// The restored list is a fresh slice, not an alias of the source.
	all[0] = nil
	require.NotNil(t, users[0])
}

func TestSearchUsersNoMatch(t *testing.T) {
	require.Empty(t, SearchUsers(testUsers(), "nosuchuser"))
}
