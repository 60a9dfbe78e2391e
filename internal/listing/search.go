package listing

import (
	"strings"

	"sonnik/internal/api"
)

// SearchUsers filters user records by a case-insensitive substring match
// over name, phone and email. It always returns a fresh slice: the stored
// list is neither mutated nor aliased, so clearing the term simply means
// rendering the original list again.
func SearchUsers(users []*api.UserRecord, term string) []*api.UserRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]*api.UserRecord, len(users))
		copy(out, users)
		return out
	}

	out := make([]*api.UserRecord, 0, len(users))
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.Name), term) ||
			strings.Contains(strings.ToLower(user.Phone), term) ||
			strings.Contains(strings.ToLower(user.Email), term) {
			out = append(out, user)
		}
	}
	return out
}
