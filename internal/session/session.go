package session

// Mode is the client's usage tier.
type Mode int

const (
	// ModeGuest is the unauthenticated tier: 5 requests per rolling day,
	// no persisted chat history.
	ModeGuest Mode = iota
	// ModeAuthenticated means a session token was validated against the
	// backend.
	ModeAuthenticated
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeAuthenticated {
		return "authenticated"
	}
	return "guest"
}

// Session is the client's authorization state. It is replaced as a whole on
// every transition; no field is mutated in place.
type Session struct {
	Token  string
	UserID string
	Mode   Mode
}

// Profile holds the cached account fields of an authenticated user.
type Profile struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	BirthDate string
}
