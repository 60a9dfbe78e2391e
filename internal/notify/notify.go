package notify

// Kind classifies a notification the way the UI renders it.
type Kind int

const (
	// Success notifications confirm a completed action.
	Success Kind = iota
	// Error notifications report a terminal failure.
	Error
	// Info notifications carry neutral guidance.
	Info
)

// Notification is one transient user-visible message.
type Notification struct {
	Kind    Kind
	Message string
}

// Notifier receives user-visible notifications. Every terminal failure
// produces exactly one notification; callers must not emit duplicates for
// the same event.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Recorder collects notifications for inspection in tests.
type Recorder struct {
	Notifications []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(kind Kind, message string) {
	r.Notifications = append(r.Notifications, Notification{Kind: kind, Message: message})
}

// Count returns how many notifications with the given message were recorded.
func (r *Recorder) Count(message string) int {
	n := 0
	for _, notification := range r.Notifications {
		if notification.Message == message {
			n++
		}
	}
	return n
}
