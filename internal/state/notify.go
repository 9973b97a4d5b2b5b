package state

type NotificationKind uint8

const (
	Success NotificationKind = iota
	Failure
)

func (k NotificationKind) String() string {
	if k == Failure {
		return "error"
	}
	return "success"
}

// Notification is a fire-and-forget message for the user.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Description string
}

type Notifier interface {
	Notify(Notification)
}

// NotifierFunc is a function that implements Notifier.
type NotifierFunc func(Notification)

func (fn NotifierFunc) Notify(n Notification) { fn(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
