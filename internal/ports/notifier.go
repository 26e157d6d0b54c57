package ports

type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel
	Message string
}

// Notifier shows transient user notifications.
type Notifier interface {
	Notify(n Notification)
}
