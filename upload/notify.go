package upload

// Variant is the visual weight of a notification
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Notification is a short user-facing message
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier surfaces notifications to the user
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(n Notification)

// Notify implements Notifier
func (f NotifierFunc) Notify(n Notification) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

func authRequired() Notification {
	return Notification{
		Title:       "Authentication required",
		Description: "Please sign in to upload and classify images",
		Variant:     VariantDestructive,
	}
}

func uploaded() Notification {
	return Notification{
		Title:       "Image uploaded successfully",
		Description: "Analyzing your waste...",
		Variant:     VariantSuccess,
	}
}
