package platform

// AppName identifies the sender to the host notification service.
const AppName = "Annotator"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath points to an image shown alongside the message where the
	// platform supports it.
	IconPath string
	// Timeout in milliseconds. Zero uses the platform default.
	TimeoutMs int32
}
