package tracking

// Placeholder values used when a session is created before any richer
// signal (session event, user-agent classification) has arrived.
const (
	DefaultDevice  = "desktop"
	UnknownBrowser = "unknown"
	UnknownOS      = "unknown"
)
