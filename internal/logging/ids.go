package logging

import "github.com/concave-dev/anxiety/internal/utils"

// FormatID returns id unchanged when DEBUG is enabled and the short form
// otherwise, so routine logs stay readable while debug logs stay greppable.
func FormatID(id string) string {
	if IsDebug() {
		return id
	}
	return utils.TruncateIDSafe(id)
}

// FormatRequestID formats an I/O request ID for log lines.
//
// Usage: logging.Debug("dispatched %s", logging.FormatRequestID(req.ID))
func FormatRequestID(id string) string {
	return FormatID(id)
}
