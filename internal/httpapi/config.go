package httpapi

import "time"

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Default 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// runWait bounds how long POST /run waits for an outcome. Zero waits
// forever. The run itself is never cancelled; a timed-out request only
// stops waiting.
var runWait time.Duration

// SetRunWaitSeconds sets the /run wait limit in seconds (0 disables).
func SetRunWaitSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	runWait = time.Duration(sec) * time.Second
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
