// Package runtime contains runtime metadata separate from user configuration
package runtime

import (
	"github.com/google/uuid"
)

// Context contains runtime metadata that is not user-configurable.
// It is created once per invocation at startup.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string

	// SessionID identifies one CLI invocation in logs and error reports
	SessionID string
}

// New returns a Context with a fresh session id.
func New(version, buildDate string) *Context {
	if version == "" {
		version = "dev"
	}
	return &Context{
		Version:   version,
		BuildDate: buildDate,
		SessionID: NewSessionID(),
	}
}

// NewSessionID returns the first eight hex digits of a random UUID.
func NewSessionID() string {
	return uuid.NewString()[:8]
}
