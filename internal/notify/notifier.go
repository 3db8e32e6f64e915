// Package notify delivers operator alerts for booking outcomes.
package notify

import "context"

// Alert describes one booking outcome worth telling the operator about.
type Alert struct {
	Identity   string
	Name       string
	Email      string
	BookedTime string
	MeetingURL string
	Language   string
	Failed     bool
	Detail     string
}

// Notifier sends an operator alert somewhere.
type Notifier interface {
	// Send delivers the alert to the configured recipient
	Send(ctx context.Context, alert Alert) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured returns true if the notifier has server-side config
	IsConfigured() bool
}
