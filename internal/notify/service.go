package notify

import (
	"context"
	"fmt"
)

// Service fans booking outcomes out to configured notifiers. Alert failures
// are logged and never affect the booking itself.
type Service struct {
	emailNotifier Notifier
}

// NewService creates a notification service
func NewService(emailNotifier Notifier) *Service {
	return &Service{
		emailNotifier: emailNotifier,
	}
}

// NotifyBooking sends operator notifications for one booking outcome.
func (s *Service) NotifyBooking(ctx context.Context, alert Alert) {
	if s.emailNotifier == nil || !s.emailNotifier.IsConfigured() {
		return
	}

	if err := s.emailNotifier.Send(ctx, alert); err != nil {
		fmt.Printf("Notification: %s failed: %v\n", s.emailNotifier.Name(), err)
	}
}
