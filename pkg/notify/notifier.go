package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// Notifier delivers the notification events the engine emits. Delivery is
// best-effort; a failed delivery must never roll back the mutation that
// produced it.
type Notifier interface {
	Notify(ctx context.Context, notifications []model.Notification)
}

// LogNotifier writes every notification to the log. It is the default
// channel when no email delivery is configured.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify logs each notification in emission order
func (n *LogNotifier) Notify(ctx context.Context, notifications []model.Notification) {
	for _, note := range notifications {
		n.Logger.Info("NOTIFICATION",
			zap.String("user_id", note.UserID),
			zap.String("message", note.Message))
	}
}

// EmailSender sends a single email; satisfied by the Gmail client
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// UserDirectory resolves notification recipients to addresses
type UserDirectory interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
}

// EmailNotifier delivers notifications by email, resolving recipients
// through the user directory. Users without an address, and failed
// sends, are logged and skipped.
type EmailNotifier struct {
	Sender  EmailSender
	Users   UserDirectory
	Logger  *zap.Logger
	Subject string
}

// Notify sends one email per notification, preserving emission order
func (n *EmailNotifier) Notify(ctx context.Context, notifications []model.Notification) {
	subject := n.Subject
	if subject == "" {
		subject = "Shift schedule update"
	}

	for _, note := range notifications {
		user, err := n.Users.UserByID(ctx, note.UserID)
		if err != nil {
			n.Logger.Warn("Skipping notification, recipient not found",
				zap.String("user_id", note.UserID),
				zap.Error(err))
			continue
		}
		if user.Email == "" {
			n.Logger.Warn("Skipping notification, recipient has no email",
				zap.String("user_id", note.UserID))
			continue
		}

		if err := n.Sender.SendEmail(user.Email, subject, note.Message); err != nil {
			n.Logger.Warn("Failed to deliver notification email",
				zap.String("user_id", note.UserID),
				zap.String("email", user.Email),
				zap.Error(err))
			continue
		}

		n.Logger.Debug("Notification email sent",
			zap.String("user_id", note.UserID),
			zap.String("email", user.Email))
	}
}
