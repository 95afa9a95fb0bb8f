package secondary

import "context"

// Notifier defines the secondary port through which review decisions emit
// notifications. Implementations persist an in-app notification row, append
// an audit entry, and hand off to an email sender; template rendering and
// actual delivery are the external email service's concern.
type Notifier interface {
	Dispatch(ctx context.Context, n Notification) error
}

// Notification is the boundary payload accepted by the dispatcher.
type Notification struct {
	Type           string // see NotificationType* constants
	RecipientEmail string
	RecipientName  string
	Data           map[string]string
}

// Notification type constants.
const (
	NotificationUserCreated       = "user_created"
	NotificationUserApproved      = "user_approved"
	NotificationUserRejected      = "user_rejected"
	NotificationRoleChanged       = "role_changed"
	NotificationExportApproved    = "export_approved"
	NotificationExportRejected    = "export_rejected"
	NotificationSessionTerminated = "session_terminated"
	NotificationPasswordReset     = "password_reset"
)
