package notification

import "jobnest/internal/domain"

type Type string

const (
	TypeNewApplication           Type = "NEW_APPLICATION"
	TypeApplicationSubmitted     Type = "APPLICATION_SUBMITTED"
	TypeApplicationStatusChanged Type = "APPLICATION_STATUS_CHANGED"
	TypeSystem                   Type = "SYSTEM"
)

type Notification struct {
	ID          int64        `json:"id"`
	RecipientID int64        `json:"recipientId,omitempty"`
	Title       string       `json:"title,omitempty"`
	Message     string       `json:"message"`
	Type        Type         `json:"type,omitempty"`
	ReferenceID *int64       `json:"referenceId,omitempty"`
	IsRead      bool         `json:"isRead"`
	CreatedAt   *domain.Time `json:"createdAt,omitempty"`
}

type ListParams struct {
	Page       int
	Size       int
	UnreadOnly bool
}

type Preference struct {
	ApplicationStatus *bool `json:"applicationStatus,omitempty"`
	NewApplication    *bool `json:"newApplication,omitempty"`
	NewMessage        *bool `json:"newMessage,omitempty"`
	JobExpired        *bool `json:"jobExpired,omitempty"`
	System            *bool `json:"system,omitempty"`
}

func UnreadCount(items []Notification) int {
	n := 0
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n
}
