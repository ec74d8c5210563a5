package message

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/pembiasaan/core"
)

// BroadcastRecipient is the sentinel recipient id meaning "all teacher
// accounts". It is not a real account id.
const BroadcastRecipient = "all_teachers"

type (
	// Attachment is an opaque reference to a binary payload held by the
	// attachment collaborator; only the reference is persisted here.
	Attachment struct {
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
		Ref         string `json:"ref"`
	}

	Message struct {
		ID          string      `json:"id"`
		SenderID    string      `json:"sender_id"`
		SenderName  string      `json:"sender_name"`
		RecipientID string      `json:"recipient_id"` // account id or BroadcastRecipient
		Content     string      `json:"content"`
		Attachment  *Attachment `json:"attachment,omitempty"`
		Timestamp   time.Time   `json:"timestamp"` // UTC
		Read        bool        `json:"read"`
	}
)

func (m *Message) IsBroadcast() bool {
	return m.RecipientID == BroadcastRecipient
}

// NewMessage contains information needed to send a Message.
// Either Content or Attachment must be set.
type NewMessage struct {
	SenderID    string      `json:"sender_id" validate:"required"`
	RecipientID string      `json:"recipient_id" validate:"required"`
	Content     string      `json:"content"`
	Attachment  *Attachment `json:"attachment"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Content = core.CleanString(nm.Content)
	if err := validate.Struct(nm); err != nil {
		return err
	}
	if nm.Content == "" && nm.Attachment == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "content", Error: "message is empty"})
	}
	return nil
}
