package message

import (
	"errors"
	"net/mail"
	"time"

	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
)

var (
	// errors
	ErrNotFound  = errors.New("message not found")
	ErrNotSender = errors.New("only the sender may delete a message")
)

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		// QueryMessagesForAccount returns messages sent by or addressed to the
		// account, plus broadcasts when includeBroadcasts is set, ordered by
		// timestamp ascending.
		QueryMessagesForAccount(accountID string, includeBroadcasts bool) ([]Message, error)
		GetMessageByID(id string) (Message, error)
		// MarkConversationRead flips every unread direct message from sender
		// to recipient; broadcasts are untouched. Returns the flip count.
		MarkConversationRead(senderID, recipientID string) (int, error)
		// MarkBroadcastRead flips the single shared read flag of a broadcast.
		MarkBroadcastRead(id string) error
		DeleteMessageByID(id string) error
	}

	// Directory resolves sender accounts and the teacher fan-out list.
	// Implemented by account.Repository.
	Directory interface {
		GetAccountByID(id string) (account.Account, error)
		QueryAccountsByRole(role string) ([]account.Account, error)
	}

	Service struct {
		repo      Repository
		directory Directory
		mailSvc   core.EmailService
		conf      *core.Config
	}
)

func NewService(repo Repository, directory Directory, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, directory: directory, mailSvc: mailSvc, conf: conf}
}

// Send persists a new unread message. Broadcasts additionally fan out an
// email notification to every teacher with an email on file.
func (svc *Service) Send(nm NewMessage) (Message, error) {
	sender, err := svc.directory.GetAccountByID(nm.SenderID)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		RecipientID: nm.RecipientID,
		Content:     nm.Content,
		Attachment:  nm.Attachment,
		Timestamp:   time.Now().UTC(),
		Read:        false,
	}
	msg, err = svc.repo.CreateMessage(msg)
	if err != nil {
		return Message{}, err
	}

	if msg.IsBroadcast() && svc.mailSvc != nil {
		svc.notifyTeachers(msg)
	}
	return msg, nil
}

func (svc *Service) notifyTeachers(msg Message) {
	teachers, err := svc.directory.QueryAccountsByRole(account.RoleTeacher)
	if err != nil {
		return // notification is best-effort
	}
	to := make([]mail.Address, 0, len(teachers))
	for _, t := range teachers {
		if t.Email != "" {
			to = append(to, mail.Address{Name: t.Name, Address: t.Email})
		}
	}
	if len(to) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		Bcc:         to,
		Subject:     "Pengumuman dari " + msg.SenderName,
		TextContent: msg.Content + "\n\n" + svc.conf.FrontendBaseURL,
	})
}

// QueryForAccount lists an account's conversation history; teachers also see
// broadcasts.
func (svc *Service) QueryForAccount(acct account.Account) ([]Message, error) {
	return svc.repo.QueryMessagesForAccount(acct.ID, acct.IsTeacher())
}

// MarkConversationRead marks all unread direct messages from sender to
// recipient as read. The transition is one-way; there is no unread path.
func (svc *Service) MarkConversationRead(senderID, recipientID string) error {
	if senderID == BroadcastRecipient || recipientID == BroadcastRecipient {
		return nil
	}
	_, err := svc.repo.MarkConversationRead(senderID, recipientID)
	return err
}

// MarkBroadcastRead marks a broadcast message read. The flag is shared: the
// first teacher who opens the broadcast marks it read for everyone.
func (svc *Service) MarkBroadcastRead(id string) error {
	msg, err := svc.repo.GetMessageByID(id)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}
	if !msg.IsBroadcast() || msg.Read {
		return nil
	}
	return svc.repo.MarkBroadcastRead(id)
}

// Delete removes a message. Only the sender may delete; a missing id is a
// no-op.
func (svc *Service) Delete(id, actorID string) error {
	msg, err := svc.repo.GetMessageByID(id)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}
	if msg.SenderID != actorID {
		return ErrNotSender
	}
	return svc.repo.DeleteMessageByID(id)
}
