package database

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sekolahku/pembiasaan/core/message"
)

type messageRepository struct {
	store Store
	mu    sync.RWMutex
}

func NewMessageRepository(store Store) message.Repository {
	return &messageRepository{store: store}
}

func (repo *messageRepository) load() ([]message.Message, error) {
	var msgs []message.Message
	if err := repo.store.ReadAll(MessageCollection, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (repo *messageRepository) save(msgs []message.Message) error {
	return repo.store.WriteAll(MessageCollection, msgs)
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	msgs, err := repo.load()
	if err != nil {
		return message.Message{}, err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msgs = append(msgs, msg)
	if err = repo.save(msgs); err != nil {
		return message.Message{}, err
	}
	return msg, nil
}

func (repo *messageRepository) QueryMessagesForAccount(accountID string, includeBroadcasts bool) ([]message.Message, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	msgs, err := repo.load()
	if err != nil {
		return nil, err
	}
	res := make([]message.Message, 0, len(msgs))
	for _, msg := range msgs {
		switch {
		case msg.SenderID == accountID || msg.RecipientID == accountID:
			res = append(res, msg)
		case msg.IsBroadcast() && includeBroadcasts:
			res = append(res, msg)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	return res, nil
}

func (repo *messageRepository) GetMessageByID(id string) (message.Message, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	msgs, err := repo.load()
	if err != nil {
		return message.Message{}, err
	}
	for _, msg := range msgs {
		if msg.ID == id {
			return msg, nil
		}
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) MarkConversationRead(senderID, recipientID string) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	msgs, err := repo.load()
	if err != nil {
		return 0, err
	}
	var flipped int
	for i := range msgs {
		if msgs[i].SenderID == senderID && msgs[i].RecipientID == recipientID && !msgs[i].Read {
			msgs[i].Read = true
			flipped++
		}
	}
	if flipped == 0 {
		return 0, nil
	}
	return flipped, repo.save(msgs)
}

func (repo *messageRepository) MarkBroadcastRead(id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	msgs, err := repo.load()
	if err != nil {
		return err
	}
	for i := range msgs {
		if msgs[i].ID == id {
			if msgs[i].Read {
				return nil
			}
			msgs[i].Read = true
			return repo.save(msgs)
		}
	}
	return nil
}

func (repo *messageRepository) DeleteMessageByID(id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	msgs, err := repo.load()
	if err != nil {
		return err
	}
	for i := range msgs {
		if msgs[i].ID == id {
			msgs = append(msgs[:i], msgs[i+1:]...)
			return repo.save(msgs)
		}
	}
	return nil
}
