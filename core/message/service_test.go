package message_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/message"
	"github.com/sekolahku/pembiasaan/storage/database"
	testutil "github.com/sekolahku/pembiasaan/tests"
)

type fixture struct {
	acctRepo account.Repository
	msgRepo  message.Repository
	svc      *message.Service

	admin   account.Account
	teacher account.Account
	other   account.Account
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	conf := testutil.NewConfig()

	acctRepo := database.NewAccountRepository(store)
	msgRepo := database.NewMessageRepository(store)
	svc := message.NewService(msgRepo, acctRepo, nil /* no mail in tests */, conf)

	return &fixture{
		acctRepo: acctRepo,
		msgRepo:  msgRepo,
		svc:      svc,
		admin:    testutil.CreateAccount(t, acctRepo, "Kepala", "kepala", "pwd", account.RoleAdmin),
		teacher:  testutil.CreateAccount(t, acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher),
		other:    testutil.CreateAccount(t, acctRepo, "Guru Dua", "guru2", "pwd", account.RoleTeacher),
	}
}

func Test_Service_Send(t *testing.T) {
	fix := setup(t)

	msg, err := fix.svc.Send(message.NewMessage{
		SenderID:    fix.teacher.ID,
		RecipientID: fix.admin.ID,
		Content:     "Laporan bulan Mei sudah siap.",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, fix.teacher.Name, msg.SenderName)
	assert.False(t, msg.Read)
	assert.False(t, msg.IsBroadcast())

	_, err = fix.svc.Send(message.NewMessage{SenderID: "no-such-id", RecipientID: fix.admin.ID, Content: "hi"})
	assert.Equal(t, account.ErrNotFound, err)
}

func Test_Service_QueryForAccount(t *testing.T) {
	fix := setup(t)

	direct, err := fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: fix.teacher.ID, Content: "halo"})
	assert.NoError(t, err)
	broadcast, err := fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: message.BroadcastRecipient, Content: "pengumuman"})
	assert.NoError(t, err)
	_, err = fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: fix.other.ID, Content: "rahasia"})
	assert.NoError(t, err)

	// teachers see their conversations plus broadcasts
	msgs, err := fix.svc.QueryForAccount(fix.teacher)
	assert.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, direct.ID, msgs[0].ID)
	assert.Equal(t, broadcast.ID, msgs[1].ID)

	// admins see everything they sent, broadcasts included
	msgs, err = fix.svc.QueryForAccount(fix.admin)
	assert.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func Test_Service_MarkConversationRead(t *testing.T) {
	fix := setup(t)

	m1, _ := fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: fix.teacher.ID, Content: "satu"})
	m2, _ := fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: fix.teacher.ID, Content: "dua"})
	reply, _ := fix.svc.Send(message.NewMessage{SenderID: fix.teacher.ID, RecipientID: fix.admin.ID, Content: "balas"})

	assert.NoError(t, fix.svc.MarkConversationRead(fix.admin.ID, fix.teacher.ID))

	for _, id := range []string{m1.ID, m2.ID} {
		msg, err := fix.msgRepo.GetMessageByID(id)
		assert.NoError(t, err)
		assert.True(t, msg.Read)
	}

	// the other direction is untouched
	msg, err := fix.msgRepo.GetMessageByID(reply.ID)
	assert.NoError(t, err)
	assert.False(t, msg.Read)

	// read is one-way: marking again keeps them read
	assert.NoError(t, fix.svc.MarkConversationRead(fix.admin.ID, fix.teacher.ID))
	msg, _ = fix.msgRepo.GetMessageByID(m1.ID)
	assert.True(t, msg.Read)

	// the broadcast sentinel is never a conversation party
	assert.NoError(t, fix.svc.MarkConversationRead(message.BroadcastRecipient, fix.teacher.ID))
}

func Test_Service_MarkBroadcastRead_sharedFlag(t *testing.T) {
	fix := setup(t)

	broadcast, _ := fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: message.BroadcastRecipient, Content: "pengumuman"})
	direct, _ := fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: fix.teacher.ID, Content: "halo"})

	// the first teacher who opens it marks it read for everyone
	assert.NoError(t, fix.svc.MarkBroadcastRead(broadcast.ID))
	msg, err := fix.msgRepo.GetMessageByID(broadcast.ID)
	assert.NoError(t, err)
	assert.True(t, msg.Read)

	// not applicable to direct messages or unknown ids
	assert.NoError(t, fix.svc.MarkBroadcastRead(direct.ID))
	msg, _ = fix.msgRepo.GetMessageByID(direct.ID)
	assert.False(t, msg.Read)
	assert.NoError(t, fix.svc.MarkBroadcastRead("no-such-id"))
}

func Test_Service_Delete_senderOnly(t *testing.T) {
	fix := setup(t)

	msg, _ := fix.svc.Send(message.NewMessage{SenderID: fix.admin.ID, RecipientID: fix.teacher.ID, Content: "halo"})

	// the recipient may not delete it
	assert.Equal(t, message.ErrNotSender, fix.svc.Delete(msg.ID, fix.teacher.ID))
	_, err := fix.msgRepo.GetMessageByID(msg.ID)
	assert.NoError(t, err)

	// the sender may
	assert.NoError(t, fix.svc.Delete(msg.ID, fix.admin.ID))
	_, err = fix.msgRepo.GetMessageByID(msg.ID)
	assert.Equal(t, message.ErrNotFound, err)

	// deleting a missing message is a no-op
	assert.NoError(t, fix.svc.Delete(msg.ID, fix.admin.ID))
}

func Test_NewMessage_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name    string
		data    message.NewMessage
		wantErr bool
	}{
		{name: "content", data: message.NewMessage{SenderID: "a", RecipientID: "b", Content: "halo"}},
		{name: "attachment only", data: message.NewMessage{SenderID: "a", RecipientID: "b", Attachment: &message.Attachment{Name: "f.xlsx", Ref: "r1"}}},
		{name: "empty", data: message.NewMessage{SenderID: "a", RecipientID: "b"}, wantErr: true},
		{name: "blank content", data: message.NewMessage{SenderID: "a", RecipientID: "b", Content: "   "}, wantErr: true},
		{name: "no recipient", data: message.NewMessage{SenderID: "a", Content: "halo"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
