package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/message"
	testutil "github.com/sekolahku/pembiasaan/tests"
)

func Test_messageApi_flow(t *testing.T) {
	d := setup(t)
	admin := testutil.CreateAccount(t, d.acctRepo, "Kepala", "kepala", "pwd", account.RoleAdmin)
	teacher := testutil.CreateAccount(t, d.acctRepo, "Guru Satu", "guru1", "pwd", account.RoleTeacher)
	adminToken := getToken(t, d.conf, admin)
	teacherToken := getToken(t, d.conf, teacher)

	// teachers may not broadcast
	req, rec := newAuthRequest(http.MethodPost, "/v1/messages", teacherToken,
		marshalObj(t, map[string]string{"recipient_id": message.BroadcastRecipient, "content": "hi"}))
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the admin broadcasts and messages the teacher directly
	req, rec = newAuthRequest(http.MethodPost, "/v1/messages", adminToken,
		marshalObj(t, map[string]string{"recipient_id": message.BroadcastRecipient, "content": "pengumuman"}))
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var broadcast message.Message
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &broadcast))
	assert.True(t, broadcast.IsBroadcast())
	assert.False(t, broadcast.Read)

	req, rec = newAuthRequest(http.MethodPost, "/v1/messages", adminToken,
		marshalObj(t, map[string]string{"recipient_id": teacher.ID, "content": "halo"}))
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var direct message.Message
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &direct))
	assert.Equal(t, admin.ID, direct.SenderID)
	assert.Equal(t, "Kepala", direct.SenderName)

	// an empty message is rejected
	req, rec = newAuthRequest(http.MethodPost, "/v1/messages", adminToken,
		marshalObj(t, map[string]string{"recipient_id": teacher.ID, "content": "   "}))
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the teacher sees the direct message and the broadcast
	req, rec = newAuthRequest(http.MethodGet, "/v1/messages", teacherToken)
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var msgs []message.Message
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	assert.Len(t, msgs, 2)

	// the teacher opens the conversation
	req, rec = newAuthRequest(http.MethodPost, "/v1/messages/read", teacherToken,
		marshalObj(t, map[string]string{"sender_id": admin.ID}))
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	got, err := d.msgRepo.GetMessageByID(direct.ID)
	assert.NoError(t, err)
	assert.True(t, got.Read)

	// and the broadcast; the shared flag flips for everyone
	req, rec = newAuthRequest(http.MethodPost, "/v1/messages/"+broadcast.ID+"/read", teacherToken)
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	got, err = d.msgRepo.GetMessageByID(broadcast.ID)
	assert.NoError(t, err)
	assert.True(t, got.Read)

	// only the sender may delete
	req, rec = newAuthRequest(http.MethodDelete, "/v1/messages/"+direct.ID, teacherToken)
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/messages/"+direct.ID, adminToken)
	d.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err = d.msgRepo.GetMessageByID(direct.ID)
	assert.Equal(t, message.ErrNotFound, err)
}
