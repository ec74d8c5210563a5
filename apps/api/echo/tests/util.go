package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/sekolahku/pembiasaan/apps/api/echo"
	"github.com/sekolahku/pembiasaan/core"
	"github.com/sekolahku/pembiasaan/core/account"
	"github.com/sekolahku/pembiasaan/core/habit"
	"github.com/sekolahku/pembiasaan/core/message"
	"github.com/sekolahku/pembiasaan/core/report"
	"github.com/sekolahku/pembiasaan/core/student"
	emailsvc "github.com/sekolahku/pembiasaan/services/email"
	"github.com/sekolahku/pembiasaan/storage/database"
	testutil "github.com/sekolahku/pembiasaan/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type deps struct {
	app  Server
	conf *core.Config

	acctRepo  account.Repository
	stdRepo   student.Repository
	habitRepo habit.Repository
	repRepo   report.Repository
	msgRepo   message.Repository
}

func setup(t *testing.T) *deps {
	t.Helper()

	conf := testutil.NewConfig()
	conf.Debug = false // exercise the production error payloads

	store := testutil.NewStore(t)
	acctRepo := database.NewAccountRepository(store)
	stdRepo := database.NewStudentRepository(store)
	habitRepo := database.NewHabitRepository(store)
	repRepo := database.NewReportRepository(store)
	msgRepo := database.NewMessageRepository(store)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	habitSvc := habit.NewService(habitRepo)
	studentSvc := student.NewService(stdRepo, habitSvc, acctRepo)
	acctSvc := account.NewService(acctRepo, studentSvc, conf)
	reportSvc := report.NewService(repRepo)
	messageSvc := message.NewService(msgRepo, acctRepo, mailSvc, conf)

	validate, translator := testutil.NewValidator()

	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         testutil.NewLogger(),
		AccountSvc:     acctSvc,
		StudentSvc:     studentSvc,
		HabitSvc:       habitSvc,
		ReportSvc:      reportSvc,
		MessageSvc:     messageSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	return &deps{
		app:       app,
		conf:      conf,
		acctRepo:  acctRepo,
		stdRepo:   stdRepo,
		habitRepo: habitRepo,
		repRepo:   repRepo,
		msgRepo:   msgRepo,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, acct account.Account) string {
	claims := GetAccountClaims(conf, acct)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
