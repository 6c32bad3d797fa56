package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/ieee-its/nightslip/apps/api/echo"
	"github.com/ieee-its/nightslip/core"
	"github.com/ieee-its/nightslip/core/attendance"
	"github.com/ieee-its/nightslip/core/user"
	dummyexport "github.com/ieee-its/nightslip/services/export/dummy"
	dummyidentity "github.com/ieee-its/nightslip/services/identity/dummy"
	dummydb "github.com/ieee-its/nightslip/storage/database/dummy"
	testutil "github.com/ieee-its/nightslip/tests"
)

const adminEmail = "warden@test.cd"

var (
	conf     *core.Config
	usrRepo  user.Repository
	attRepo  attendance.Repository
	exporter *dummyexport.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func setup(t *testing.T) Server {
	t.Helper()

	conf = testutil.NewTestConfig(adminEmail)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	attRepo = dummydb.NewAttendanceRepository(db)
	exporter = dummyexport.NewService()

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	usrSvc := user.NewService(usrRepo, exporter, validate)
	attSvc := attendance.NewService(attRepo, usrRepo, exporter, validate)

	return NewServer(
		ServerDeps{
			Conf:          conf,
			Logger:        testLogger{t},
			UserSvc:       usrSvc,
			AttendanceSvc: attSvc,
			IdentitySvc:   dummyidentity.NewService(),
			Validate:      validate,
			Translator:    translator,
		},
	)
}

type testLogger struct{ t *testing.T }

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL %s %v", msg, args) }

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
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: conf.Server.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, email, name string) string {
	t.Helper()
	claims := &Claims{Name: name, Email: email, IsAdmin: conf.IsAdminEmail(email)}
	claims.ExpiresAt = time.Now().Add(time.Hour).Unix()
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
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
	t.Helper()
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
