package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/phoenixdev100/tap/apps/api/echo"
	"github.com/phoenixdev100/tap/core"
	"github.com/phoenixdev100/tap/core/assignment"
	"github.com/phoenixdev100/tap/core/attendance"
	"github.com/phoenixdev100/tap/core/note"
	"github.com/phoenixdev100/tap/core/schedule"
	"github.com/phoenixdev100/tap/core/user"
	emailsvc "github.com/phoenixdev100/tap/services/email"
	logsvc "github.com/phoenixdev100/tap/services/logger"
	dummydb "github.com/phoenixdev100/tap/storage/database/dummy"
)

var (
	conf       *core.Config
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator

	usrRepo    user.Repository
	schedRepo  schedule.Repository
	assignRepo assignment.Repository
	attRepo    attendance.Repository
	noteRepo   note.Repository

	errMissingToken = failMsgRaw("missing or malformed jwt")
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:        true,
		AppName:         "TAP",
		SecretKey:       []byte("test-secret-key"),
		FrontendBaseURL: "http://localhost:3000",
		WorkDir:         core.Getwd(),
		DefaultFromEmail: mail.Address{
			Name:    "TAP",
			Address: "noreply@localhost",
		},
		PasswordResetTimeoutDelta: time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 2 * time.Hour,
			AllowedOrigins:            []string{"*"},
		},
		RateLimit: core.RateLimitConfig{
			MaxAttempts:   5,
			Window:        time.Minute,
			SweepInterval: time.Minute,
		},
		Assignment: core.AssignmentConfig{OpenEnrollment: true},
		Attendance: core.AttendanceConfig{CurrentSemester: "Spring 2024"},
		Upload: core.UploadConfig{
			MaxSize: 1 << 20,
			AllowedTypes: []string{
				"application/pdf",
				"text/plain",
			},
		},
	}

	rollbar := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	rollbar.Enable(false)
	logger = rollbar

	validate = validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)
	user.LoadCommonPasswords(conf, logger)

	os.Exit(m.Run())
}

// setup builds a fresh in-memory database and a server on top of it.
func setup(t *testing.T) Server {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	schedRepo = dummydb.NewScheduleRepository(db)
	assignRepo = dummydb.NewAssignmentRepository(db)
	attRepo = dummydb.NewAttendanceRepository(db)
	noteRepo = dummydb.NewNoteRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)

	return NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		ScheduleSvc:    schedule.NewService(schedRepo),
		AssignmentSvc:  assignment.NewService(assignRepo, usrSvc, conf),
		AttendanceSvc:  attendance.NewService(attRepo, usrSvc, conf),
		NoteSvc:        note.NewService(noteRepo),
	})
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

// newUploadRequest builds a multipart form request with optional file.
func newUploadRequest(
	t *testing.T,
	method, path, token string,
	fields map[string]string,
	fileName, fileType string,
	fileContent []byte,
) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			t.Fatalf("WriteField() failed: %v", err)
		}
	}
	if fileName != "" {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="` + fileName + `"`}
		hdr["Content-Type"] = []string{fileType}
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("CreatePart() failed: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("part.Write() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Close() failed: %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(conf, usr)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

// okData is the success envelope around a domain payload.
func okData(t *testing.T, obj interface{}) []byte {
	return marshallObj(t, map[string]interface{}{"success": true, "data": obj})
}

func okMsg(t *testing.T, msg string) []byte {
	return marshallObj(t, map[string]interface{}{"success": true, "message": msg})
}

func failMsg(t *testing.T, msg string) []byte {
	return failMsgRaw(msg)
}

func failMsgRaw(msg string) []byte {
	data, _ := json.Marshal(map[string]interface{}{"success": false, "message": msg})
	return data
}

func failFields(t *testing.T, fields map[string]string) []byte {
	return marshallObj(t, map[string]interface{}{"success": false, "errors": fields})
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// parseData unmarshals the "data" member of a success envelope into dst.
func parseData(t *testing.T, body io.Reader, dst interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected a success envelope")
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decoding envelope data: %v", err)
	}
}
