package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	. "github.com/leonsilipetar/cadenza/apps/api/echo"
	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/enroll"
	"github.com/leonsilipetar/cadenza/core/invoice"
	"github.com/leonsilipetar/cadenza/core/mentor"
	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/school"
	"github.com/leonsilipetar/cadenza/core/user"
	emailsvc "github.com/leonsilipetar/cadenza/services/email"
	dummydb "github.com/leonsilipetar/cadenza/storage/database/dummy"
)

var (
	db      *dummydb.DB
	app     Server
	usrRepo user.Repository
	schRepo school.Repository
	prgRepo program.Repository
	enrRepo enroll.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	var err error

	// error responses must use the production body shape
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	db, err = dummydb.Open()
	if err != nil {
		log.Fatal(err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	schRepo = dummydb.NewSchoolRepository(db)
	prgRepo = dummydb.NewProgramRepository(db)
	enrRepo = dummydb.NewEnrollRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo, mailSvc)
	schSvc := school.NewService(schRepo)
	prgSvc := program.NewService(prgRepo)
	mntSvc := mentor.NewService(dummydb.NewMentorRepository(db))
	invSvc := invoice.NewService(dummydb.NewInvoiceRepository(db), usrSvc, mailSvc)

	resolver := enroll.NewResolver(resolverReader{})
	enrSvc := enroll.NewService(db, enrRepo, resolver, usrSvc, mailSvc)

	// set up server
	app = NewServer(&Options{
		DisableReqLogs: true,
		Logger:         core.StdLogger{Std: log.New(os.Stdout, "TEST : ", log.LstdFlags)},
		UserSvc:        usrSvc,
		SchoolSvc:      schSvc,
		ProgramSvc:     prgSvc,
		MentorSvc:      mntSvc,
		InvoiceSvc:     invSvc,
		EnrollSvc:      enrSvc,
	})

	os.Exit(m.Run())
}

// resolverReader satisfies enroll.Reader over the shared dummy repositories.
type resolverReader struct{}

func (resolverReader) GetProgramByID(ctx context.Context, id string) (program.Program, error) {
	return prgRepo.GetProgramByID(ctx, id)
}

func (resolverReader) GetUserWithPrograms(ctx context.Context, id string) (user.User, error) {
	return usrRepo.GetUserWithPrograms(ctx, id)
}

func (resolverReader) GetLatestEnrollment(ctx context.Context, userID string) (enroll.Enrollment, error) {
	return enrRepo.GetLatestEnrollment(ctx, userID)
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

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
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
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
