package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/enroll"
	"github.com/leonsilipetar/cadenza/core/invoice"
	"github.com/leonsilipetar/cadenza/core/mentor"
	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/school"
	"github.com/leonsilipetar/cadenza/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger     core.Logger
		UserSvc    *user.Service
		SchoolSvc  *school.Service
		ProgramSvc *program.Service
		MentorSvc  *mentor.Service
		InvoiceSvc *invoice.Service
		EnrollSvc  *enroll.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerSchoolAPI(v1, jwt, s.opts.SchoolSvc, s.opts.ProgramSvc)
	registerMentorAPI(v1, jwt, s.opts.MentorSvc)
	registerInvoiceAPI(v1, jwt, s.opts.InvoiceSvc, s.opts.UserSvc)
	registerEnrollAPI(v1, jwt, s.opts.EnrollSvc)
}

func (s *server) Start() {
	go func() {
		<-s.shutdown
		_ = s.app.Shutdown(context.Background())
	}()
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown is called by the error handler on unrecoverable errors.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Cadenza API!")
}
