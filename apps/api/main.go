package main

import (
	"fmt"
	"log"
	"os"

	"github.com/leonsilipetar/cadenza/apps/api/echo"
	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/enroll"
	"github.com/leonsilipetar/cadenza/core/invoice"
	"github.com/leonsilipetar/cadenza/core/mentor"
	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/school"
	"github.com/leonsilipetar/cadenza/core/user"
	"github.com/leonsilipetar/cadenza/services/email"
	"github.com/leonsilipetar/cadenza/services/logger"
	"github.com/leonsilipetar/cadenza/storage/database"
	"github.com/leonsilipetar/cadenza/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.Debug {
		appLogger = core.StdLogger{Std: std}
	} else {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	prgRepo := sqlxrepos.NewProgramRepository(db)
	enrRepo := sqlxrepos.NewEnrollRepository(db)

	usrSvc := user.NewService(usrRepo, mailSvc)
	schSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	prgSvc := program.NewService(prgRepo)
	mntSvc := mentor.NewService(sqlxrepos.NewMentorRepository(db))
	invSvc := invoice.NewService(sqlxrepos.NewInvoiceRepository(db), usrSvc, mailSvc)

	resolver := enroll.NewResolver(resolverReader{
		programs:    prgRepo,
		users:       usrRepo,
		enrollments: enrRepo,
	})
	enrSvc := enroll.NewService(database.NewTransactor(db), enrRepo, resolver, usrSvc, mailSvc)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:    fmt.Sprintf(":%d", core.Conf.Server.Port),
			Logger:     appLogger,
			UserSvc:    usrSvc,
			SchoolSvc:  schSvc,
			ProgramSvc: prgSvc,
			MentorSvc:  mntSvc,
			InvoiceSvc: invSvc,
			EnrollSvc:  enrSvc,
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
