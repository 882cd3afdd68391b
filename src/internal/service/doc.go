// Package service provides the business logic shared by the CLI and the HTTP API.
//
// Services load the settings-selected files on every call, apply the checks
// that gate an operation (port range, listener declared, section supported)
// and then delegate to the postfix and valvulaconf packages.
//
//	cfg := config.DefaultConfig()
//	deps := domain.NewDefaultDependencies()
//	postfixSvc := service.NewPostfixService(cfg)
//
//	res, err := postfixSvc.Connect("smtpd_recipient_restrictions", "3579", "first")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	log.Infof("connected valvulad at %s:%d (%s)", res.Host, res.Port, res.Outcome)
package service
