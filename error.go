package spc

import (
	"os"

	"github.com/stvp/rollbar"
)

// ErrorReporter forwards unexpected errors in the client to an external crash reporting service.  Analysis
// failures caused by the supplied data are reported to the user, not here.
type ErrorReporter interface {
	ReportError(err error)
	Wait()
}

type errorService struct {
	suppress bool
}

// newErrorService configures Rollbar from the environment variables environment and ROLLBAR_TOKEN.  It reads
// them on construction so that a .env file loaded by the command takes effect.
func newErrorService(suppress bool) errorService {
	switch env := os.Getenv("environment"); env {
	case "development":
		rollbar.Environment = "development"
	default:
		rollbar.Environment = "production"
	}
	rollbar.Token = os.Getenv("ROLLBAR_TOKEN")
	return errorService{suppress: suppress}
}

// ReportError will send the result of an unexpected error to Rollbar.  Nothing is sent when reporting is
// suppressed or no token is configured.
func (e errorService) ReportError(err error) {
	if e.suppress || rollbar.Token == "" || err == nil {
		return
	}
	rollbar.Error(rollbar.ERR, err)
}

// Wait blocks until queued error reports are sent
func (e errorService) Wait() {
	if e.suppress || rollbar.Token == "" {
		return
	}
	rollbar.Wait()
}
