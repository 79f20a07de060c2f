package activity

import (
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/log"
)

// LoginLogger appends one line per login attempt to an activity file.
type LoginLogger struct {
	logger *log.Logger
	out    io.Closer
}

func OpenLoginLogger(path string) (*LoginLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening login activity log: %w", err)
	}
	return newLoginLogger(f, f), nil
}

func newLoginLogger(w io.Writer, closer io.Closer) *LoginLogger {
	l := log.New("login")
	l.SetOutput(w)
	l.SetHeader("[${time_rfc3339}] [${level}]")
	l.SetLevel(log.INFO)
	l.DisableColor()
	return &LoginLogger{logger: l, out: closer}
}

func (l *LoginLogger) LogAttempt(username string, success bool) {
	l.logger.Infof("Login Attempt for user %q [Success = %t]", username, success)
}

func (l *LoginLogger) Close() error {
	if l.out == nil {
		return nil
	}
	return l.out.Close()
}
