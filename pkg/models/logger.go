package models

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type loggerHolder struct {
	l logrus.FieldLogger
}

var loggerPtr atomic.Pointer[loggerHolder]

func init() {
	SetLogger(nil)
}

func nopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SetLogger sets the logger used by the models package. By default nothing
// is logged. Pass nil to restore the silent default.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = nopLogger()
	}
	loggerPtr.Store(&loggerHolder{l: l})
}

func logger() logrus.FieldLogger {
	return loggerPtr.Load().l
}
