package log

import (
	"fmt"
	"io"
	"os"

	"github.com/bombsimon/logrusr/v4"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"

	"github.com/openshift-assisted/ccx-deadletter/internal/config"
)

// Default to a discarding logger until Init is called (tests, convert command).
var logger = logr.Discard()

// Init configures the process wide logger, written to stdout.
func Init(conf config.Logs) error {
	ret, err := New(conf, os.Stdout)
	if err != nil {
		return err
	}

	logger = ret.WithName(conf.Name)

	return nil
}

// New builds a logrus backed logger. V levels are added on top of logrus info level:
// conf.Level 1 enables V(1), 2 enables V(1) and V(2) and so on.
func New(conf config.Logs, out io.Writer) (logr.Logger, error) {
	impl := logrus.New()

	impl.SetLevel(logrus.Level(conf.Level + int(logrus.InfoLevel)))
	impl.SetOutput(out)

	switch conf.Encoder {
	case config.EncoderTypeConsole:
		impl.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case config.EncoderTypeJson:
		impl.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "message",
			},
		})
	default:
		return logr.Discard(), fmt.Errorf("unexpected encoder value %v", conf.Encoder)
	}

	opts := []logrusr.Option{}
	if conf.ReportCaller {
		opts = append(opts, logrusr.WithReportCaller())
	}

	return logrusr.New(impl, opts...), nil
}

func Logger() logr.Logger {
	return logger
}
