package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before BootstrapLogger runs so packages and tests never see nil.
var Log = logrus.New()

func BootstrapLogger(level string, out io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	Log = &logrus.Logger{
		Out:   os.Stdout,
		Hooks: make(logrus.LevelHooks),
		Formatter: &logrus.TextFormatter{
			FullTimestamp: true,
		},
		ReportCaller: false,
		Level:        lvl,
		ExitFunc:     os.Exit,
	}
	if out != nil {
		Log.Out = out
	}

	if err != nil {
		Log.Warnf("unknown log level %q, using info", level)
	}
}

// Output opens path for appending log lines. An empty path selects fallback.
// The returned func closes the file.
func Output(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
