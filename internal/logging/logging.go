// Package logging builds logrus loggers for pegen utility.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formats lists accepted --log-format values.
var Formats = []string{"text", "json", "json-pretty"}

// GetLevel converts --log-level value to logrus level, empty string means info.
func GetLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.DebugLevel, fmt.Errorf("invalid log level: %v", level)
	}
}

// GetFormatter converts --log-format value to logrus formatter.
func GetFormatter(format string) (logrus.Formatter, error) {
	switch format {
	case "", "text":
		return &textFormatter{}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	case "json-pretty":
		return &logrus.JSONFormatter{PrettyPrint: true}, nil
	default:
		return nil, fmt.Errorf("invalid log format: %v", format)
	}
}

// New creates a logger writing to out.
func New(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, e := GetLevel(level)
	if e != nil {
		return nil, e
	}
	f, e := GetFormatter(format)
	if e != nil {
		return nil, e
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(f)
	return logger, nil
}

// textFormatter writes "[LEVEL] message key=value ..." lines, fields sorted by key.
type textFormatter struct{}

func (f *textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b := new(bytes.Buffer)
	b.WriteString("[" + strings.ToUpper(e.Level.String()) + "] " + e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := e.Data[k]
		if err, isErr := v.(error); isErr {
			v = err.Error()
		}
		if s, isString := v.(string); isString {
			fmt.Fprintf(b, " %s=%q", k, s)
		} else {
			fmt.Fprintf(b, " %s=%v", k, v)
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
