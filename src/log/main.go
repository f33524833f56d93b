package log

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// The logging library being used everywhere.
var Log = Logging{
	Logger: "logrus",
}

// -----------------
// This a gologging
// -> github.com/op/go-logging

var gologging = logging.MustGetLogger("media")

func ConfigureGoLogging(level string, configDirectory string, timezone *time.Location) {
	var format = logging.MustStringFormatter(
		`%{color}%{time:15:04:05.000} %{shortfunc} ▶ %{level:.4s} %{id:03x}%{color:reset} %{message}`,
	)
	var fileFormat = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortfunc} ▶ %{level:.4s} %{id:03x} %{message}`,
	)
	stdBackend := logging.NewLogBackend(os.Stderr, "", 0)
	stdBackendLeveled := logging.NewBackendFormatter(stdBackend, format)

	// Rotated log file next to the configuration, so it survives restarts.
	fileBackend := logging.NewLogBackend(&lumberjack.Logger{
		Filename: filepath.Join(configDirectory, "data", "log", "media.txt"),
		MaxSize:  2, // megabytes
		Compress: true,
	}, "", 0)
	fileBackendLeveled := logging.NewBackendFormatter(fileBackend, fileFormat)

	leveled := logging.MultiLogger(stdBackendLeveled, fileBackendLeveled)
	leveled.SetLevel(goLoggingLevel(level), "")
	logging.SetBackend(leveled)
}

func goLoggingLevel(level string) logging.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logging.DEBUG
	case "warning", "warn":
		return logging.WARNING
	case "error":
		return logging.ERROR
	case "fatal":
		return logging.CRITICAL
	}
	return logging.INFO
}

// -----------------
// This a logrus
// -> github.com/sirupsen/logrus

func ConfigureLogrus(level string, timezone *time.Location) {
	// Log as JSON, but stamp entries in the configured timezone.
	logrus.SetFormatter(LocalTimeZoneFormatter{
		Timezone:  timezone,
		Formatter: &logrus.JSONFormatter{},
	})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrusLevel(level))
}

func logrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warning", "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	}
	return logrus.InfoLevel
}

type LocalTimeZoneFormatter struct {
	Timezone  *time.Location
	Formatter logrus.Formatter
}

func (u LocalTimeZoneFormatter) Format(e *logrus.Entry) ([]byte, error) {
	if u.Timezone != nil {
		e.Time = e.Time.In(u.Timezone)
	}
	return u.Formatter.Format(e)
}

type Logging struct {
	Logger string
}

func (self *Logging) Init(level string, configDirectory string, timezone *time.Location) {
	if timezone == nil {
		timezone = time.UTC
	}
	switch self.Logger {
	case "go-logging":
		ConfigureGoLogging(level, configDirectory, timezone)
	case "logrus":
		ConfigureLogrus(level, timezone)
	}
}

func (self *Logging) write(level logrus.Level, sentence string) {
	switch self.Logger {
	case "go-logging":
		switch level {
		case logrus.DebugLevel:
			gologging.Debug(sentence)
		case logrus.WarnLevel:
			gologging.Warning(sentence)
		case logrus.ErrorLevel:
			gologging.Error(sentence)
		case logrus.FatalLevel:
			gologging.Fatal(sentence)
		default:
			gologging.Info(sentence)
		}
	case "logrus":
		logrus.StandardLogger().Log(level, sentence)
		if level == logrus.FatalLevel {
			logrus.StandardLogger().Exit(1)
		}
	}
}

func (self *Logging) Info(sentence string) {
	self.write(logrus.InfoLevel, sentence)
}

func (self *Logging) Warning(sentence string) {
	self.write(logrus.WarnLevel, sentence)
}

func (self *Logging) Debug(sentence string) {
	self.write(logrus.DebugLevel, sentence)
}

func (self *Logging) Error(sentence string) {
	self.write(logrus.ErrorLevel, sentence)
}

func (self *Logging) Fatal(sentence string) {
	self.write(logrus.FatalLevel, sentence)
}
