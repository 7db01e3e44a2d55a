package log

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/astaxie/beego/logs"
)

var mlog *logs.BeeLogger

func init() {
	mlog = logs.NewLogger()
	mlog.SetLogger(logs.AdapterConsole)
	mlog.EnableFuncCallDepth(true)
	mlog.SetLogFuncCallDepth(3)
	mlog.Async()
}

type logConfig struct {
	Filename string `json:"filename"`
	Level    int    `json:"level,omitempty"`
	Rotate   bool   `json:"rotate,omitempty"`
	Daily    bool   `json:"daily,omitempty"`
	MaxDays  int64  `json:"maxdays,omitempty"`
}

func validLogLevel(strLevel string) (level int, ok bool) {
	ok = true
	switch strings.ToLower(strLevel) {
	case "emergency":
		level = logs.LevelEmergency
	case "critical":
		level = logs.LevelCritical
	case "error":
		level = logs.LevelError
	case "warn":
		level = logs.LevelWarn
	case "notice":
		level = logs.LevelNotice
	case "info":
		level = logs.LevelInfo
	case "debug":
		level = logs.LevelDebug
	default:
		ok = false
	}
	return
}

// InitLogger routes output to a rotated file under dir in addition to the
// console adapter installed at start-up.
func InitLogger(dir, strLevel string) error {
	level, ok := validLogLevel(strLevel)
	if !ok {
		return fmt.Errorf("mismatch the logLevel %s", strLevel)
	}

	config, err := json.Marshal(logConfig{
		Filename: filepath.Join(dir, "debug.log"),
		Level:    level,
		Rotate:   true,
		Daily:    true,
		MaxDays:  7,
	})
	if err != nil {
		return err
	}
	mlog.SetLevel(level)
	return mlog.SetLogger(logs.AdapterFile, string(config))
}

func GetLogger() *logs.BeeLogger {
	return mlog
}

func Emergency(format string, v ...interface{}) {
	mlog.Emergency(format, v...)
}

func Critical(format string, v ...interface{}) {
	mlog.Critical(format, v...)
}

func Error(format string, v ...interface{}) {
	mlog.Error(format, v...)
}

func Warn(format string, v ...interface{}) {
	mlog.Warn(format, v...)
}

func Notice(format string, v ...interface{}) {
	mlog.Notice(format, v...)
}

func Info(format string, v ...interface{}) {
	mlog.Info(format, v...)
}

func Debug(format string, v ...interface{}) {
	mlog.Debug(format, v...)
}

func Trace(format string, v ...interface{}) {
	mlog.Trace(format, v...)
}
