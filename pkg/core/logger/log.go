package logger

import (
	"context"
	"encoding/json"
	"sync"

	"qrhub/pkg/core/config"
	"qrhub/pkg/core/consts"

	"github.com/openzipkin/zipkin-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

type Log struct {
	*logrus.Entry
}

var (
	log *Log
	mu  sync.Mutex
)

func newLogrus(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logLevel := logrus.InfoLevel
	switch level {
	case "debug":
		logLevel = logrus.DebugLevel
	case "warn":
		logLevel = logrus.WarnLevel
	case "error":
		logLevel = logrus.ErrorLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

func InitLogger(level string) *Log {
	mu.Lock()
	defer mu.Unlock()

	log = &Log{Entry: logrus.NewEntry(newLogrus(level))}
	return log
}

// GetLogger 返回全局日志实例，未初始化时返回 debug 级别的临时实例
func GetLogger() *Log {
	mu.Lock()
	defer mu.Unlock()
	if log != nil {
		return log
	}
	return &Log{Entry: logrus.NewEntry(newLogrus("debug"))}
}

// Send2Cloud 将日志同步推送到阿里云 SLS
func (l *Log) Send2Cloud(appName, host string, config config.LogConfig) {
	l.Entry.Logger.AddHook(NewSlsHook(appName, host, config))
}

func (l *Log) WithField(key string, value interface{}) *Log {
	return &Log{l.Entry.WithField(key, value)}
}

func (l *Log) GetLogger() *logrus.Entry {
	return l.Entry
}

func (l *Log) WithFields(arg interface{}) *Log {
	var jsonMap map[string]interface{}
	bytes, err := json.Marshal(arg)
	if err != nil {
		return l.WithField("arg", arg)
	}
	if err = json.Unmarshal(bytes, &jsonMap); err != nil {
		return l.WithField("arg", arg)
	}
	return &Log{l.Entry.WithFields(jsonMap)}
}

func (l *Log) WithEntryName(entryName string) *Log {
	return l.WithField("EntryName", entryName)
}

func (l *Log) WithErr(err error) *Log {
	if err == nil {
		return l
	}
	return l.WithField("Err", err.Error())
}

func (l *Log) WithTrace(ctx context.Context) *Log {
	if ctx == nil {
		return l
	}
	if span := zipkin.SpanFromContext(ctx); span != nil {
		return l.WithField("TraceId", span.Context().TraceID.String())
	}
	traceID, ok := ctx.Value(consts.TraceKey).(string)
	if !ok {
		traceID = uuid.NewV4().String()
	}
	return l.WithField("TraceId", traceID)
}

func (l *Log) WithOwnerID(ownerID string) *Log {
	return l.WithField("OwnerId", ownerID)
}

func (l *Log) WithQRCodeID(id string) *Log {
	return l.WithField("QRCodeId", id)
}
