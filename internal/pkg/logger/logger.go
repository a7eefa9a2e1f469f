package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	entryKey        = "logEntry"
	RequestIDHeader = "X-Request-ID"
)

// New builds the application logger. Production uses JSON output.
func New(level string, production bool) *log.Logger {
	l := log.New()

	if production {
		l.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		l.WithField("level", level).Warn("unknown log level, falling back to info")
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}

// Middleware logs one line per request and stores a request-scoped entry on the context.
func Middleware(l log.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := l.WithField("request_id", requestID)
		c.Set(entryKey, entry)

		c.Next()

		fields := log.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if userID, ok := c.Get("userID"); ok {
			fields["user_id"] = userID
		}

		e := entry.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			e.Error("request completed")
		case status >= 400:
			e.Warn("request completed")
		default:
			e.Info("request completed")
		}
	}
}

// FromGin returns the request-scoped entry, or the standard logger when the
// middleware is not installed.
func FromGin(c *gin.Context) log.FieldLogger {
	if v, ok := c.Get(entryKey); ok {
		if e, ok := v.(log.FieldLogger); ok {
			return e
		}
	}
	return log.StandardLogger()
}
