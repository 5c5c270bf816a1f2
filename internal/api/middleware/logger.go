package middleware

import (
	"errors"
	"net"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs requests but ignores "broken pipe" errors caused by client disconnects
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next() // Process the request

		for _, e := range c.Errors {
			if isClientDisconnect(e.Err) {
				return
			}
		}

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"status":    status,
			"method":    c.Request.Method,
			"path":      path,
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		if user, ok := CurrentUser(c); ok {
			entry = entry.WithField("user", user.Username)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}

func isClientDisconnect(err error) bool {
	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	var se *os.SyscallError
	if !errors.As(ne.Err, &se) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
