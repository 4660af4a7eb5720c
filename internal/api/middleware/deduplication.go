package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"meal-deals/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// defaultDedupWindow used when no window is configured
const defaultDedupWindow = time.Second

var errDuplicateRequest = common.NewError(common.ErrCodeTooManyRequests, "request too frequent", http.StatusTooManyRequests, nil)

// Deduplicator rejects identical POST requests repeated within a window
type Deduplicator struct {
	mu        sync.Mutex
	requests  map[string]time.Time
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewDeduplicator creates a Deduplicator
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Deduplicator{
		requests: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
	}
}

// seen records fingerprint and reports whether it was already seen within the window
func (d *Deduplicator) seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if now.Sub(d.lastSweep) > 10*d.window {
		for k, t := range d.requests {
			if now.Sub(t) > d.window {
				delete(d.requests, k)
			}
		}
		d.lastSweep = now
	}

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Handler middleware form, only POST requests are fingerprinted
func (d *Deduplicator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + c.GetHeader("Authorization")
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("failed to read request body", zap.Error(err))
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					common.WriteError(c, errBodyTooLarge, false)
				} else {
					common.WriteError(c, common.ErrInvalidRequest.Wrap(err), false)
				}
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if d.seen(fingerprint) {
			common.WriteError(c, errDuplicateRequest, false)
			return
		}

		c.Next()
	}
}
