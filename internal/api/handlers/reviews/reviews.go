package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"meal-deals/internal/core/menu"
	"meal-deals/internal/core/reviews"
	"meal-deals/internal/pkg/common"
	"meal-deals/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second
	readWait  = 60 * time.Second
)

// Streamer review listing and sentiment streaming
type Streamer interface {
	Menu(ctx context.Context) ([]menu.ReviewedItem, error)
	Stream(ctx context.Context, filter reviews.Sentiment, send func(reviews.Match) error) (int, error)
}

// filterMessage first client frame
type filterMessage struct {
	Filter string `json:"filter"`
}

type errorFrame struct {
	Error string `json:"error"`
}

type completeFrame struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler review endpoints
type Handler struct {
	svc      Streamer
	debug    bool
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler accepting websocket origins from allowedOrigins
func NewHandler(svc Streamer, allowedOrigins []string, debug bool) *Handler {
	h := &Handler{svc: svc, debug: debug}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      originChecker(allowedOrigins),
	}
	return h
}

// originChecker allows requests without Origin (non-browser clients) and
// origins listed in allowed, "*" matching any
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		common.LogWarn("websocket origin rejected", zap.String("origin", origin))
		return false
	}
}

// HandleMenu GET /api/reviews/menu
func (h *Handler) HandleMenu(c *gin.Context) {
	items, err := h.svc.Menu(c.Request.Context())
	if err != nil {
		common.LogError("reviewed menu unavailable", zap.Error(err))
		common.WriteError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"menu":   items,
	})
}

// HandleSentimentStream GET /api/reviews/ws/sentiment. The client sends one
// filter frame; matching reviews are streamed back followed by a completion frame.
func (h *Handler) HandleSentimentStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		common.LogWarn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.WebSocketConnections.Inc()
	defer metrics.WebSocketConnections.Dec()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	_, data, err := conn.ReadMessage()
	if err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			common.LogDebug("websocket read failed", zap.Error(err))
		}
		return
	}

	var msg filterMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.fail(conn, "Invalid JSON format")
		return
	}
	filter, ok := reviews.ParseFilter(msg.Filter)
	if !ok {
		h.fail(conn, "Invalid filter. Must be 'positive' or 'negative'")
		return
	}

	// a client close cancels the stream
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	sent, err := h.svc.Stream(ctx, filter, func(m reviews.Match) error {
		return writeJSON(conn, m)
	})
	switch {
	case errors.Is(err, reviews.ErrNoMenuData):
		h.fail(conn, "No menu data available")
		return
	case errors.Is(err, context.Canceled):
		common.LogDebug("websocket client disconnected", zap.Int("sent", sent))
		return
	case err != nil:
		common.LogError("review stream failed", zap.Error(err), zap.Int("sent", sent))
		h.fail(conn, "Server error: "+common.AsCustomError(err).Message)
		return
	}

	if err := writeJSON(conn, completeFrame{
		Status:  "complete",
		Message: fmt.Sprintf("Finished streaming %s reviews", filter),
	}); err != nil {
		return
	}
	closeNormally(conn)
}

// fail sends an error frame and closes the connection
func (h *Handler) fail(conn *websocket.Conn, message string) {
	if err := writeJSON(conn, errorFrame{Error: message}); err != nil {
		return
	}
	closeNormally(conn)
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func closeNormally(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
