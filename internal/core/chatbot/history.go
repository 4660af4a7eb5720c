package chatbot

import (
	"sync"
	"time"
)

// Roles
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// DefaultHistorySize messages kept per session
const DefaultHistorySize = 5

// defaultMaxSessions sessions kept before the least recently used is evicted
const defaultMaxSessions = 1000

// Message one chat turn
type Message struct {
	ID      int    `json:"id"`
	Role    string `json:"role"`
	Message string `json:"message,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

type session struct {
	messages []Message
	nextID   int
	lastSeen time.Time
}

// History per-session bounded message log
type History struct {
	mu          sync.Mutex
	sessions    map[string]*session
	size        int
	maxSessions int
	now         func() time.Time
}

// NewHistory creates a History keeping size messages per session
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		sessions:    make(map[string]*session),
		size:        size,
		maxSessions: defaultMaxSessions,
		now:         time.Now,
	}
}

// Append records a user turn and its reply, assigning increasing ids, and
// returns both messages plus the retained window oldest first.
func (h *History) Append(sessionID, question, reply string) (Message, Message, []Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		h.evict()
		s = &session{}
		h.sessions[sessionID] = s
	}
	s.lastSeen = h.now()

	user := Message{ID: s.nextID, Role: RoleUser, Message: question}
	bot := Message{ID: s.nextID + 1, Role: RoleBot, Reply: reply}
	s.nextID += 2

	s.messages = append(s.messages, user, bot)
	if over := len(s.messages) - h.size; over > 0 {
		s.messages = append([]Message(nil), s.messages[over:]...)
	}

	window := make([]Message, len(s.messages))
	copy(window, s.messages)
	return user, bot, window
}

// Recent returns the retained window for sessionID
func (h *History) Recent(sessionID string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return []Message{}
	}
	window := make([]Message, len(s.messages))
	copy(window, s.messages)
	return window
}

// evict drops the least recently used session once the limit is reached
func (h *History) evict() {
	if len(h.sessions) < h.maxSessions {
		return
	}
	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range h.sessions {
		if oldestID == "" || s.lastSeen.Before(oldest) {
			oldestID, oldest = id, s.lastSeen
		}
	}
	delete(h.sessions, oldestID)
}
