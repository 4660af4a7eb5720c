package chatbot

import (
	"fmt"
	"testing"
	"time"
)

func TestHistoryRing(t *testing.T) {
	h := NewHistory(5)

	for i := 0; i < 3; i++ {
		user, bot, window := h.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		if user.ID != 2*i || bot.ID != 2*i+1 {
			t.Fatalf("turn %d ids = %d, %d", i, user.ID, bot.ID)
		}
		if user.Role != RoleUser || bot.Role != RoleBot || bot.Reply != fmt.Sprintf("a%d", i) {
			t.Fatalf("turn %d messages = %+v %+v", i, user, bot)
		}
		if want := min(2*(i+1), 5); len(window) != want {
			t.Fatalf("turn %d window = %d, want %d", i, len(window), want)
		}
	}

	window := h.Recent("s1")
	if window[0].ID != 1 || window[4].ID != 5 {
		t.Fatalf("window = %+v", window)
	}

	// sessions do not share ids or messages
	user, _, other := h.Append("s2", "hello", "hi")
	if user.ID != 0 || len(other) != 2 {
		t.Fatalf("second session = %+v", other)
	}
	if got := h.Recent("unknown"); len(got) != 0 || got == nil {
		t.Fatalf("Recent(unknown) = %+v", got)
	}
}

func TestHistoryEvictsLeastRecentSession(t *testing.T) {
	h := NewHistory(5)
	h.maxSessions = 2
	clock := time.Unix(0, 0)
	h.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	h.Append("a", "q", "r")
	h.Append("b", "q", "r")
	h.Append("a", "q", "r")
	h.Append("c", "q", "r")

	if len(h.Recent("b")) != 0 {
		t.Error("session b should have been evicted")
	}
	if len(h.Recent("a")) != 4 || len(h.Recent("c")) != 2 {
		t.Error("sessions a and c should be kept")
	}
}
