package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
)

const DefaultNoticeDuration = 3 * time.Second

const (
	MsgDealerCreated = "Dealer created successfully!"
	MsgDealerUpdated = "Dealer updated successfully!"
	MsgDealerDeleted = "Dealer deleted successfully!"
	MsgStorageFailed = "Could not save dealers. Please try again."
	MsgLoadFailed    = "Could not load dealers. Please try again."
	MsgDealerMissing = "Dealer Not Found"
)

// ImportedMessage is the notice posted after a bulk import.
func ImportedMessage(n int) string {
	if n == 1 {
		return "1 dealer imported successfully!"
	}
	return fmt.Sprintf("%d dealers imported successfully!", n)
}

// Notice is a transient message shown after an action.
type Notice struct {
	ID        int64       `json:"id"`
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	PostedAt  time.Time   `json:"posted_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

const currentNoticeKey = "current"

// NoticeBoard holds at most one notice. Posting replaces the current one,
// and a notice disappears on its own once its duration has passed.
type NoticeBoard struct {
	mu       sync.Mutex
	items    *cache.Cache
	duration time.Duration
	seq      int64
}

func NewNoticeBoard(duration time.Duration) *NoticeBoard {
	if duration <= 0 {
		duration = DefaultNoticeDuration
	}
	return &NoticeBoard{
		items:    cache.New(duration, time.Minute),
		duration: duration,
	}
}

func (b *NoticeBoard) Post(level NoticeLevel, message string) Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	now := time.Now()
	n := Notice{
		ID:        b.seq,
		Level:     level,
		Message:   message,
		PostedAt:  now,
		ExpiresAt: now.Add(b.duration),
	}
	b.items.Set(currentNoticeKey, n, b.duration)
	return n
}

// Current returns the live notice, if any.
func (b *NoticeBoard) Current() (Notice, bool) {
	v, ok := b.items.Get(currentNoticeKey)
	if !ok {
		return Notice{}, false
	}
	return v.(Notice), true
}

// Dismiss clears the notice early.
func (b *NoticeBoard) Dismiss() {
	b.items.Delete(currentNoticeKey)
}
