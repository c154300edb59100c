package notifyfeed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader is the subset of *kafka.Reader used by the feed.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var retryBackoff = time.Second

// Feed fans pushed notification events out to per-user subscribers.
// A feed without a reader accepts subscriptions but never signals them.
type Feed struct {
	reader Reader
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[int64]map[uint64]chan struct{}
	nextID uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a feed reading from reader. reader may be nil.
func New(reader Reader, logger *slog.Logger) *Feed {
	return &Feed{
		reader: reader,
		logger: logger,
		subs:   make(map[int64]map[uint64]chan struct{}),
	}
}

// Enabled reports whether the feed is backed by a broker.
func (f *Feed) Enabled() bool {
	return f.reader != nil
}

// Subscribe registers interest in events for userID.
// Signals are coalesced: a subscriber that has not drained its channel
// receives one pending wake-up regardless of how many events arrived.
func (f *Feed) Subscribe(userID int64) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	if f.subs[userID] == nil {
		f.subs[userID] = make(map[uint64]chan struct{})
	}
	f.subs[userID][id] = ch
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs[userID], id)
			if len(f.subs[userID]) == 0 {
				delete(f.subs, userID)
			}
		})
	}
}

// Start launches the consume loop. It is a no-op without a reader.
func (f *Feed) Start(ctx context.Context) {
	if f.reader == nil || f.done != nil {
		return
	}
	ctx, f.cancel = context.WithCancel(ctx)
	f.done = make(chan struct{})
	go f.run(ctx)
}

// Stop terminates the consume loop and closes the reader.
func (f *Feed) Stop(ctx context.Context) error {
	if f.reader == nil {
		return nil
	}
	if f.cancel != nil {
		f.cancel()
		select {
		case <-f.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.reader.Close()
}

func (f *Feed) run(ctx context.Context) {
	defer close(f.done)
	for {
		msg, err := f.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			f.logger.Warn("notification feed fetch failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryBackoff):
			}
			continue
		}

		if userID, ok := userIDOf(msg); ok {
			f.notify(userID)
		} else {
			f.logger.Warn("notification feed message without user",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
		}

		if err := f.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			f.logger.Warn("notification feed commit failed", slog.String("error", err.Error()))
		}
	}
}

func (f *Feed) notify(userID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

type event struct {
	UserID int64 `json:"userId"`
}

// userIDOf reads the recipient from the message key, falling back to the payload.
func userIDOf(msg kafka.Message) (int64, bool) {
	if key := strings.TrimSpace(string(msg.Key)); key != "" {
		if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
			return id, true
		}
	}
	var e event
	if err := json.Unmarshal(msg.Value, &e); err == nil && e.UserID > 0 {
		return e.UserID, true
	}
	return 0, false
}
