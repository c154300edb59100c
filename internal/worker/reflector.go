package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/vinylstore/internal/adapter/storeapi"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// PushFeed delivers wake-up signals when new notifications exist for a user.
type PushFeed interface {
	Subscribe(userID int64) (<-chan struct{}, func())
}

// NotificationState is the cached notification list and unread counter of a session.
type NotificationState struct {
	Notifications []model.Notification
	UnreadCount   int
	RefreshedAt   time.Time
}

// Reflector mirrors the notifications of one session. It refreshes on a fixed
// interval and whenever the push feed signals new events.
type Reflector struct {
	source   repository.NotificationSource
	feed     PushFeed
	session  model.Session
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	stateMu sync.RWMutex
	state   NotificationState

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReflector constructs a reflector for session. feed may be nil.
func NewReflector(source repository.NotificationSource, feed PushFeed, session model.Session, interval time.Duration, logger *slog.Logger) *Reflector {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Reflector{
		source:   source,
		feed:     feed,
		session:  session,
		interval: interval,
		logger:   logger.With(slog.Int64("user_id", session.UserID)),
		now:      time.Now,
	}
}

// Session returns the session the reflector acts for.
func (r *Reflector) Session() model.Session {
	return r.session
}

// Start launches the refresh loop. Calling Start on a running reflector is a no-op.
func (r *Reflector) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	var (
		push        <-chan struct{}
		unsubscribe = func() {}
	)
	if r.feed != nil {
		push, unsubscribe = r.feed.Subscribe(r.session.UserID)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer unsubscribe()
		r.loop(runCtx, push)
	}()
}

// Stop cancels the refresh loop and waits for it to exit.
func (r *Reflector) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reflector) loop(ctx context.Context, push <-chan struct{}) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-push:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		next := r.interval
		if err := r.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			var tm storeapi.TooManyRequestsError
			if errors.As(err, &tm) && tm.RetryAfter > next {
				next = tm.RetryAfter
			}
		}
		timer.Reset(next)
	}
}

// Refresh fetches the list and unread count concurrently and replaces the
// cached copies wholesale. On failure the previous copies are kept.
func (r *Reflector) Refresh(ctx context.Context) error {
	var (
		list   []model.Notification
		unread int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = r.source.Notifications(gctx, r.session)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = r.source.UnreadCount(gctx, r.session)
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() == nil {
			level := slog.LevelError
			if storeapi.IsRetryable(err) {
				level = slog.LevelWarn
			}
			r.logger.Log(ctx, level, "notification refresh failed", slog.String("error", err.Error()))
		}
		return err
	}

	r.stateMu.Lock()
	r.state = NotificationState{Notifications: list, UnreadCount: unread, RefreshedAt: r.now()}
	r.stateMu.Unlock()
	return nil
}

// Snapshot returns a copy of the cached state.
func (r *Reflector) Snapshot() NotificationState {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	state := r.state
	state.Notifications = append([]model.Notification(nil), r.state.Notifications...)
	return state
}

// MarkAsRead flips the notification locally, issues the mutation and refreshes
// list and count. A failed mutation restores the previous state.
func (r *Reflector) MarkAsRead(ctx context.Context, notificationID int64) error {
	r.stateMu.Lock()
	previous := r.state
	optimistic := previous
	optimistic.Notifications = append([]model.Notification(nil), previous.Notifications...)
	for i := range optimistic.Notifications {
		if optimistic.Notifications[i].ID == notificationID && !optimistic.Notifications[i].IsRead {
			optimistic.Notifications[i].IsRead = true
			if optimistic.UnreadCount > 0 {
				optimistic.UnreadCount--
			}
		}
	}
	r.state = optimistic
	r.stateMu.Unlock()

	if err := r.source.MarkAsRead(ctx, r.session, notificationID); err != nil {
		r.stateMu.Lock()
		r.state = previous
		r.stateMu.Unlock()
		r.logger.Warn("mark notification read failed",
			slog.Int64("notification_id", notificationID),
			slog.String("error", err.Error()),
		)
		return err
	}

	// A failed refresh keeps the optimistic copy until the next cycle.
	_ = r.Refresh(ctx)
	return nil
}
