package service

import (
	"sync"
	"time"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/infra/clock"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/metric"
)

// Notifier holds at most one live notification.
//
// A new notification replaces the live one immediately and restarts the
// expiry timer. The previous timer is stopped, and each timer also
// carries the generation it was armed for, so a timer that already
// fired can never clear a newer notification.
type Notifier struct {
	clock   clock.Clock
	ttl     time.Duration
	logger  logger.Logger
	metrics *metric.Registry

	mu    sync.Mutex
	live  *domain.Notification
	gen   uint64
	timer clock.Timer
	seq   uint64

	subs broadcaster[*domain.Notification]
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithTTL sets how long a notification stays live.
func WithTTL(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		if d > 0 {
			n.ttl = d
		}
	}
}

// WithClock sets the time source.
func WithClock(c clock.Clock) NotifierOption {
	return func(n *Notifier) {
		n.clock = c
	}
}

// WithNotifierLogger sets the logger.
func WithNotifierLogger(l logger.Logger) NotifierOption {
	return func(n *Notifier) {
		n.logger = l
	}
}

// WithNotifierMetrics counts posted notifications on r.
func WithNotifierMetrics(r *metric.Registry) NotifierOption {
	return func(n *Notifier) {
		n.metrics = r
	}
}

// NewNotifier creates an empty notifier.
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		clock:  clock.System(),
		ttl:    domain.DefaultNotificationTTL,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify makes a notification live, replacing any current one.
// Unknown kinds are posted as info.
func (n *Notifier) Notify(kind domain.NotificationKind, title, message string) domain.Notification {
	if !kind.Valid() {
		n.logger.Warn("unknown notification kind", "kind", kind)
		kind = domain.NotificationInfo
	}

	n.mu.Lock()
	note := domain.Notification{
		Kind:     kind,
		Title:    title,
		Message:  message,
		PostedAt: n.clock.Now(),
	}
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = n.clock.AfterFunc(n.ttl, func() { n.expire(gen) })
	n.live = &note
	n.seq++
	seq := n.seq
	n.mu.Unlock()

	n.metrics.NotificationPosted(string(kind))
	snapshot := note
	n.subs.publish(seq, &snapshot)
	return note
}

// Success posts a success notification.
func (n *Notifier) Success(title, message string) domain.Notification {
	return n.Notify(domain.NotificationSuccess, title, message)
}

// Error posts an error notification.
func (n *Notifier) Error(title, message string) domain.Notification {
	return n.Notify(domain.NotificationError, title, message)
}

// Info posts an info notification.
func (n *Notifier) Info(title, message string) domain.Notification {
	return n.Notify(domain.NotificationInfo, title, message)
}

// Current returns the live notification, if any.
func (n *Notifier) Current() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.live == nil {
		return domain.Notification{}, false
	}
	return *n.live, true
}

// Subscribe registers fn for every change of the live slot. fn receives
// nil when the slot empties. The returned function cancels it.
func (n *Notifier) Subscribe(fn func(*domain.Notification)) (cancel func()) {
	_, cancel = n.Observe(fn)
	return cancel
}

// Observe returns the live notification (nil if none) and subscribes fn
// to every change after it.
func (n *Notifier) Observe(fn func(*domain.Notification)) (*domain.Notification, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var cur *domain.Notification
	if n.live != nil {
		c := *n.live
		cur = &c
	}
	return cur, n.subs.subscribe(fn, n.seq)
}

// Clear empties the slot and cancels the pending expiry.
func (n *Notifier) Clear() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	if n.live == nil {
		n.mu.Unlock()
		return
	}
	n.live = nil
	n.seq++
	seq := n.seq
	n.mu.Unlock()

	n.subs.publish(seq, nil)
}

// expire clears the slot if it still holds generation gen.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.live == nil {
		n.mu.Unlock()
		return
	}
	n.live = nil
	n.timer = nil
	n.seq++
	seq := n.seq
	n.mu.Unlock()

	n.subs.publish(seq, nil)
}
