package usecase

import (
	"context"
	"log"
	"sync"

	"jobnest/internal/domain/notification"
	"jobnest/internal/realtime"
	"jobnest/internal/repository"
)

// NotificationCenter is the bell: a recent list and unread count kept in
// step with both REST calls and live pushes.
type NotificationCenter struct {
	repo   repository.NotificationRepository
	logger *log.Logger
	limit  int

	mu     sync.Mutex
	items  []notification.Notification
	unread int64
	// gen changes on Reset; a Refresh started before it is discarded.
	gen uint64
}

func NewNotificationCenter(repo repository.NotificationRepository, limit int, logger *log.Logger) *NotificationCenter {
	if limit <= 0 {
		limit = 20
	}
	return &NotificationCenter{repo: repo, limit: limit, logger: logger}
}

// Refresh reloads the recent list and the unread count. If Reset runs while
// the calls are in flight their result is returned but not kept.
func (n *NotificationCenter) Refresh(ctx context.Context) ([]notification.Notification, int64, error) {
	n.mu.Lock()
	gen := n.gen
	n.mu.Unlock()

	page, err := n.repo.List(ctx, notification.ListParams{Page: 0, Size: n.limit})
	if err != nil {
		return nil, 0, err
	}
	count, err := n.repo.UnreadCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	items := nonNil(page.Content)
	n.mu.Lock()
	if n.gen == gen {
		n.items = items
		n.unread = count
		items = n.copyLocked()
	}
	n.mu.Unlock()
	return items, count, nil
}

// Reset forgets the cached list and count, for when the signed-in user
// changes.
func (n *NotificationCenter) Reset() {
	n.mu.Lock()
	n.items = nil
	n.unread = 0
	n.gen++
	n.mu.Unlock()
}

func (n *NotificationCenter) List(ctx context.Context, params notification.ListParams) ([]notification.Notification, error) {
	page, err := n.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return nonNil(page.Content), nil
}

func (n *NotificationCenter) Get(ctx context.Context, id int64) (notification.Notification, error) {
	return n.repo.Get(ctx, id)
}

// Snapshot returns the cached list and count without a network call.
func (n *NotificationCenter) Snapshot() ([]notification.Notification, int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.copyLocked(), n.unread
}

// Push is a realtime.Handler: parsed notifications go to the top of the
// list and bump the unread count. Raw payloads are only logged.
func (n *NotificationCenter) Push(m realtime.Message) {
	if !m.Parsed {
		if n.logger != nil {
			n.logger.Printf("[Notifications] raw message received body=%q", m.Raw)
		}
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	items := make([]notification.Notification, 0, len(n.items)+1)
	items = append(items, m.Notification)
	for _, it := range n.items {
		if it.ID != 0 && it.ID == m.Notification.ID {
			continue
		}
		items = append(items, it)
	}
	if len(items) > n.limit {
		items = items[:n.limit]
	}
	n.items = items
	if !m.Notification.IsRead {
		n.unread++
	}
}

func (n *NotificationCenter) MarkRead(ctx context.Context, id int64) error {
	if err := n.repo.MarkRead(ctx, id); err != nil {
		return err
	}
	n.mu.Lock()
	for i := range n.items {
		if n.items[i].ID == id && !n.items[i].IsRead {
			n.items[i].IsRead = true
			if n.unread > 0 {
				n.unread--
			}
		}
	}
	n.mu.Unlock()
	return nil
}

func (n *NotificationCenter) MarkAllRead(ctx context.Context) error {
	if err := n.repo.MarkAllRead(ctx); err != nil {
		return err
	}
	n.mu.Lock()
	for i := range n.items {
		n.items[i].IsRead = true
	}
	n.unread = 0
	n.mu.Unlock()
	return nil
}

func (n *NotificationCenter) Delete(ctx context.Context, id int64) error {
	if err := n.repo.Delete(ctx, id); err != nil {
		return err
	}
	n.mu.Lock()
	kept := n.items[:0]
	for _, it := range n.items {
		if it.ID == id {
			if !it.IsRead && n.unread > 0 {
				n.unread--
			}
			continue
		}
		kept = append(kept, it)
	}
	n.items = kept
	n.mu.Unlock()
	return nil
}

func (n *NotificationCenter) UnreadCount(ctx context.Context) (int64, error) {
	n.mu.Lock()
	gen := n.gen
	n.mu.Unlock()

	count, err := n.repo.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}
	n.mu.Lock()
	if n.gen == gen {
		n.unread = count
	}
	n.mu.Unlock()
	return count, nil
}

func (n *NotificationCenter) UpdatePreferences(ctx context.Context, pref notification.Preference) (notification.Preference, error) {
	return n.repo.UpdatePreferences(ctx, pref)
}

// copyLocked keeps nil distinct from empty: nil means never loaded.
func (n *NotificationCenter) copyLocked() []notification.Notification {
	if n.items == nil {
		return nil
	}
	out := make([]notification.Notification, len(n.items))
	copy(out, n.items)
	return out
}
