package main

import (
	"context"
	"fmt"
	"strconv"

	"jobnest/internal/domain/notification"
	"jobnest/internal/realtime"
)

func (cl *cli) notifications(ctx context.Context, args []string) error {
	center := cl.c.Notifications
	sub := "recent"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "recent":
		items, unread, err := center.Refresh(ctx)
		if err != nil {
			return err
		}
		if cl.json {
			return cl.printJSON(map[string]any{"items": items, "unread": unread})
		}
		if err := cl.notificationTable(items); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cl.out, "\n%d unread\n", unread)
		return err

	case "list":
		fs := cl.flags("notifications list")
		p := notification.ListParams{}
		fs.IntVar(&p.Page, "page", 0, "0-based page")
		fs.IntVar(&p.Size, "size", 20, "page size")
		fs.BoolVar(&p.UnreadOnly, "unread", false, "only unread")
		if err := fs.Parse(args); err != nil {
			return err
		}
		items, err := center.List(ctx, p)
		if err != nil {
			return err
		}
		if cl.json {
			return cl.printJSON(items)
		}
		return cl.notificationTable(items)

	case "count":
		n, err := center.UnreadCount(ctx)
		if err != nil {
			return err
		}
		return cl.message(map[string]int64{"count": n}, strconv.FormatInt(n, 10))

	case "read":
		id, err := parseID(args, "notification id")
		if err != nil {
			return err
		}
		if err := center.MarkRead(ctx, id); err != nil {
			return err
		}
		return cl.message(map[string]int64{"read": id}, "Marked as read")

	case "read-all":
		if err := center.MarkAllRead(ctx); err != nil {
			return err
		}
		return cl.message(map[string]bool{"ok": true}, "All notifications marked as read")

	case "delete":
		id, err := parseID(args, "notification id")
		if err != nil {
			return err
		}
		if err := center.Delete(ctx, id); err != nil {
			return err
		}
		return cl.message(map[string]int64{"deleted": id}, "Notification deleted")

	case "watch":
		return cl.watch(ctx)
	}
	return fmt.Errorf("unknown notifications command %q", sub)
}

func (cl *cli) notificationTable(items []notification.Notification) error {
	rows := make([][]string, 0, len(items))
	for _, n := range items {
		unread := ""
		if !n.IsRead {
			unread = "*"
		}
		when := ""
		if n.CreatedAt != nil && !n.CreatedAt.IsZero() {
			when = n.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{unread, itoa(n.ID), when, n.Title, n.Message})
	}
	return cl.table(items, []string{"", "ID", "WHEN", "TITLE", "MESSAGE"}, rows)
}

// watch prints live notifications until interrupted.
func (cl *cli) watch(ctx context.Context) error {
	userID := cl.c.Session.UserID()
	if userID == "" {
		return fmt.Errorf("log in first to receive notifications")
	}

	stop := cl.c.Subscriber.OnState(func(st realtime.ConnState) {
		if !cl.json {
			fmt.Fprintf(cl.out, "[%s]\n", st)
		}
	})
	defer stop()

	return cl.c.Subscriber.Run(ctx, userID, func(m realtime.Message) {
		cl.c.Notifications.Push(m)
		switch {
		case cl.json && m.Parsed:
			_ = cl.printJSON(m.Notification)
		case cl.json:
			_ = cl.printJSON(map[string]string{"raw": m.Raw})
		case m.Parsed:
			fmt.Fprintf(cl.out, "%s  %s\n", m.Notification.Title, m.Notification.Message)
		default:
			fmt.Fprintln(cl.out, m.Raw)
		}
	})
}
