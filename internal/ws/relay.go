package ws

import (
	"encoding/json"
	"time"

	"jobnest/internal/domain/notification"
	"jobnest/internal/realtime"
)

const (
	EventNotification = "notification"
	EventConnection   = "connection"
)

// Event is the JSON frame local consumers receive.
type Event struct {
	Type         string                     `json:"type"`
	Notification *notification.Notification `json:"notification,omitempty"`
	Raw          string                     `json:"raw,omitempty"`
	State        string                     `json:"state,omitempty"`
	Timestamp    string                     `json:"timestamp"`
}

// Relay turns upstream notification messages and channel state changes into
// hub broadcasts.
type Relay struct {
	hub *Hub
	now func() time.Time
}

func NewRelay(hub *Hub) *Relay {
	return &Relay{hub: hub, now: time.Now}
}

// Handle is a realtime.Handler.
func (r *Relay) Handle(m realtime.Message) {
	evt := Event{Type: EventNotification}
	if m.Parsed {
		n := m.Notification
		evt.Notification = &n
	} else {
		evt.Raw = m.Raw
	}
	r.publish(evt)
}

func (r *Relay) State(st realtime.ConnState) {
	r.publish(Event{Type: EventConnection, State: st.String()})
}

func (r *Relay) publish(evt Event) {
	if r == nil || r.hub == nil {
		return
	}
	evt.Timestamp = r.now().UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	r.hub.Broadcast(b)
}
