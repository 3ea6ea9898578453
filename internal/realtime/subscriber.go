package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"jobnest/internal/config"
	"jobnest/internal/domain/notification"
)

const (
	subscriptionID = "sub-0"
	writeWait      = 10 * time.Second
	handshakeWait  = 10 * time.Second

	// heartbeat is what CONNECT offers in both directions.
	heartbeat = 10 * time.Second
	// idleWait bounds a silent read when the broker promises no heart-beats;
	// pings at half of it keep a healthy peer answering.
	idleWait = 30 * time.Second
)

var (
	ErrRetriesExhausted = errors.New("realtime: reconnect retries exhausted")
	ErrBrokerRejected   = errors.New("realtime: broker rejected connection")
)

// Topic is the per-user notification destination.
func Topic(userID string) string {
	return "/topic/notifications/" + userID
}

// Message is one delivered notification. Parsed is false when the body was
// not a JSON notification; Raw always holds the body text.
type Message struct {
	Destination  string
	Raw          string
	Notification notification.Notification
	Parsed       bool
}

type Handler func(Message)

type ConnState int

const (
	StateIdle ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("ConnState(%d)", int(s))
	}
}

// TokenSource returns the bearer token to present on CONNECT. It is asked
// again before every reconnect.
type TokenSource func() string

type Subscriber struct {
	url          string
	reconnectMin time.Duration
	reconnectMax time.Duration
	maxRetries   int

	dialer *websocket.Dialer
	token  TokenSource
	logger *log.Logger

	heartbeat time.Duration
	idleWait  time.Duration

	mu        sync.Mutex
	state     ConnState
	listeners map[int]func(ConnState)
	nextID    int

	pending  string
	switchCh chan struct{}
}

func NewSubscriber(cfg config.RealtimeConfig, token TokenSource, logger *log.Logger) *Subscriber {
	lo, hi := cfg.ReconnectMin, cfg.ReconnectMax
	if lo <= 0 {
		lo = 500 * time.Millisecond
	}
	if hi < lo {
		hi = lo
	}
	return &Subscriber{
		url:          strings.TrimSpace(cfg.URL),
		reconnectMin: lo,
		reconnectMax: hi,
		maxRetries:   cfg.MaxRetries,
		dialer:       &websocket.Dialer{HandshakeTimeout: handshakeWait, Proxy: http.ProxyFromEnvironment},
		token:        token,
		logger:       logger,
		heartbeat:    heartbeat,
		idleWait:     idleWait,
		listeners:    make(map[int]func(ConnState)),
		switchCh:     make(chan struct{}, 1),
	}
}

func (s *Subscriber) State() ConnState {
	if s == nil {
		return StateIdle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnState registers fn for state transitions and returns a func that removes it.
func (s *Subscriber) OnState(fn func(ConnState)) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Subscriber) setState(st ConnState) {
	s.mu.Lock()
	if s.state == st {
		s.mu.Unlock()
		return
	}
	s.state = st
	fns := make([]func(ConnState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Switch moves a running subscription to another identity. An empty id ends
// the subscription.
func (s *Subscriber) Switch(userID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.pending = strings.TrimSpace(userID)
	s.mu.Unlock()
	select {
	case s.switchCh <- struct{}{}:
	default:
	}
}

func (s *Subscriber) takeSwitch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Run keeps one subscription for userID alive until ctx ends, reconnecting
// with backoff. It returns nil immediately for an empty identity.
func (s *Subscriber) Run(ctx context.Context, userID string, h Handler) error {
	userID = strings.TrimSpace(userID)
	if s == nil || userID == "" {
		return nil
	}
	if h == nil {
		h = func(Message) {}
	}
	if _, err := url.Parse(s.url); err != nil || s.url == "" {
		return fmt.Errorf("realtime: invalid url %q", s.url)
	}

	defer s.setState(StateClosed)

	policy := s.policy()
	current := userID
	attempt := 0
	for {
		// a Switch that landed before this run started, or while it slept,
		// wins over the id it was started with
		select {
		case <-s.switchCh:
			id := s.takeSwitch()
			if id == "" {
				return nil
			}
			if id != current {
				current = id
				attempt = 0
				policy.Reset()
			}
		default:
		}

		if attempt == 0 {
			s.setState(StateConnecting)
		} else {
			s.setState(StateReconnecting)
		}

		connected, next, err := s.session(ctx, current, h)
		if ctx.Err() != nil {
			return nil
		}
		if next != nil {
			if *next == "" {
				return nil
			}
			current = *next
			attempt = 0
			policy.Reset()
			continue
		}
		if connected {
			attempt = 0
			policy.Reset()
		}
		attempt++
		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			s.logf("[Realtime] giving up user=%s attempts=%d err=%v", current, attempt-1, err)
			return fmt.Errorf("%w: %v", ErrRetriesExhausted, err)
		}
		wait = min(max(wait, s.reconnectMin), s.reconnectMax)
		s.logf("[Realtime] connection lost user=%s attempt=%d retry_in=%s err=%v", current, attempt, wait, err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.switchCh:
			timer.Stop()
			id := s.takeSwitch()
			if id == "" {
				return nil
			}
			current = id
			attempt = 0
			policy.Reset()
		case <-timer.C:
		}
	}
}

// policy doubles the delay from reconnectMin toward reconnectMax with half
// of each step randomized, and stops after maxRetries when that is set.
func (s *Subscriber) policy() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.reconnectMin
	eb.MaxInterval = s.reconnectMax
	eb.Multiplier = 2
	eb.RandomizationFactor = 0.5
	eb.MaxElapsedTime = 0

	var b backoff.BackOff = eb
	if s.maxRetries > 0 {
		b = backoff.WithMaxRetries(eb, uint64(s.maxRetries))
	}
	b.Reset()
	return b
}

// session runs a single connection. connected reports whether the broker
// accepted the subscription; next is set when Switch interrupted it.
func (s *Subscriber) session(ctx context.Context, userID string, h Handler) (connected bool, next *string, err error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, nil, err
	}
	defer conn.Close()

	beat, silence, err := s.handshake(conn, userID)
	if err != nil {
		return false, nil, err
	}
	s.setState(StateConnected)

	_ = conn.SetReadDeadline(time.Now().Add(silence))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(silence))
	})

	stop := make(chan struct{})
	beating := make(chan struct{})
	go func() {
		defer close(beating)
		s.keepalive(conn, beat, silence, stop)
	}()
	halt := sync.OnceFunc(func() {
		close(stop)
		<-beating
	})
	defer halt()

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop(conn, silence, h)
	}()

	select {
	case <-ctx.Done():
		halt()
		s.disconnect(conn)
		<-readErr
		return true, nil, ctx.Err()
	case <-s.switchCh:
		id := s.takeSwitch()
		halt()
		s.disconnect(conn)
		<-readErr
		return true, &id, nil
	case err := <-readErr:
		return true, nil, err
	}
}

// keepalive sends STOMP heart-beats every beat when the broker asked for
// them, and websocket pings otherwise so the pong handler keeps the read
// deadline moving.
func (s *Subscriber) keepalive(conn *websocket.Conn, beat, silence time.Duration, stop <-chan struct{}) {
	every := beat
	if every <= 0 {
		every = silence / 2
	}
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			var err error
			if beat > 0 {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				err = conn.WriteMessage(websocket.TextMessage, []byte("\n"))
			} else {
				err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			}
			if err != nil {
				return
			}
		}
	}
}

// handshake connects and subscribes. It returns how often to send
// heart-beats (zero for none) and how long a read may stay silent.
func (s *Subscriber) handshake(conn *websocket.Conn, userID string) (beat, silence time.Duration, err error) {
	host := ""
	if u, err := url.Parse(s.url); err == nil {
		host = u.Hostname()
	}
	offer := strconv.FormatInt(s.heartbeat.Milliseconds(), 10)
	connect := NewFrame(CmdConnect, "accept-version", "1.2", "host", host, "heart-beat", offer+","+offer)
	if s.token != nil {
		if tok := strings.TrimSpace(s.token()); tok != "" {
			connect.Headers = append(connect.Headers, Header{Key: "Authorization", Value: "Bearer " + tok})
		}
	}
	if err := writeFrame(conn, connect); err != nil {
		return 0, 0, err
	}

	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	var connected Frame
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return 0, 0, err
		}
		frames, err := Decode(data)
		if err != nil {
			return 0, 0, err
		}
		if len(frames) == 0 {
			continue
		}
		connected = frames[0]
		if connected.Command == CmdError {
			msg, _ := connected.Header("message")
			return 0, 0, fmt.Errorf("%w: %s", ErrBrokerRejected, msg)
		}
		if connected.Command != CmdConnected {
			return 0, 0, fmt.Errorf("%w: unexpected %s", ErrBrokerRejected, connected.Command)
		}
		break
	}

	beat, silence = s.negotiate(connected)
	sub := NewFrame(CmdSubscribe, "id", subscriptionID, "destination", Topic(userID), "ack", "auto")
	return beat, silence, writeFrame(conn, sub)
}

// negotiate reads the broker's "sx,sy" heart-beat reply against our offer.
// The broker's own beats are allowed to arrive twice as late before the
// connection counts as dead.
func (s *Subscriber) negotiate(connected Frame) (beat, silence time.Duration) {
	silence = s.idleWait
	v, ok := connected.Header("heart-beat")
	if !ok || s.heartbeat <= 0 {
		return 0, silence
	}
	sx, sy, ok := strings.Cut(v, ",")
	if !ok {
		return 0, silence
	}
	if ms, err := strconv.ParseInt(strings.TrimSpace(sy), 10, 64); err == nil && ms > 0 {
		beat = max(s.heartbeat, time.Duration(ms)*time.Millisecond)
	}
	if ms, err := strconv.ParseInt(strings.TrimSpace(sx), 10, 64); err == nil && ms > 0 {
		silence = 2 * max(s.heartbeat, time.Duration(ms)*time.Millisecond)
	}
	return beat, silence
}

func (s *Subscriber) readLoop(conn *websocket.Conn, silence time.Duration, h Handler) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(silence))
		frames, err := Decode(data)
		if err != nil {
			s.logf("[Realtime] dropping frame err=%v", err)
			continue
		}
		for _, f := range frames {
			switch f.Command {
			case CmdMessage:
				h(toMessage(f))
			case CmdError:
				msg, _ := f.Header("message")
				return fmt.Errorf("%w: %s", ErrBrokerRejected, msg)
			}
		}
	}
}

func (s *Subscriber) disconnect(conn *websocket.Conn) {
	_ = writeFrame(conn, NewFrame(CmdUnsubscribe, "id", subscriptionID))
	_ = writeFrame(conn, NewFrame(CmdDisconnect))
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	_ = conn.Close()
}

func (s *Subscriber) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func writeFrame(conn *websocket.Conn, f Frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, f.Encode())
}

func toMessage(f Frame) Message {
	dest, _ := f.Header("destination")
	m := Message{Destination: dest, Raw: string(f.Body)}
	var n notification.Notification
	if err := json.Unmarshal(f.Body, &n); err == nil && (n.ID != 0 || strings.TrimSpace(n.Message) != "") {
		m.Notification = n
		m.Parsed = true
	}
	return m
}
