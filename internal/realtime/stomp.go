package realtime

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// STOMP 1.2 commands used by the notification channel.
const (
	CmdConnect     = "CONNECT"
	CmdConnected   = "CONNECTED"
	CmdSubscribe   = "SUBSCRIBE"
	CmdUnsubscribe = "UNSUBSCRIBE"
	CmdDisconnect  = "DISCONNECT"
	CmdMessage     = "MESSAGE"
	CmdReceipt     = "RECEIPT"
	CmdError       = "ERROR"
)

var ErrMalformedFrame = errors.New("malformed stomp frame")

type Header struct {
	Key   string
	Value string
}

// Frame is one STOMP frame. Headers keep their wire order; on repeats the
// first occurrence wins.
type Frame struct {
	Command string
	Headers []Header
	Body    []byte
}

func NewFrame(command string, kv ...string) Frame {
	f := Frame{Command: command}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Headers = append(f.Headers, Header{Key: kv[i], Value: kv[i+1]})
	}
	return f
}

func (f Frame) Header(key string) (string, bool) {
	for _, h := range f.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

var (
	headerEscaper   = strings.NewReplacer(`\`, `\\`, "\r", `\r`, "\n", `\n`, ":", `\c`)
	headerUnescaper = strings.NewReplacer(`\\`, `\`, `\r`, "\r", `\n`, "\n", `\c`, ":")
)

// escapes reports whether header values are escaped for this command.
// CONNECT and CONNECTED are exempt.
func escapes(cmd string) bool {
	return cmd != CmdConnect && cmd != CmdConnected
}

// Encode renders f with a content-length header when it has a body.
func (f Frame) Encode() []byte {
	var b bytes.Buffer
	b.WriteString(f.Command)
	b.WriteByte('\n')

	esc := escapes(f.Command)
	hasLength := false
	for _, h := range f.Headers {
		if h.Key == "content-length" {
			hasLength = true
		}
		if esc {
			b.WriteString(headerEscaper.Replace(h.Key))
			b.WriteByte(':')
			b.WriteString(headerEscaper.Replace(h.Value))
		} else {
			b.WriteString(h.Key)
			b.WriteByte(':')
			b.WriteString(h.Value)
		}
		b.WriteByte('\n')
	}
	if len(f.Body) > 0 && !hasLength {
		b.WriteString("content-length:")
		b.WriteString(strconv.Itoa(len(f.Body)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.Write(f.Body)
	b.WriteByte(0)
	return b.Bytes()
}

// Decode parses every frame in data. A payload of bare end-of-lines is a
// heart-beat and yields no frames.
func Decode(data []byte) ([]Frame, error) {
	var out []Frame
	for {
		data = bytes.TrimLeft(data, "\r\n")
		if len(data) == 0 {
			return out, nil
		}
		f, rest, err := decodeOne(data)
		if err != nil {
			return out, err
		}
		out = append(out, f)
		data = rest
	}
}

func decodeOne(data []byte) (Frame, []byte, error) {
	line, data, ok := cutLine(data)
	if !ok || line == "" {
		return Frame{}, nil, fmt.Errorf("%w: missing command", ErrMalformedFrame)
	}
	f := Frame{Command: line}
	esc := escapes(f.Command)

	length := -1
	for {
		line, data, ok = cutLine(data)
		if !ok {
			return Frame{}, nil, fmt.Errorf("%w: unterminated headers", ErrMalformedFrame)
		}
		if line == "" {
			break
		}
		k, v, found := strings.Cut(line, ":")
		if !found {
			return Frame{}, nil, fmt.Errorf("%w: header %q", ErrMalformedFrame, line)
		}
		if esc {
			k, v = headerUnescaper.Replace(k), headerUnescaper.Replace(v)
		}
		if k == "content-length" && length < 0 {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return Frame{}, nil, fmt.Errorf("%w: content-length %q", ErrMalformedFrame, v)
			}
			length = n
		}
		f.Headers = append(f.Headers, Header{Key: k, Value: v})
	}

	if length >= 0 {
		if len(data) < length+1 || data[length] != 0 {
			return Frame{}, nil, fmt.Errorf("%w: body shorter than content-length", ErrMalformedFrame)
		}
		f.Body = data[:length]
		return f, data[length+1:], nil
	}

	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return Frame{}, nil, fmt.Errorf("%w: missing NUL terminator", ErrMalformedFrame)
	}
	f.Body = data[:i]
	return f, data[i+1:], nil
}

func cutLine(data []byte) (string, []byte, bool) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return "", data, false
	}
	line := data[:i]
	line = bytes.TrimSuffix(line, []byte("\r"))
	return string(line), data[i+1:], true
}
