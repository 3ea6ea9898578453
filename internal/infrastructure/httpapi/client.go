package httpapi

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"

	maxErrorBody = 4096
)

var ErrNilClient = errors.New("nil api client")

type requestIDKey struct{}

// ContextWithRequestID makes outgoing calls reuse id instead of minting one,
// so a gateway request and its backend calls share an X-Request-ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client is the single HTTP client every feature repository calls through.
// It holds the default bearer token the session attaches after login.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if c != nil && hc != nil {
		c.client = hc
	}
	return c
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

func (c *Client) SetToken(token string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) Token() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// WithToken returns a shallow copy that sends token instead of the shared
// default. The gateway uses it to forward a caller's own bearer token.
func (c *Client) WithToken(token string) *Client {
	if c == nil {
		return nil
	}
	return &Client{baseURL: c.baseURL, client: c.client, logger: c.logger, token: strings.TrimSpace(token)}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// PostMultipart uploads a single file under field.
func (c *Client) PostMultipart(ctx context.Context, path, field, fileName, contentType string, content []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.send(ctx, http.MethodPost, path, nil, w.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var rdr io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, contentType, rdr, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	if c == nil {
		return ErrNilClient
	}
	if c.client == nil {
		return errors.New("nil http client")
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	rid := RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}
	req.Header.Set(HeaderRequestID, rid)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+tok)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, Message: messageFromBody(rb)}
		if c.logger != nil && resp.StatusCode >= 500 {
			c.logger.Printf("[API] request failed rid=%s method=%s path=%s status=%d body=%q", rid, method, path, resp.StatusCode, strings.TrimSpace(string(rb)))
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if err := decode(b, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// decode unwraps a paginated {"content": [...]} envelope when the caller
// asked for a plain slice. Non-JSON bodies go to a TextUnmarshaler.
func decode(b []byte, out any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	if !json.Valid(b) {
		if tu, ok := out.(encoding.TextUnmarshaler); ok {
			return tu.UnmarshalText(b)
		}
	}

	if b[0] == '{' && isSlicePtr(out) {
		var env struct {
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(b, &env); err == nil && len(env.Content) > 0 {
			b = env.Content
		}
	}
	return json.Unmarshal(b, out)
}

func isSlicePtr(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Slice
}

func messageFromBody(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		return eb.Error
	}
	s := string(b)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
