package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestClient_AttachesBearerOnlyWhenTokenSet(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get(HeaderAuthorization))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	require.NoError(t, c.Get(context.Background(), "/ping", nil, nil))

	c.SetToken("abc")
	require.NoError(t, c.Get(context.Background(), "/ping", nil, nil))

	c.ClearToken()
	require.NoError(t, c.Get(context.Background(), "/ping", nil, nil))

	assert.Equal(t, []string{"", "Bearer abc", ""}, auth)
}

func TestClient_ReusesRequestIDFromContext(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(HeaderRequestID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	ctx := ContextWithRequestID(context.Background(), "rid-42")
	require.NoError(t, c.Get(ctx, "/ping", nil, nil))
	assert.Equal(t, "rid-42", got)
}

func TestClient_QueryAndJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/jobs", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("size"))
			_ = json.NewEncoder(w).Encode([]item{{ID: 1, Title: "Go Dev"}})
		case http.MethodPost:
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "hello", in["title"])
			_ = json.NewEncoder(w).Encode(item{ID: 7, Title: in["title"]})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", time.Second, nil)

	var list []item
	require.NoError(t, c.Get(context.Background(), "jobs", url.Values{"size": {"100"}}, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Go Dev", list[0].Title)

	var created item
	require.NoError(t, c.Post(context.Background(), "/posts", map[string]string{"title": "hello"}, &created))
	assert.Equal(t, int64(7), created.ID)
}

func TestClient_UnwrapsContentEnvelopeForSlices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content":[{"id":1},{"id":2}],"totalElements":2,"totalPages":1}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)

	var flat []item
	require.NoError(t, c.Get(context.Background(), "/x", nil, &flat))
	assert.Len(t, flat, 2)

	var page Page[item]
	require.NoError(t, c.Get(context.Background(), "/x", nil, &page))
	assert.Equal(t, 2, page.TotalElements)
	assert.Len(t, page.Content, 2)
}

func TestClient_NormalizesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message":"Only candidates can apply"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	err := c.Post(context.Background(), "/applications/apply/3", nil, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Only candidates can apply", apiErr.Message)
	assert.True(t, IsAuthAbsent(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "Only candidates can apply", MessageOf(err, "fallback"))
	assert.Equal(t, "fallback", MessageOf(errors.New("boom"), "fallback"))
}

func TestClient_PostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "avatar.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "pixels", string(b))
		_, _ = io.WriteString(w, `{"avatarUrl":"https://cdn/a.png","message":"ok"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	var out struct {
		AvatarURL string `json:"avatarUrl"`
	}
	require.NoError(t, c.PostMultipart(context.Background(), "/candidate/profile/avatar", "file", "avatar.png", "image/png", []byte("pixels"), &out))
	assert.Equal(t, "https://cdn/a.png", out.AvatarURL)
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	assert.ErrorIs(t, c.Get(context.Background(), "/x", nil, nil), ErrNilClient)
	assert.Empty(t, c.Token())
}

func TestPage_AcceptsBareArray(t *testing.T) {
	var p Page[item]
	require.NoError(t, json.Unmarshal([]byte(`[{"id":4}]`), &p))
	assert.Equal(t, 1, p.TotalElements)
	assert.True(t, p.Last)
	assert.Equal(t, int64(4), p.Content[0].ID)
}
