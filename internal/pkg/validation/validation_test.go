package validation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobnest/internal/domain/user"
)

var (
	pdfHeader = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
	pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
)

func TestCVFile(t *testing.T) {
	up, err := CVFile("resume.pdf", pdfHeader)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", up.MIME)
	assert.Equal(t, int64(len(pdfHeader)), up.Size)
	assert.True(t, strings.HasPrefix(up.DataURL(), "data:application/pdf;base64,"))

	big := append(append([]byte{}, pdfHeader...), bytes.Repeat([]byte{'x'}, 6*1024*1024)...)
	_, err = CVFile("big.pdf", big)
	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "File size must be less than 5MB", vErr.Message)

	_, err = CVFile("resume.pdf", []byte("plain text pretending to be a pdf"))
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Please upload a PDF file", vErr.Message)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = CVFile("empty.pdf", nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAvatarFile(t *testing.T) {
	up, err := AvatarFile("me.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.MIME)
	assert.Equal(t, "me.png", up.Name)

	_, err = AvatarFile("me.png", pdfHeader)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRegister(t *testing.T) {
	cases := []struct {
		name string
		req  user.RegisterRequest
		ok   bool
	}{
		{"valid", user.RegisterRequest{Username: "an", Email: "an@example.com", Password: "secret1"}, true},
		{"missing username", user.RegisterRequest{Email: "an@example.com", Password: "secret1"}, false},
		{"bad email", user.RegisterRequest{Username: "an", Email: "an@example", Password: "secret1"}, false},
		{"display name form", user.RegisterRequest{Username: "an", Email: "An <an@example.com>", Password: "secret1"}, false},
		{"short password", user.RegisterRequest{Username: "an", Email: "an@example.com", Password: "12345"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Register(tc.req)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestNewPassword(t *testing.T) {
	assert.NoError(t, NewPassword("abcdef", "abcdef"))
	assert.Error(t, NewPassword("abcdef", "abcdeg"))
	assert.Error(t, NewPassword("abc", "abc"))
}
