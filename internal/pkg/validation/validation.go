package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"jobnest/internal/domain/user"
)

const (
	MaxUploadBytes    = 5 * 1024 * 1024
	MinPasswordLength = 6

	mimePDF = "application/pdf"
)

var ErrInvalid = errors.New("validation failed")

// Error is a rejected input caught before any request is sent.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error { return ErrInvalid }

func newError(field, msg string) error {
	return &Error{Field: field, Message: msg}
}

func Required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return newError(field, "is required")
	}
	return nil
}

func Email(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return newError("email", "is required")
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
		return newError("email", "Please enter a valid email address")
	}
	return nil
}

func Password(field, v string) error {
	if v == "" {
		return newError(field, "is required")
	}
	if len(v) < MinPasswordLength {
		return newError(field, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func Register(req user.RegisterRequest) error {
	if err := Required("username", req.Username); err != nil {
		return err
	}
	if err := Email(req.Email); err != nil {
		return err
	}
	return Password("password", req.Password)
}

func Login(req user.LoginRequest) error {
	if err := Email(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return newError("password", "is required")
	}
	return nil
}

// NewPassword checks a reset or change: both entries must match and meet
// the length rule.
func NewPassword(password, confirm string) error {
	if password != confirm {
		return newError("confirmPassword", "Passwords do not match")
	}
	return Password("newPassword", password)
}

// Upload is a sniffed file ready to send.
type Upload struct {
	Name    string
	Size    int64
	MIME    string
	Content []byte
}

// DataURL encodes the content the way the CV endpoints expect it.
func (u Upload) DataURL() string {
	return "data:" + u.MIME + ";base64," + base64.StdEncoding.EncodeToString(u.Content)
}

// CVFile accepts only PDFs up to MaxUploadBytes. The type is taken from the
// content, not the file name.
func CVFile(name string, content []byte) (Upload, error) {
	if len(content) == 0 {
		return Upload{}, newError("file", "is required")
	}
	if len(content) > MaxUploadBytes {
		return Upload{}, newError("file", "File size must be less than 5MB")
	}
	m := mimetype.Detect(content)
	if !m.Is(mimePDF) {
		return Upload{}, newError("file", "Please upload a PDF file")
	}
	return Upload{Name: baseName(name, m.Extension()), Size: int64(len(content)), MIME: mimePDF, Content: content}, nil
}

func AvatarFile(name string, content []byte) (Upload, error) {
	if len(content) == 0 {
		return Upload{}, newError("file", "is required")
	}
	if len(content) > MaxUploadBytes {
		return Upload{}, newError("file", "File size must be less than 5MB")
	}
	m := mimetype.Detect(content)
	if !strings.HasPrefix(m.String(), "image/") {
		return Upload{}, newError("file", "Please upload an image file")
	}
	mt := m.String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return Upload{Name: baseName(name, m.Extension()), Size: int64(len(content)), MIME: mt, Content: content}, nil
}

func CVTitle(title string) error {
	return Required("title", title)
}

func baseName(name, ext string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "upload" + ext
	}
	return name
}
