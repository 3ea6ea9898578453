package response

import "github.com/gofiber/fiber/v3"

// Envelope wraps every gateway reply. RequestID echoes the X-Request-ID the
// access log assigned so a UI can quote it back.
type Envelope struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	RequestID string `json:"request_id,omitempty"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "internal server error"
	MessageBadGateway          = "upstream unavailable"
	MessageGatewayTimeout      = "upstream timed out"
	MessageError               = "error"
)

var defaultMessages = map[int]string{
	fiber.StatusOK:                  MessageOK,
	fiber.StatusBadRequest:          MessageBadRequest,
	fiber.StatusUnauthorized:        MessageUnauthorized,
	fiber.StatusForbidden:           MessageForbidden,
	fiber.StatusNotFound:            MessageNotFound,
	fiber.StatusConflict:            MessageConflict,
	fiber.StatusUnprocessableEntity: MessageUnprocessableEntity,
	fiber.StatusBadGateway:          MessageBadGateway,
	fiber.StatusGatewayTimeout:      MessageGatewayTimeout,
}

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

// DefaultMessage is the message used when a reply carries none.
func DefaultMessage(status int) string {
	if msg, ok := defaultMessages[status]; ok {
		return msg
	}
	switch {
	case status >= 500:
		return MessageInternalServerError
	case status >= 400:
		return MessageError
	default:
		return MessageOK
	}
}

func write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = DefaultMessage(status)
	}
	return c.Status(status).JSON(Envelope{
		Status:    status,
		Message:   message,
		Data:      data,
		RequestID: string(c.Response().Header.Peek(fiber.HeaderXRequestID)),
	})
}
