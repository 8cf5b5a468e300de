// Package errs defines the machine-readable error taxonomy surfaced at the
// API boundary. Every rejection carries a kind that maps to one HTTP status.
package errs

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	KindInvalidData   Kind = "datos_invalidos"
	KindNotFound      Kind = "no_encontrado"
	KindDuplicateData Kind = "datos_duplicados"
	KindInternal      Kind = "error_interno"
	KindInvalidImage  Kind = "imagen_invalida"
	KindInvalidPDF    Kind = "pdf_invalido"
)

var defaultMessages = map[Kind]string{
	KindInvalidData:   "Los datos ingresados son inválidos.",
	KindNotFound:      "No se encontró el recurso solicitado.",
	KindDuplicateData: "Los datos ingresados ya existen.",
	KindInternal:      "Error interno del servidor.",
	KindInvalidImage:  "El archivo subido no es una imagen válida.",
	KindInvalidPDF:    "El PDF no pudo ser procesado.",
}

var statusByKind = map[Kind]int{
	KindInvalidData:   fiber.StatusBadRequest,
	KindNotFound:      fiber.StatusNotFound,
	KindDuplicateData: fiber.StatusConflict,
	KindInternal:      fiber.StatusInternalServerError,
	KindInvalidImage:  fiber.StatusBadRequest,
	KindInvalidPDF:    fiber.StatusBadRequest,
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error of the given kind. An empty message falls back to the
// kind's default message.
func New(kind Kind, message string) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for errors that
// did not originate in this taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to its HTTP-equivalent status code.
func HTTPStatus(err error) int {
	if status, ok := statusByKind[KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return defaultMessages[KindInternal]
}
