package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Son los kinds de la taxonomía de errores del gateway; las llamadas de red
// los envuelven en APIError y los usecases los propagan con errors.Is.
var (
	ErrNetwork      = errors.New("error de conexión")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrServer       = errors.New("error interno del servidor")
	ErrStorage      = errors.New("error de almacenamiento local")
	ErrValidation   = errors.New("entrada inválida")
)

// APIError error de una llamada al backend con el kind, el status HTTP y el
// mensaje legible (el del backend cuando lo envía, uno por defecto si no).
type APIError struct {
	Kind       error  // uno de los sentinelas de arriba
	StatusCode int    // 0 cuando no hubo respuesta (ErrNetwork)
	Message    string // mensaje para mostrar al usuario
	Cause      error  // error subyacente del transporte, nil si hubo respuesta
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// Unwrap permite errors.Is(err, domain.ErrNetwork) y también alcanzar la
// causa original (p. ej. un *url.Error con el detalle de conectividad).
func (e *APIError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// NewNetworkError error sin respuesta del servidor (conectividad o timeout).
func NewNetworkError(cause error) *APIError {
	return &APIError{
		Kind:    ErrNetwork,
		Message: "Error de conexión. Verifica tu conexión a internet.",
		Cause:   cause,
	}
}

// FromStatus mapea un status HTTP de error al APIError correspondiente.
// message es el mensaje del backend; si viene vacío se usa el de la taxonomía.
func FromStatus(status int, message string) *APIError {
	var kind error
	var def string
	switch {
	case status == 401:
		kind, def = ErrUnauthorized, "Token inválido o expirado. Por favor, inicia sesión nuevamente."
	case status == 403:
		kind, def = ErrForbidden, "Acceso denegado."
	case status == 404:
		kind, def = ErrNotFound, "Recurso no encontrado."
	case status >= 500:
		kind, def = ErrServer, "Error interno del servidor. Intenta nuevamente."
	default:
		kind, def = ErrValidation, "Ocurrió un error inesperado."
	}
	if message == "" {
		message = def
	}
	return &APIError{Kind: kind, StatusCode: status, Message: message}
}
