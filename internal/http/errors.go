// Package http expone la fachada HTTP de groupgate: traduce las decisiones
// del core a respuestas de transporte. Un error levantado por access se
// vuelve 401/403/404 explícito; una resolución degradada del resolver NO es
// error: se responde 200 tratando al caller como anónimo.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dropDatabas3/groupgate/internal/access"
	"github.com/dropDatabas3/groupgate/internal/scope"
)

// AppError define la estructura estándar para errores de la fachada.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa original, para logs; no se expone
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return "[" + e.Code + "] " + e.Message + ": " + e.Err.Error()
	}
	return "[" + e.Code + "] " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetail retorna una COPIA con detalle agregado (no muta los base).
func (e *AppError) WithDetail(detail string) *AppError {
	n := *e
	n.Detail = detail
	return &n
}

var (
	ErrBadRequest = &AppError{
		Code: "BAD_REQUEST", Message: "solicitud inválida", HTTPStatus: http.StatusBadRequest,
	}
	ErrTokenInvalid = &AppError{
		Code: "TOKEN_INVALID", Message: "el token no pudo verificarse", HTTPStatus: http.StatusUnauthorized,
	}
	ErrForbidden = &AppError{
		Code: "FORBIDDEN", Message: "acceso denegado al grupo", HTTPStatus: http.StatusForbidden,
	}
	ErrGroupNotFound = &AppError{
		Code: "GROUP_NOT_FOUND", Message: "grupo desconocido", HTTPStatus: http.StatusNotFound,
	}
	ErrInternal = &AppError{
		Code: "INTERNAL", Message: "error interno", HTTPStatus: http.StatusInternalServerError,
	}
)

// FromDomain traduce la taxonomía del core a AppError.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var tv *access.TokenValidationError
	if errors.As(err, &tv) {
		return ErrTokenInvalid.WithDetail(tv.Err.Error())
	}
	var nf *access.GroupNotFoundError
	if errors.As(err, &nf) {
		return ErrGroupNotFound.WithDetail(nf.Group)
	}
	var ad *access.AccessDeniedError
	if errors.As(err, &ad) {
		return ErrForbidden.WithDetail(ad.Error())
	}
	var sd *scope.GroupAccessDeniedError
	if errors.As(err, &sd) {
		return ErrForbidden.WithDetail(sd.Error())
	}
	n := *ErrInternal
	n.Err = err
	return &n
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError escribe la respuesta de error, traduciendo errores de dominio.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromDomain(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rid := w.Header().Get("X-Request-ID")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Detail:    appErr.Detail,
		RequestID: rid,
	})
}

// WriteJSON: respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON decodifica el body con límite de 1MB. Tolera body vacío (deja el
// destino en cero) para endpoints donde todos los campos son opcionales.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "application/json") {
		WriteError(w, ErrBadRequest.WithDetail("Content-Type debe ser application/json"))
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		WriteError(w, ErrBadRequest.WithDetail("json inválido"))
		return false
	}
	return true
}
