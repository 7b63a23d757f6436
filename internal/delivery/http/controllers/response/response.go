package response

import (
	"errors"
	"net/http"

	"KidLearn/internal/app_errors"
	"KidLearn/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var jsonAPI = sonic.Config{
	EscapeHTML:       false,
	CompactMarshaler: true,
	NoNullSliceOrMap: true,
}.Froze()

// sonicJSON renders a body with sonic instead of encoding/json.
type sonicJSON struct {
	Data any
}

func (r sonicJSON) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	b, err := jsonAPI.Marshal(r.Data)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (r sonicJSON) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
}

type envelope struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
	Code  string `json:"code,omitempty"`
}

func Data(c *gin.Context, status int, data any) {
	c.Render(status, sonicJSON{Data: envelope{Data: data}})
}

// Error writes err with the status its type maps to. Unknown errors are
// logged and hidden behind a 500.
func Error(c *gin.Context, log logger.Log, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		log.ErrorErr("request failed", err, "path", c.FullPath())
		_ = c.Error(err)
	}
	c.Render(status, sonicJSON{Data: body})
	c.Abort()
}

func BadRequest(c *gin.Context, field, message string) {
	c.Render(http.StatusBadRequest, sonicJSON{Data: envelope{Error: message, Field: field}})
	c.Abort()
}

func classify(err error) (int, envelope) {
	var (
		verr     *app_errors.ValidationError
		notFound *app_errors.NotFoundError
		conflict *app_errors.ConflictError
		state    *app_errors.StateError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, envelope{Error: verr.Message, Field: verr.Field}
	case errors.As(err, &notFound):
		return http.StatusNotFound, envelope{Error: notFound.Error()}
	case errors.As(err, &conflict):
		return http.StatusConflict, envelope{Error: conflict.Error()}
	case errors.As(err, &state):
		return http.StatusUnprocessableEntity, envelope{Error: state.Error(), Code: state.Code}
	case errors.Is(err, app_errors.ErrNotChildGuardian):
		return http.StatusForbidden, envelope{Error: err.Error()}
	default:
		return http.StatusInternalServerError, envelope{Error: "internal error"}
	}
}

// UUIDParam parses a path parameter and answers 400 when it is not a uuid.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		BadRequest(c, name, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
