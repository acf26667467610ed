package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Problem is an RFC 7807 problem-details response body.
type Problem struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// Error implements the error interface so a Problem can travel through
// error returns and be recovered with errors.As.
func (p *Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Title, p.Detail)
}

// Render implements the render.Renderer interface for chi/render
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	render.Status(r, p.Status)
	return nil
}

// Problem type URIs
const (
	TypeValidation   = "/errors/validation"
	TypeNotFound     = "/errors/not-found"
	TypeRateLimit    = "/errors/rate-limit"
	TypeInternal     = "/errors/internal"
	TypeDatasetBuild = "/errors/dataset/build-failed"
	TypeDatasetEmpty = "/errors/dataset/not-built"
)

// NewProblem creates a problem-details value.
func NewProblem(typeURI, title string, status int, detail string) *Problem {
	return &Problem{Type: typeURI, Title: title, Status: status, Detail: detail}
}

// ValidationProblem reports a bad request parameter.
func ValidationProblem(detail string) *Problem {
	return NewProblem(TypeValidation, "Invalid request", http.StatusBadRequest, detail)
}

// NotFoundProblem reports a missing resource.
func NotFoundProblem(detail string) *Problem {
	return NewProblem(TypeNotFound, "Not found", http.StatusNotFound, detail)
}

// ErrorHandler converts errors into problem-details responses and logs them.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError maps err to a problem-details response and writes it.
// BuildError types map to 422 (parse/validation) or 404 (input);
// everything else is a 500.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	var problem *Problem
	if errors.As(err, &problem) {
		render.Render(w, r, problem)
		return
	}

	var be *BuildError
	if errors.As(err, &be) {
		switch be.Type {
		case ErrTypeInput:
			problem = NewProblem(TypeNotFound, "Source data unavailable", http.StatusNotFound, be.Error())
		default:
			problem = NewProblem(TypeDatasetBuild, "Dataset build failed", http.StatusUnprocessableEntity, be.Error())
		}
		render.Render(w, r, problem)
		return
	}

	problem = NewProblem(TypeInternal, "Internal server error", http.StatusInternalServerError, "An unexpected error occurred")
	render.Render(w, r, problem)
}
