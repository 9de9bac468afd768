package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/STTM-NSU/currency-transformer/internal/logger"
	"github.com/STTM-NSU/currency-transformer/internal/model"
	"github.com/STTM-NSU/currency-transformer/internal/rates"
	"github.com/bytedance/sonic"
)

const (
	TransformPath = "/api/v1/transform"

	// StatusClientClosedRequest is the nginx convention for a client that went
	// away before the answer was ready. Only the access log ever sees it.
	StatusClientClosedRequest = 499

	_internalErrorMessage = "internal server error"
)

type Converter interface {
	Convert(ctx context.Context, req model.ConversionRequest) (model.ConversionResult, error)
}

type Handler struct {
	converter Converter
	router    *http.ServeMux
	logger    logger.Logger
}

// NewHandler wires the routes behind access logging, panic recovery and the
// request-wide deadline.
func NewHandler(converter Converter, requestTimeout time.Duration, logger logger.Logger) http.Handler {
	h := &Handler{
		converter: converter,
		router:    http.NewServeMux(),
		logger:    logger,
	}
	h.routes()

	var handler http.Handler = h.router
	handler = Timeout(requestTimeout, logger)(handler)
	handler = Recover(logger)(handler)
	handler = AccessLog(logger)(handler)
	return handler
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /{$}", h.home)
	h.router.HandleFunc("GET "+TransformPath, h.transform)
}

func (h *Handler) home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("home"))
}

// transform answers with the converted amount as a bare JSON number.
func (h *Handler) transform(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := rates.ParseRequest(q.Get("money"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.converter.Convert(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, json.Number(result.Amount.String()), h.logger)
}

type errorResponse struct {
	Error string `json:"error"`
}

// fail maps the error kind to a status. Internal details are only logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := rates.KindOf(err)
	status := StatusFor(kind)

	msg := _internalErrorMessage
	var e *rates.Error
	switch {
	case kind == rates.KindTimeout:
		msg = "request timed out"
	case kind == rates.KindCanceled:
		h.logger.Infof("%s %s: client closed request", r.Method, r.URL.Path)
		msg = "client closed request"
	case kind != rates.KindInternal && errors.As(err, &e):
		msg = e.Msg
	}

	if kind == rates.KindInternal {
		h.logger.Errorf("%s %s: %s", r.Method, r.URL.Path, err)
	}
	writeError(w, status, msg, h.logger)
}

func StatusFor(kind rates.Kind) int {
	switch kind {
	case rates.KindInvalidInput:
		return http.StatusBadRequest
	case rates.KindRateNotFound:
		return http.StatusNotFound
	case rates.KindTimeout:
		return http.StatusRequestTimeout
	case rates.KindCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string, logger logger.Logger) {
	writeJSON(w, status, errorResponse{Error: msg}, logger)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger logger.Logger) {
	body, err := sonic.Marshal(v)
	if err != nil {
		logger.Errorf("%s: can't marshal response", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + _internalErrorMessage + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		logger.Warnf("%s: can't write response", err)
	}
}
