package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"telegram-account-binding/internal/domain"
	"telegram-account-binding/internal/domain/model"
	"telegram-account-binding/internal/infra/logging"
	"telegram-account-binding/internal/infra/metrics"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// bindingSuccessRequest is the payload the site posts once an account is linked.
// ChatID is a pointer so a missing field is distinguishable from a zero value.
type bindingSuccessRequest struct {
	ChatID   *int64 `json:"chat_id" validate:"required"`
	UserName string `json:"user_name"`
}

type bindingSuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleBindingSuccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	respond := func(code int, body any) {
		metrics.IncWebhookRequest(code)
		writeJSON(w, code, body)
	}
	defer func() {
		if rec := recover(); rec != nil {
			l.Error().Interface("panic", rec).Msg("binding webhook: panic while scheduling")
			respond(http.StatusInternalServerError, errorResponse{Error: fmt.Sprint(rec)})
		}
	}()

	var req bindingSuccessRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		// an empty body is treated like {}
	default:
		l.Info().Err(err).Msg("binding webhook: malformed body")
		respond(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := s.validate.Struct(req); err != nil {
		l.Info().Err(err).Msg("binding webhook: rejected payload")
		respond(http.StatusBadRequest, errorResponse{Error: validationMessage(err)})
		return
	}

	ev := model.BindingEvent{ChatID: *req.ChatID, UserName: req.UserName}
	jobID, err := s.binding.ScheduleNotification(logging.WithChatID(ctx, ev.ChatID), ev)
	switch {
	case errors.Is(err, domain.ErrChatIDRequired):
		l.Info().Msg("binding webhook: chat_id is zero")
		respond(http.StatusBadRequest, errorResponse{Error: domain.ErrChatIDRequired.Error()})
		return
	case err != nil:
		l.Error().Err(err).Int64("chat_id", ev.ChatID).Msg("binding webhook: scheduling failed")
		respond(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	respond(http.StatusOK, bindingSuccessResponse{
		Status:  "success",
		Message: "binding notification scheduled",
		JobID:   jobID,
	})
}

// validationMessage maps the first failed field to the client-facing error text.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return fe.Field() + " is required"
	}
	return fe.Field() + " is invalid"
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
