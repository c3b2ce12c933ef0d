package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/Freeeeeet/clinic_scheduler/internal/validation"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	msgInvalidJSON = "Некорректный JSON"
	msgInvalidID   = "Некорректный идентификатор"
	msgInvalidDate = "Некорректная дата, ожидается формат ГГГГ-ММ-ДД"
)

type errorResponse struct {
	Error  string            `json:"error,omitempty"`
	Errors validation.Errors `json:"errors,omitempty"`
}

// writeJSON кодирует ответ до записи заголовков; ошибка кодирования даёт 500 без тела
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if data == nil {
		w.WriteHeader(code)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("Failed to encode response", zap.Int("status", code), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Debug("Failed to write response", zap.Error(err))
	}
}

// writeError переводит ошибку сервиса в HTTP-ответ
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := validation.As(err); ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Errors: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Не найдено"})
	case errors.Is(err, service.ErrProtected):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "Запись используется в консультациях и не может быть удалена"})
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Неверный email или пароль"})
	default:
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Внутренняя ошибка сервера"})
	}
}

// decodeJSON читает тело запроса в dst; при ошибке сам пишет ответ 400
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		message := msgInvalidJSON
		if errors.Is(err, errDateFormat) {
			message = msgInvalidDate
		}
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Errors: validation.Errors{validation.NonFieldErrors: {message}}})
		return false
	}
	return true
}

