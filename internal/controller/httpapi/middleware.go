package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requestLogger пишет в zap метод, путь, статус и длительность каждого запроса
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// pathID разбирает UUID из параметра маршрута; при ошибке отвечает 400
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidID})
		return uuid.Nil, false
	}
	return id, true
}

// scopeOf ?include_deleted=true включает мягко удалённые записи
func scopeOf(r *http.Request) model.Scope {
	include, _ := strconv.ParseBool(r.URL.Query().Get("include_deleted"))
	if include {
		return model.ScopeAll
	}
	return model.ScopeActive
}
