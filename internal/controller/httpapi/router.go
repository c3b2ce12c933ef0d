package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// Handler HTTP-обработчики API клиники
type Handler struct {
	consultations ConsultationUsecase
	persons       PersonUsecase
	clinics       ClinicUsecase
	educations    EducationUsecase
	clock         clock.Clock
	ping          func(ctx context.Context) error
	logger        *zap.Logger
}

type Deps struct {
	Consultations ConsultationUsecase
	Persons       PersonUsecase
	Clinics       ClinicUsecase
	Educations    EducationUsecase
	// Clock для вычисления возраста и стажа, по умолчанию системные часы
	Clock clock.Clock
	// Ping проверяет доступность базы для /healthz
	Ping   func(ctx context.Context) error
	Logger *zap.Logger
}

func NewHandler(deps Deps) *Handler {
	clk := deps.Clock
	if clk == nil {
		clk = clock.System()
	}

	return &Handler{
		consultations: deps.Consultations,
		persons:       deps.Persons,
		clinics:       deps.Clinics,
		educations:    deps.Educations,
		clock:         clk,
		ping:          deps.Ping,
		logger:        deps.Logger,
	}
}

type RouterConfig struct {
	AllowedOrigins []string
	// RateLimit запросов в секунду с одного IP, 0 отключает ограничение
	RateLimit int
}

// NewRouter собирает chi-роутер с middleware и всеми маршрутами /api/v1
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(h.logger))
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	if cfg.RateLimit > 0 {
		router.Use(httprate.LimitByIP(cfg.RateLimit, time.Second))
	}

	router.Get("/healthz", h.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.login)

		r.Route("/doctors", func(r chi.Router) {
			r.Get("/", h.listDoctors)
			r.Post("/", h.createDoctor)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getDoctor)
				r.Put("/", h.updateDoctor)
				r.Delete("/", h.deleteDoctor)
				r.Get("/consultations", h.listDoctorConsultations)
				r.Get("/educations", h.listEducation)
				r.Post("/educations", h.addEducation)
				r.Delete("/educations/{educationID}", h.deleteEducation)
			})
		})

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", h.listPatients)
			r.Post("/", h.createPatient)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getPatient)
				r.Put("/", h.updatePatient)
				r.Delete("/", h.deletePatient)
				r.Get("/consultations", h.listPatientConsultations)
			})
		})

		r.Route("/admins", func(r chi.Router) {
			r.Get("/", h.listAdmins)
			r.Post("/", h.createAdmin)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getAdmin)
				r.Put("/", h.updateAdmin)
				r.Delete("/", h.deleteAdmin)
			})
		})

		r.Route("/clinics", func(r chi.Router) {
			r.Get("/", h.listClinics)
			r.Post("/", h.createClinic)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getClinic)
				r.Put("/", h.updateClinic)
				r.Delete("/", h.deleteClinic)
				r.Get("/doctors", h.listClinicDoctors)
				r.Post("/doctors", h.affiliateDoctor)
				r.Delete("/doctors/{doctorID}", h.removeClinicDoctor)
			})
		})

		r.Route("/consultations", func(r chi.Router) {
			r.Post("/", h.bookConsultation)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getConsultation)
				r.Put("/", h.updateConsultation)
				r.Delete("/", h.deleteConsultation)
				r.Post("/status", h.changeConsultationStatus)
				r.Post("/reschedule", h.rescheduleConsultation)
			})
		})
	})

	return router
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			h.logger.Error("Health check failed", zap.Error(err))
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
