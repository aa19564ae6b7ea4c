package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"coursemarket/internal/api/httpx"
	"coursemarket/internal/api/validate"
	"coursemarket/internal/config"
	"coursemarket/internal/metrics"
	"coursemarket/internal/middleware"
	"coursemarket/internal/services"
)

func NewRouter(
	cfg config.Config,
	cat *services.CatalogService,
	enr *services.EnrollmentService,
	pur *services.PurchaseService,
	usr *services.UserService,
	am *middleware.AuthMiddleware,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- public catalog ----------
		r.Get("/courses", func(w http.ResponseWriter, r *http.Request) {
			courses, err := cat.List(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, courses)
		})

		r.Get("/courses/{id}", func(w http.ResponseWriter, r *http.Request) {
			course, err := cat.Get(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, course)
		})

		// ---------- authenticated ----------
		r.Group(func(r chi.Router) {
			r.Use(am.Auth)

			r.Post("/courses", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				var in services.CourseInput
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json", nil)
					return
				}
				var errs validate.Errs
				if e := validate.Required("title", in.Title); e != nil {
					errs = append(errs, *e)
				}
				if e := validate.MinInt("price", in.Price, 0); e != nil {
					errs = append(errs, *e)
				}
				if e := validate.MinInt("duration", in.Duration, 0); e != nil {
					errs = append(errs, *e)
				}
				if len(errs) > 0 {
					httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "validation failed", errs)
					return
				}
				course, err := cat.Create(r.Context(), principal, in)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusCreated, course)
			})

			// Filtered listings keep the original contract: an empty result
			// is a 404, not an empty array.
			r.Get("/courses/created", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				courses, err := cat.ListByInstructor(r.Context(), principal)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, courses)
			})

			r.Get("/courses/enrolled", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				courses, err := cat.ListByStudent(r.Context(), principal)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, courses)
			})

			r.Post("/courses/{id}/enroll", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				id := chi.URLParam(r, "id")
				if err := enr.Enroll(r.Context(), id, principal); err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteMessage(w, http.StatusOK, "enrolled in course "+id)
			})

			r.Post("/courses/{id}/unenroll", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				id := chi.URLParam(r, "id")
				if err := enr.Unenroll(r.Context(), id, principal); err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteMessage(w, http.StatusOK, "unenrolled from course "+id)
			})

			r.Post("/courses/{id}/purchase", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				tx, err := pur.Purchase(r.Context(), chi.URLParam(r, "id"), principal)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, tx)
			})

			// ---------- users ----------
			r.Post("/users/register", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				var req struct {
					Username string   `json:"username"`
					Bio      string   `json:"bio"`
					Skills   []string `json:"skills"`
				}
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json", nil)
					return
				}
				if e := validate.MinLen("username", req.Username, 3); e != nil {
					httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "validation failed", validate.Errs{*e})
					return
				}
				u, err := usr.Register(r.Context(), principal, req.Username, req.Bio, req.Skills)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusCreated, u)
			})

			r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())
				u, err := usr.Get(r.Context(), principal)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, u)
			})

			// ---------- transactions ----------
			r.Get("/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
				tx, err := pur.GetTransaction(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, tx)
			})

			r.Get("/transactions", func(w http.ResponseWriter, r *http.Request) {
				principal, _ := middleware.Principal(r.Context())

				limit := 50
				offset := 0
				if v := r.URL.Query().Get("limit"); v != "" {
					if n, err := strconv.Atoi(v); err == nil && n > 0 {
						limit = n
					}
				}
				if v := r.URL.Query().Get("offset"); v != "" {
					if n, err := strconv.Atoi(v); err == nil && n >= 0 {
						offset = n
					}
				}

				txs, err := pur.ListTransactionsByUser(r.Context(), principal, limit, offset)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, txs)
			})
		})
	})

	return r
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrNoCoursesFound),
		errors.Is(err, services.ErrTransactionNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrUserNotFound):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", err.Error(), nil)
	case errors.Is(err, services.ErrUserExists):
		httpx.WriteError(w, http.StatusConflict, "already_registered", err.Error(), nil)
	case errors.Is(err, services.ErrAlreadyEnrolled):
		httpx.WriteError(w, http.StatusConflict, "already_enrolled", err.Error(), nil)
	case errors.Is(err, services.ErrNotEnrolled):
		httpx.WriteError(w, http.StatusConflict, "not_enrolled", err.Error(), nil)
	case errors.Is(err, services.ErrAlreadyPurchased):
		httpx.WriteError(w, http.StatusConflict, "already_purchased", err.Error(), nil)
	case errors.Is(err, services.ErrPaymentFailed):
		httpx.WriteError(w, http.StatusPaymentRequired, "payment_failed", err.Error(), nil)
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
