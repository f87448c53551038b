// Package server exposes fake graphs and seeding over HTTP.
package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fakeorders/fakefactory"
	"fakeorders/model"
	"fakeorders/seed"
	"fakeorders/tracker"
)

// MaxBatch bounds the orders and customers a single request may ask for.
const MaxBatch = 1000

// Server holds the handler dependencies.
type Server struct {
	factory *fakefactory.Factory
	seeder  *seed.Seeder
	sqlDB   *sql.DB
	log     *zap.Logger
}

// New returns the router. gatherer backs GET /metrics.
func New(factory *fakefactory.Factory, seeder *seed.Seeder, sqlDB *sql.DB, gatherer prometheus.Gatherer, log *zap.Logger) http.Handler {
	s := &Server{factory: factory, seeder: seeder, sqlDB: sqlDB, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/fake", func(r chi.Router) {
		r.Get("/customers", s.fakeCustomer)
		r.Get("/orders", s.fakeOrder)
		r.Get("/payments", s.fakePayment)
	})

	r.Post("/customers", s.createCustomer)
	r.Get("/customers/{id}", s.getCustomer)
	r.Post("/orders", s.createOrder)
	r.Post("/payments", s.createPayment)

	// Concurrency test: POST /concurrent?n=10&orders=2
	r.Post("/concurrent", s.concurrent)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) fakeCustomer(w http.ResponseWriter, r *http.Request) {
	orders, ok := s.count(w, r, "orders", 0)
	if !ok {
		return
	}

	customer, err := s.factory.CreateFakeCustomer()
	for i := 0; err == nil && i < orders; i++ {
		customer, err = s.factory.WithOrder(customer)
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, customer)
}

func (s *Server) fakeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.factory.CreateFakeOrder()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, order)
}

func (s *Server) fakePayment(w http.ResponseWriter, r *http.Request) {
	payment, err := s.factory.CreateFakeOrderPayment()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, payment)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	orders, ok := s.count(w, r, "orders", 2)
	if !ok {
		return
	}

	customer, err := s.seeder.SeedCustomer(r.Context(), orders)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusCreated, customer)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, errors.New("invalid id"))
		return
	}

	uow, err := tracker.New(s.sqlDB)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	var out model.Customer
	if err := uow.PreloadFirst(r.Context(), &out, id, "Orders"); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tracker.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.fail(w, r, status, err)
		return
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.seeder.SeedOrder(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusCreated, order)
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := s.seeder.SeedOrderPayment(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusCreated, payment)
}

func (s *Server) concurrent(w http.ResponseWriter, r *http.Request) {
	n, ok := s.count(w, r, "n", 10)
	if !ok {
		return
	}
	orders, ok := s.count(w, r, "orders", 2)
	if !ok {
		return
	}

	report, err := s.seeder.SeedCustomers(r.Context(), n, orders)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, report)
}

// count reads a non-negative query parameter, answering 400 itself when it is malformed.
func (s *Server) count(w http.ResponseWriter, r *http.Request, name string, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > MaxBatch {
		s.fail(w, r, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return v, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	s.respond(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
