// Package seed persists fake graphs so the database, not the generator, assigns identity.
//
// Every call generates a fresh graph through the fake factory, queues it on a
// new tracker.UnitOfWork parent first, commits, and returns the stored rows.
package seed

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fakeorders/fakefactory"
	"fakeorders/metrics"
	"fakeorders/model"
	"fakeorders/tracker"
)

// ErrInvalidCount is returned when a requested count is negative.
var ErrInvalidCount = errors.New("seed: count must not be negative")

// DefaultConcurrency bounds SeedCustomers when the Seeder was built without a limit.
const DefaultConcurrency = 4

// Seeder generates and stores fake graphs.
type Seeder struct {
	sqlDB       *sql.DB
	factory     *fakefactory.Factory
	metrics     *metrics.Metrics
	log         *zap.Logger
	concurrency int
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithMetrics counts committed entities on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Seeder) { s.metrics = m }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Seeder) { s.log = log }
}

// WithConcurrency bounds the goroutines used by SeedCustomers.
func WithConcurrency(n int) Option {
	return func(s *Seeder) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New builds a Seeder writing to sqlDB, which must already be migrated.
func New(sqlDB *sql.DB, factory *fakefactory.Factory, opts ...Option) *Seeder {
	s := &Seeder{
		sqlDB:       sqlDB,
		factory:     factory,
		log:         zap.NewNop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedCustomer stores a fake customer with the given number of fake orders.
//
// The generated orders each carry their own detached customer; they are
// re-homed onto the seeded customer and the detached one is dropped.
func (s *Seeder) SeedCustomer(ctx context.Context, orders int) (*model.Customer, error) {
	if orders < 0 {
		return nil, ErrInvalidCount
	}

	customer, err := s.factory.CreateFakeCustomer()
	if err != nil {
		return nil, err
	}
	for range orders {
		if _, err := s.factory.WithOrder(customer); err != nil {
			return nil, err
		}
	}

	uow, err := s.unitOfWork("Customer")
	if err != nil {
		return nil, err
	}
	uow.Add(customer)
	uow.Do(func(tx tracker.Tx) error {
		for i := range customer.Orders {
			order := &customer.Orders[i]
			order.CustomerID = customer.ID
			order.Customer = nil
			if err := tx.Create(order); err != nil {
				return err
			}
		}
		return nil
	})
	uow.AfterCommit(func() {
		s.metrics.ObserveSeeded("Customer", 1)
		s.metrics.ObserveSeeded("Order", orders)
	})

	if err := uow.SaveChanges(ctx); err != nil {
		return nil, errors.Wrap(err, "seed: customer")
	}

	var out model.Customer
	if err := uow.PreloadFirst(ctx, &out, customer.ID, "Orders"); err != nil {
		return nil, errors.Wrap(err, "seed: reload customer")
	}
	s.log.Debug("customer seeded", zap.Stringer("customer_id", out.ID), zap.Int("orders", len(out.Orders)))
	return &out, nil
}

// SeedOrder stores a fake order and the customer generated with it.
func (s *Seeder) SeedOrder(ctx context.Context) (*model.Order, error) {
	order, err := s.factory.CreateFakeOrder()
	if err != nil {
		return nil, err
	}

	uow, err := s.unitOfWork("Order")
	if err != nil {
		return nil, err
	}
	uow.Add(order.Customer)
	uow.Do(func(tx tracker.Tx) error {
		order.CustomerID = order.Customer.ID
		return tx.Create(order)
	})
	uow.AfterCommit(func() {
		s.metrics.ObserveSeeded("Customer", 1)
		s.metrics.ObserveSeeded("Order", 1)
	})

	if err := uow.SaveChanges(ctx); err != nil {
		return nil, errors.Wrap(err, "seed: order")
	}

	var out model.Order
	if err := uow.PreloadFirst(ctx, &out, order.ID, "Customer"); err != nil {
		return nil, errors.Wrap(err, "seed: reload order")
	}
	return &out, nil
}

// SeedOrderPayment stores a fake payment with its order and that order's customer.
func (s *Seeder) SeedOrderPayment(ctx context.Context) (*model.OrderPayment, error) {
	payment, err := s.factory.CreateFakeOrderPayment()
	if err != nil {
		return nil, err
	}
	order := payment.Order

	uow, err := s.unitOfWork("OrderPayment")
	if err != nil {
		return nil, err
	}
	uow.Add(order.Customer)
	uow.Do(func(tx tracker.Tx) error {
		order.CustomerID = order.Customer.ID
		if err := tx.Create(order); err != nil {
			return err
		}
		payment.OrderID = order.ID
		return tx.Create(payment)
	})
	uow.AfterCommit(func() {
		s.metrics.ObserveSeeded("Customer", 1)
		s.metrics.ObserveSeeded("Order", 1)
		s.metrics.ObserveSeeded("OrderPayment", 1)
	})

	if err := uow.SaveChanges(ctx); err != nil {
		return nil, errors.Wrap(err, "seed: order payment")
	}

	var out model.OrderPayment
	if err := uow.PreloadFirst(ctx, &out, payment.ID, "Order", "Order.Customer"); err != nil {
		return nil, errors.Wrap(err, "seed: reload order payment")
	}
	return &out, nil
}

// Report summarizes a SeedCustomers run.
type Report struct {
	Requested int `json:"requested"`
	OK        int `json:"ok"`
	Failed    int `json:"failed"`
}

// SeedCustomers seeds n customers with the given number of orders each, concurrently.
// A failed customer is counted and logged; only cancellation of ctx aborts the run.
func (s *Seeder) SeedCustomers(ctx context.Context, n, orders int) (Report, error) {
	if n < 0 || orders < 0 {
		return Report{}, ErrInvalidCount
	}

	var ok, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := s.SeedCustomer(gctx, orders); err != nil {
				failed.Add(1)
				s.log.Warn("seeding customer failed", zap.Int("worker", i), zap.Error(err))
				return nil
			}
			ok.Add(1)
			return nil
		})
	}

	err := g.Wait()
	return Report{Requested: n, OK: int(ok.Load()), Failed: int(failed.Load())}, err
}

func (s *Seeder) unitOfWork(entity string) (*tracker.UnitOfWork, error) {
	uow, err := tracker.New(s.sqlDB)
	if err != nil {
		return nil, err
	}
	uow.AfterRollback(func(err error) {
		s.log.Error("seed rolled back", zap.String("entity", entity), zap.Error(err))
	})
	return uow, nil
}
