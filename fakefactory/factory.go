// Package fakefactory builds domain-valid fake Customers, Orders and
// OrderPayments for tests and seeding.
package fakefactory

import (
	"go.uber.org/zap"

	"fakeorders/fake"
	"fakeorders/model"
)

// Factory wraps a configured Faker. Build it once and share it; it is safe for concurrent use.
type Factory struct {
	faker *fake.Faker
	log   *zap.Logger
}

// DefaultConfig is the generator configuration fixtures are built with: timestamps
// in the process's current UTC offset and no recursion into nested graphs beyond
// what the override rules construct.
func DefaultConfig() fake.Config {
	return fake.Config{
		DefaultTimezoneOffset: fake.LocalOffset(),
		RecursiveDepth:        0,
	}
}

// New builds a Factory. The Customer, Order and OrderPayment rules are always
// installed ahead of cfg.Overrides.
func New(cfg fake.Config, log *zap.Logger) (*Factory, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cfg.Overrides = append(Overrides(), cfg.Overrides...)
	f, err := fake.New(cfg)
	if err != nil {
		return nil, err
	}

	log.Debug("fake factory ready",
		zap.Duration("timezone_offset", cfg.DefaultTimezoneOffset),
		zap.Uint("recursive_depth", cfg.RecursiveDepth),
	)
	return &Factory{faker: f, log: log}, nil
}

// Faker exposes the underlying generator for types the factory has no shortcut for.
func (f *Factory) Faker() *fake.Faker { return f.faker }

// CreateFakeOrder returns an order with a fresh customer attached and no payment.
func (f *Factory) CreateFakeOrder() (*model.Order, error) {
	return fake.Generate[model.Order](f.faker)
}

// CreateFakeCustomer returns a customer with no orders.
func (f *Factory) CreateFakeCustomer() (*model.Customer, error) {
	return fake.Generate[model.Customer](f.faker)
}

// CreateFakeOrderPayment returns a payment with a fresh order (and its customer) attached.
func (f *Factory) CreateFakeOrderPayment() (*model.OrderPayment, error) {
	return fake.Generate[model.OrderPayment](f.faker)
}

// WithOrder appends one fake order to customer and returns customer.
// Each configure func is applied to the order before it is appended.
//
// The order's own Customer is generated independently, so it is never customer.
func (f *Factory) WithOrder(customer *model.Customer, configure ...func(*model.Order)) (*model.Customer, error) {
	order, err := f.CreateFakeOrder()
	if err != nil {
		return nil, err
	}
	for _, fn := range configure {
		if fn != nil {
			fn(order)
		}
	}

	customer.Orders = append(customer.Orders, *order)
	return customer, nil
}
