package fakefactory

import (
	"github.com/google/uuid"

	"fakeorders/fake"
	"fakeorders/model"
)

// Overrides returns the rules that keep generated Customer, Order and
// OrderPayment graphs domain-valid. Identity is never the generator's to
// decide, so every id and foreign-key id is reset to uuid.Nil.
func Overrides() []fake.Override {
	return []fake.Override{
		fake.For(customerOverride),
		fake.For(orderOverride),
		fake.For(orderPaymentOverride),
	}
}

// Customers can exist in the domain without any orders.
func customerOverride(_ *fake.Faker, c *model.Customer) error {
	c.ID = uuid.Nil
	c.Orders = []model.Order{}
	return nil
}

// Orders cannot exist without a customer; payment history is left to the caller.
func orderOverride(f *fake.Faker, o *model.Order) error {
	customer, err := fake.Generate[model.Customer](f)
	if err != nil {
		return err
	}

	o.ID = uuid.Nil
	o.Customer = customer
	o.CustomerID = uuid.Nil
	o.Payment = nil
	return nil
}

// Payments cannot exist without an order.
func orderPaymentOverride(f *fake.Faker, p *model.OrderPayment) error {
	order, err := fake.Generate[model.Order](f)
	if err != nil {
		return err
	}

	p.ID = uuid.Nil
	p.Order = order
	p.OrderID = uuid.Nil
	return nil
}
