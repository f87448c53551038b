// Package model holds the Customer, Order and OrderPayment entities.
//
// Entities are plain data holders shared by the fake generator and the gorm
// persistence layer. Identity is a uuid; uuid.Nil means "not yet assigned" and
// is replaced by a fresh uuid when the entity is first created in the database.
package model

// All returns the persisted models, parents first.
func All() []any {
	return []any{&Customer{}, &Order{}, &OrderPayment{}}
}
