package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses produced by the generator.
const (
	OrderStatusNew        = "NEW"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
)

// Order represents an order linked to exactly one Customer, optionally paid.
type Order struct {
	CreatedOn time.Time     `json:"created_on"`
	Customer  *Customer     `json:"customer,omitempty"`
	Payment   *OrderPayment `json:"payment,omitempty"`

	Status     string    `json:"status"      gorm:"size:50;not null"            faker:"oneof: NEW, PROCESSING, SHIPPED"`
	ID         uuid.UUID `json:"id"          gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;index;not null"`
	Amount     float64   `json:"amount"      gorm:"not null"                    faker:"amount"`
}

// BeforeCreate assigns the persistence identity when the order has none.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
