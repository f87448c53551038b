package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderPayment represents the single payment settling an Order.
type OrderPayment struct {
	CreatedOn time.Time `json:"created_on"`
	Order     *Order    `json:"order,omitempty"`

	Currency string    `json:"currency" gorm:"size:3;not null"                 faker:"currency"`
	ID       uuid.UUID `json:"id"       gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `json:"order_id" gorm:"type:uuid;uniqueIndex;not null"`
	Amount   float64   `json:"amount"   gorm:"not null"                        faker:"amount"`
}

// BeforeCreate assigns the persistence identity when the payment has none.
func (p *OrderPayment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
