package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a customer with one-to-many Orders.
type Customer struct {
	CreatedOn time.Time `json:"created_on"`

	Name  string `faker:"name"  gorm:"size:200;not null"    json:"name"`
	Email string `faker:"email" gorm:"size:255;uniqueIndex" json:"email"`

	Orders []Order   `json:"orders"`
	ID     uuid.UUID `json:"id"     gorm:"type:uuid;primaryKey"`
}

// BeforeCreate assigns the persistence identity when the customer has none.
func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
