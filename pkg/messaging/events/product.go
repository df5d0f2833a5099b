package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProductCreatedSubject = "product.created"
	ProductUpdatedSubject = "product.updated"
	ProductDeletedSubject = "product.deleted"

	// ProductSubjects is the wildcard the product stream captures.
	ProductSubjects = "product.*"
)

// ProductChanged is published after a product is created or updated.
type ProductChanged struct {
	subject    string
	EventID    string          `json:"event_id"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewProductCreated builds the event emitted for a new product.
func NewProductCreated(id, name, category string, price decimal.Decimal) ProductChanged {
	return newProductChanged(ProductCreatedSubject, id, name, category, price)
}

// NewProductUpdated builds the event emitted for an edited product.
func NewProductUpdated(id, name, category string, price decimal.Decimal) ProductChanged {
	return newProductChanged(ProductUpdatedSubject, id, name, category, price)
}

func newProductChanged(subject, id, name, category string, price decimal.Decimal) ProductChanged {
	return ProductChanged{
		subject:    subject,
		EventID:    uuid.NewString(),
		ProductID:  id,
		Name:       name,
		Category:   category,
		Price:      price,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ProductChanged) ID() string {
	return e.EventID
}

func (e ProductChanged) Subject() string {
	return e.subject
}

func (e ProductChanged) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductDeleted is published after a product is removed.
type ProductDeleted struct {
	EventID    string    `json:"event_id"`
	ProductID  string    `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewProductDeleted(id string) ProductDeleted {
	return ProductDeleted{EventID: uuid.NewString(), ProductID: id, OccurredAt: time.Now().UTC()}
}

func (e ProductDeleted) ID() string {
	return e.EventID
}

func (e ProductDeleted) Subject() string {
	return ProductDeletedSubject
}

func (e ProductDeleted) Payload() ([]byte, error) {
	return json.Marshal(e)
}
