package model

import "time"

// CartLine is one product-and-quantity row within a cart. Price, title and
// cover are snapshotted from the catalogue when the line is first added so the
// cart renders without a catalogue join and is insulated from later price
// changes.
type CartLine struct {
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	DisplayName string  `json:"displayName"`
	ImageRef    string  `json:"imageRef,omitempty"`
}

// CartSnapshot is the persisted representation of a user's cart as returned
// by the cart sync service.
type CartSnapshot struct {
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Subtotal returns the sum of quantity times unit price over all lines.
func (s *CartSnapshot) Subtotal() float64 {
	var total float64
	for _, l := range s.Lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}

// Count returns the sum of quantities over all lines.
func (s *CartSnapshot) Count() int {
	var count int
	for _, l := range s.Lines {
		count += l.Quantity
	}
	return count
}

// DraftItem is one order line derived from a cart line at checkout.
type DraftItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	ImageRef  string `json:"imageRef,omitempty"`
}

// OrderDraft is the payload assembled from cart lines and submitted to create
// a persisted order. TotalQuantity is computed from Items, never set by the
// caller. IdempotencyKey is generated client-side and stays stable across
// retries of the same draft so a resubmission after a timeout cannot create a
// duplicate order.
type OrderDraft struct {
	UserID         string      `json:"userId"`
	Items          []DraftItem `json:"items"`
	TotalQuantity  int         `json:"totalQuantity"`
	IdempotencyKey string      `json:"idempotencyKey"`
}
