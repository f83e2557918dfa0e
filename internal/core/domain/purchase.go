package domain

import "time"

const PurchaseCompleted = "completed"

// Purchase records a simulated checkout. No card data beyond the last four
// digits is ever stored.
type Purchase struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	BookName  string    `json:"bookName"`
	Amount    float64   `json:"amount"`
	CardLast4 string    `json:"cardLast4"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
