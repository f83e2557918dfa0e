package domain

import (
	"fmt"
	"strings"
	"time"
)

// Book is a catalog entry.
type Book struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate enforces the fields required on create and update.
func (b *Book) Validate() error {
	var missing []string
	if strings.TrimSpace(b.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(b.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(b.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	if b.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}

// BookFilter narrows ListBooks. Zero value lists everything.
type BookFilter struct {
	Category string
}
