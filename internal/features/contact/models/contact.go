package models

import (
	"time"
)

// Status is the handling state of a contact submission
type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusAnswered Status = "answered"
	StatusArchived Status = "archived"
)

// Statuses lists every valid status in workflow order
var Statuses = []Status{StatusNew, StatusRead, StatusAnswered, StatusArchived}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Contact is a message sent through the site contact form
type Contact struct {
	ID        int       `json:"id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Service   string    `json:"service,omitempty"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactCreate is the public form payload
type ContactCreate struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// StatusUpdate is the admin payload to move a contact through the workflow
type StatusUpdate struct {
	Status Status `json:"status"`
}

// ContactStats counts contacts per status
type ContactStats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}
