package models

import "time"

// Service is an accounting service offered on the site
type Service struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Position    int       `json:"position"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServiceCreate is the payload to create a service
type ServiceCreate struct {
	Name        string `json:"name" yaml:"name"`
	Summary     string `json:"summary" yaml:"summary"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Position    int    `json:"position" yaml:"position"`
	Active      *bool  `json:"active" yaml:"active"`
}

// ServiceUpdate is the payload to update a service; nil fields are kept
type ServiceUpdate struct {
	Name        *string `json:"name"`
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Position    *int    `json:"position"`
	Active      *bool   `json:"active"`
}
