package models

import "time"

// Participant is one row per roster entry, keyed by phone number. PIN,
// RegisteredAt and RevealedAt start out NULL and are each set at most once
// through the normal flow; only an admin reset overwrites an existing PIN.
type Participant struct {
	Phone           string     `gorm:"size:20;primaryKey" json:"phone"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	PIN             *string    `gorm:"column:pin;size:6" json:"-"`
	AssignedToPhone string     `gorm:"size:20;not null" json:"-"`
	AssignedToName  string     `gorm:"size:100;not null" json:"-"`
	RegisteredAt    *time.Time `json:"registered_at,omitempty"`
	RevealedAt      *time.Time `json:"revealed_at,omitempty"`
}

func (p *Participant) Registered() bool {
	return p.RegisteredAt != nil
}

func (p *Participant) Revealed() bool {
	return p.RevealedAt != nil
}
