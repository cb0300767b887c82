package entity

import (
	"strings"
	"time"
)

// Lead is a prospective contact. The gateway owns it; we only keep a snapshot.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname,omitempty"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Active     bool      `json:"active"`
	LostReason *string   `json:"lost_reason,omitempty"`
	OwnerID    string    `json:"owner_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (l Lead) FullName() string {
	return strings.TrimSpace(l.Name + " " + l.Surname)
}

// LeadPatch is the partial update accepted by the gateway's updateLead.
type LeadPatch struct {
	Active     bool    `json:"active"`
	LostReason *string `json:"lost_reason,omitempty"`
}

// FunnelEntry pairs a Lead with its current pipeline stage.
type FunnelEntry struct {
	ID        string    `json:"id"`
	Lead      Lead      `json:"lead"`
	Stage     Stage     `json:"stage"`
	UpdatedAt time.Time `json:"updated_at"`
}
