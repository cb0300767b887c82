package entity

import "time"

type EventType string

const (
	EventStageChanged   EventType = "funnel.stage_changed"
	EventLeadArchived   EventType = "funnel.lead_archived"
	EventClientMigrated EventType = "funnel.client_migrated"
)

// FunnelEvent is published after a confirmed change to the board.
type FunnelEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	EntryID    string    `json:"entry_id,omitempty"`
	LeadID     string    `json:"lead_id,omitempty"`
	FromStage  Stage     `json:"from_stage,omitempty"`
	ToStage    Stage     `json:"to_stage,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Client     *Client   `json:"client,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
