// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"estate_assistant_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// EscalationRequested is published when an inbound message asks for a human agent.
type EscalationRequested struct {
	BaseEvent
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

func (e EscalationRequested) EventName() string { return "conversation.escalation.requested" }

// LeadQualified is published when a lead crosses the qualification threshold
// and has been persisted.
type LeadQualified struct {
	BaseEvent
	LeadID string `json:"leadId"`
	Sender string `json:"sender"`
	Score  int    `json:"score"`
}

func (e LeadQualified) EventName() string { return "leads.lead.qualified" }
