package mmodel

import "time"

// Event is one append-only row in the domain event stream.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	CorrelationID  string    `json:"correlation_id"`
	CausationID    string    `json:"causation_id"`
	ActorType      string    `json:"actor_type"`
	ActorID        string    `json:"actor_id"`
	SchemaVersion  int       `json:"schema_version"`
	PayloadJSON    string    `json:"payload_json"`
	CreatedAt      time.Time `json:"created_at"`
}

// Event names emitted by the core (spec §4.6, §4.8, §4.9, §4.10).
const (
	EventTxnPosted             = "TXN_POSTED"
	EventTxnCompleted          = "TXN_COMPLETED"
	EventReconciliationMismatch = "RECONCILIATION_MISMATCH"
	EventIntegrityCheckFailed  = "INTEGRITY_CHECK_FAILED"
	EventRepairExecuted        = "REPAIR_EXECUTED"
	EventStateRepaired         = "STATE_REPAIRED"
	EventConsumerError         = "CONSUMER_ERROR"
	EventQueueMessageProcessed = "QUEUE_MESSAGE_PROCESSED"
)

// AuditLog is an append-only record of a mutating action, with
// before/after snapshots for governance review.
type AuditLog struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	ActorType     string    `json:"actor_type"`
	ActorID       string    `json:"actor_id"`
	TargetType    string    `json:"target_type"`
	TargetID      string    `json:"target_id"`
	BeforeJSON    string    `json:"before_json,omitempty"`
	AfterJSON     string    `json:"after_json,omitempty"`
	CorrelationID string    `json:"correlation_id"`
	CreatedAt     time.Time `json:"created_at"`
}
