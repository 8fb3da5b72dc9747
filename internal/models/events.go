package models

import "time"

// Event types
const (
	EventTypeObservationRecorded  = "OBSERVATION_RECORDED"
	EventTypeObservationDuplicate = "OBSERVATION_DUPLICATE"
	EventTypeObservationArchived  = "OBSERVATION_ARCHIVED"
	EventTypeCostUpdated          = "COST_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ObservationRecordedEvent published when a new observation is normalized and stored
type ObservationRecordedEvent struct {
	BaseEvent
	ObservationID int64  `json:"observation_id"`
	SKUID         int64  `json:"sku_id"`
	CompanyID     int64  `json:"company_id"`
	HashKey       string `json:"hash_key"`
	PriceIncGST   string `json:"price_inc_gst"`
	PriceBasis    string `json:"price_basis"`
}

// ObservationDuplicateEvent published when an incoming observation matched an
// existing hash and was skipped
type ObservationDuplicateEvent struct {
	BaseEvent
	SKUID      int64  `json:"sku_id"`
	CompanyID  int64  `json:"company_id"`
	HashKey    string `json:"hash_key"`
	ExistingID int64  `json:"existing_id"`
}

// ObservationArchivedEvent published when an observation is soft deleted
type ObservationArchivedEvent struct {
	BaseEvent
	ObservationID int64  `json:"observation_id"`
	HashKey       string `json:"hash_key"`
}

// CostUpdatedEvent published when a cost record is upserted
type CostUpdatedEvent struct {
	BaseEvent
	CostRecordID int64  `json:"cost_record_id"`
	SKUID        int64  `json:"sku_id"`
	CostType     string `json:"cost_type"`
	EffectiveAt  string `json:"effective_at"`
}
