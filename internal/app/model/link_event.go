package model

import "time"

// LinkEvent announces a link lifecycle change so other replicas can keep
// their caches and path filters in sync.
type LinkEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	LinkID    string    `json:"link_id"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	LinkEventCreated = "created"
	LinkEventUpdated = "updated"

	LinkStreamName     = "LINKS"
	LinkStreamSubject  = "links.events"
	LinkConsumerName   = "link-cache-sync"
	LinkStreamMaxBytes = 1024 * 1024 * 10 // 10MB
)
