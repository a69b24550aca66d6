package domain

import "time"

// Idempotency records the result of a previously processed unsafe
// request, keyed by (user_id, donation_id, key). It lets clients retry
// POSTs (network failures, timeouts) without re-executing side effects:
// the transport layer flags the replay and the handler serves the
// previously persisted match instead of allocating again.
type Idempotency struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID     string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_donation_key,priority:1"`
	DonationID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_donation_key,priority:2"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_donation_key,priority:3"`
	MatchID    string    `gorm:"type:TEXT NOT NULL"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
