package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account with a fixed role. Latitude/longitude are
// nullable: accounts registered before geocoding completes have no
// coordinates and are simply ranked last by proximity queries.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Role: DONOR, RECIPIENT, or FOOD_BANK (enforced by DB constraint);
//     immutable after creation.
//   - Name / Address / Phone: contact information.
//   - Latitude / Longitude: geo-coordinates, nil until known.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	Role      Role           `json:"role"      gorm:"type:varchar(16);not null;check:role IN ('DONOR','RECIPIENT','FOOD_BANK')"`
	Name      string         `json:"name"      gorm:"type:varchar(255);not null"`
	Address   string         `json:"address"   gorm:"type:varchar(512)"`
	Phone     string         `json:"phone"     gorm:"type:varchar(32)"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Restaurant is the donor-owned establishment donations originate from.
// Each restaurant belongs to exactly one DONOR user (ManagerID).
type Restaurant struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	ManagerID string         `json:"manager_id" gorm:"type:char(36);not null;index:idx_restaurant_manager"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null"`
	Address   string         `json:"address"    gorm:"type:varchar(512)"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	// Manager is the owning donor account.
	Manager User `json:"-" gorm:"foreignKey:ManagerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Restaurant.
func (Restaurant) TableName() string { return "restaurants" }

// Donation represents one offered food lot. Its status walks the
// AVAILABLE → REQUESTED → CONFIRMED state machine; the REQUESTED edge is
// taken exactly once, by the allocation workflow.
//
// Invariants: Quantity > 0 always; ExpirationDate is strictly in the
// future at creation time and re-checked at claim time.
type Donation struct {
	ID             string         `json:"id"              gorm:"type:char(36);primaryKey"`
	RestaurantID   string         `json:"restaurant_id"   gorm:"type:char(36);not null;index:idx_donation_restaurant"`
	ItemName       string         `json:"item_name"       gorm:"type:varchar(255);not null"`
	Category       string         `json:"category"        gorm:"type:varchar(64);not null"`
	Quantity       int            `json:"quantity"        gorm:"not null;check:quantity > 0"`
	ExpirationDate time.Time      `json:"expiration_date" gorm:"not null"`
	Status         DonationStatus `json:"status"          gorm:"type:varchar(16);not null;default:'AVAILABLE';check:status IN ('AVAILABLE','REQUESTED','CONFIRMED')"`
	CreatedAt      time.Time      `json:"created_at"      gorm:"index"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"               gorm:"index"`

	// Restaurant is the owning establishment. Donations are
	// cascade-deleted if their restaurant is removed.
	Restaurant Restaurant `json:"-" gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Donation.
func (Donation) TableName() string { return "donations" }

// Expired reports whether the donation's expiration date is at or before
// the given instant.
func (d Donation) Expired(now time.Time) bool {
	return !d.ExpirationDate.After(now)
}

// Match represents a recipient's claim against a donation, pending
// food-bank adjudication. The unique index on DonationID is what makes
// "at most one Match per Donation" hold under concurrent claims: the
// duplicate-check-then-insert race is settled by the database, not by
// application code.
//
// FoodBankID holds the identifier of the food bank resolved as nearest
// at claim time, and is overwritten by the identifier of the food bank
// that actually accepts. It references the external reference-data pool
// by opaque id, so it is a plain string rather than a foreign key.
type Match struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	DonationID  string         `json:"donation_id"  gorm:"type:char(36);not null;uniqueIndex:ux_match_donation"`
	RecipientID string         `json:"recipient_id" gorm:"type:char(36);not null;index:idx_match_recipient"`
	FoodBankID  *string        `json:"food_bank_id" gorm:"type:varchar(64);index:idx_match_foodbank"`
	Status      MatchStatus    `json:"status"       gorm:"type:varchar(16);not null;default:'PENDING';check:status IN ('PENDING','ACCEPTED','REJECTED','COMPLETED')"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`

	// Donation is the claimed lot. The match is cascade-deleted with it.
	Donation Donation `json:"-" gorm:"foreignKey:DonationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Match.
func (Match) TableName() string { return "matches" }

// MatchLog is the append-only audit trail of match status transitions.
// Rows are written by the ledgers and never mutated or deleted.
type MatchLog struct {
	ID             string      `json:"id"              gorm:"type:char(36);primaryKey"`
	MatchID        string      `json:"match_id"        gorm:"type:char(36);not null;index:idx_matchlog_match"`
	ActorID        string      `json:"actor_id"        gorm:"type:varchar(64);not null"`
	PreviousStatus MatchStatus `json:"previous_status" gorm:"type:varchar(16)"`
	NewStatus      MatchStatus `json:"new_status"      gorm:"type:varchar(16);not null"`
	Note           string      `json:"note"            gorm:"type:varchar(512)"`
	CreatedAt      time.Time   `json:"created_at"`

	// Match is the audited claim. Log rows are cascade-deleted with it.
	Match Match `json:"-" gorm:"foreignKey:MatchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MatchLog.
func (MatchLog) TableName() string { return "match_logs" }
