// Package domain defines the persistence models for users, restaurants,
// donations, matches, and the match audit trail. These types are mapped
// with GORM and form the core data layer of the donation-matching backend.
package domain

// Role identifies what a user is allowed to do in the system. Roles are
// immutable after account creation.
type Role string

const (
	// RoleDonor owns a restaurant and registers surplus donations.
	RoleDonor Role = "DONOR"
	// RoleRecipient claims available donations, creating matches.
	RoleRecipient Role = "RECIPIENT"
	// RoleFoodBank adjudicates pending matches (accept/reject).
	RoleFoodBank Role = "FOOD_BANK"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleRecipient, RoleFoodBank:
		return true
	}
	return false
}

// DonationStatus is the canonical (uppercase) representation of a
// donation's lifecycle state. Any casing differences are a transport
// concern; the ledgers only ever see these values.
type DonationStatus string

const (
	// DonationAvailable means the lot is offered and unclaimed.
	DonationAvailable DonationStatus = "AVAILABLE"
	// DonationRequested means a recipient claimed the lot and a match
	// is pending food-bank review.
	DonationRequested DonationStatus = "REQUESTED"
	// DonationConfirmed means the matched hand-off completed.
	DonationConfirmed DonationStatus = "CONFIRMED"
)

// Valid reports whether s is a known donation status.
func (s DonationStatus) Valid() bool {
	switch s {
	case DonationAvailable, DonationRequested, DonationConfirmed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the donation state machine permits the
// edge s → next. The only legal edges are AVAILABLE→REQUESTED (claim)
// and REQUESTED→CONFIRMED (completion). A donation leaves AVAILABLE at
// most once.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	switch s {
	case DonationAvailable:
		return next == DonationRequested
	case DonationRequested:
		return next == DonationConfirmed
	}
	return false
}

// MatchStatus is the canonical representation of a match's lifecycle
// state.
type MatchStatus string

const (
	// MatchPending means the claim awaits food-bank adjudication.
	MatchPending MatchStatus = "PENDING"
	// MatchAccepted means a food bank took responsibility for the match.
	MatchAccepted MatchStatus = "ACCEPTED"
	// MatchRejected is terminal: the food bank declined the claim.
	MatchRejected MatchStatus = "REJECTED"
	// MatchCompleted is terminal: the hand-off finished.
	MatchCompleted MatchStatus = "COMPLETED"
)

// Valid reports whether s is a known match status.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchPending, MatchAccepted, MatchRejected, MatchCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s MatchStatus) Terminal() bool {
	return s == MatchRejected || s == MatchCompleted
}

// CanTransitionTo reports whether the match state machine permits the
// edge s → next: PENDING→{ACCEPTED,REJECTED} and ACCEPTED→COMPLETED.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchPending:
		return next == MatchAccepted || next == MatchRejected
	case MatchAccepted:
		return next == MatchCompleted
	}
	return false
}
