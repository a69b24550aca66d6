// Package services defines the business logic for donations, matches, and
// the allocation workflow. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Donation-related errors.
var (
	// ErrDonationNotFound indicates that the requested donation does not exist.
	ErrDonationNotFound = errors.New("donation not found")

	// ErrRestaurantNotFound indicates the acting donor does not manage a
	// restaurant, so there is nowhere to attach the donation.
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// ErrInvalidItemName is returned when a donation is created with a
	// blank item name.
	ErrInvalidItemName = errors.New("item name is required")

	// ErrInvalidQuantity is returned when a donation is created with a
	// zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidDate is returned when an expiration date is missing,
	// unparseable, or not strictly in the future.
	ErrInvalidDate = errors.New("expiration date must be in the future")

	// ErrInvalidTransition is returned when a donation status change does
	// not follow a legal state-machine edge.
	ErrInvalidTransition = errors.New("illegal donation status transition")

	// ErrDonationNotAvailable indicates that the donation has already been
	// claimed or confirmed and cannot be requested.
	ErrDonationNotAvailable = errors.New("donation is not available")

	// ErrDonationExpired indicates that the donation's expiration date has
	// passed.
	ErrDonationExpired = errors.New("donation has expired")
)

// Match-related errors.
var (
	// ErrMatchNotFound indicates that the requested match does not exist.
	ErrMatchNotFound = errors.New("match not found")

	// ErrDuplicateMatch is returned when a donation already has a match.
	// Each donation is claimable exactly once.
	ErrDuplicateMatch = errors.New("match already exists for donation")

	// ErrInvalidState is returned when a match decision targets a match
	// that is no longer pending, or a completion targets one not accepted.
	ErrInvalidState = errors.New("match is not in a decidable state")

	// ErrMissingActor is returned when a match decision arrives without an
	// identified food bank.
	ErrMissingActor = errors.New("acting food bank is required")

	// ErrNoFoodBankAvailable indicates that no food bank with usable
	// coordinates could be resolved near the donation.
	ErrNoFoodBankAvailable = errors.New("no food bank available")
)

// Workflow-related errors.
var (
	// ErrForbidden is returned when the acting user's role or identity
	// does not permit the requested operation.
	ErrForbidden = errors.New("operation not permitted for this user")
)
