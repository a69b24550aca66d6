package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodbridge/go-donation-backend/internal/domain"
	"gorm.io/gorm"
)

func seedMatchFixtures(t *testing.T, db *gorm.DB) (donationID string) {
	t.Helper()
	if err := db.Create(&domain.User{ID: "rec-1", Role: domain.RoleRecipient, Name: "Community Kitchen", Address: "9 Elm St"}).Error; err != nil {
		t.Fatalf("seed recipient: %v", err)
	}
	seedRestaurant(t, db, "r1", ptr(37.5), ptr(127.0))
	d := domain.Donation{ID: "d1", RestaurantID: "r1", ItemName: "noodles", Category: "GRAIN",
		Quantity: 4, ExpirationDate: time.Now().Add(time.Hour), Status: domain.DonationAvailable}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed donation: %v", err)
	}
	return d.ID
}

func TestCreateMatch_UniquePerDonation(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Restaurant{}, &domain.Donation{}, &domain.Match{})
	donationID := seedMatchFixtures(t, db)

	fb := "fb-1"
	m, err := CreateMatch(context.Background(), db, donationID, "rec-1", &fb)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if m.Status != domain.MatchPending || m.FoodBankID == nil || *m.FoodBankID != "fb-1" {
		t.Fatalf("unexpected Match fields: %+v", m)
	}

	// Second claim on the same donation, even by a different recipient,
	// hits the unique index.
	if err := db.Create(&domain.User{ID: "rec-2", Role: domain.RoleRecipient, Name: "Shelter"}).Error; err != nil {
		t.Fatalf("seed second recipient: %v", err)
	}
	if _, err := CreateMatch(context.Background(), db, donationID, "rec-2", &fb); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second claim err=%v; want ErrDuplicate", err)
	}
}

func TestGetMatchByDonation(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Restaurant{}, &domain.Donation{}, &domain.Match{})
	donationID := seedMatchFixtures(t, db)

	if _, err := GetMatchByDonation(context.Background(), db, donationID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("before claim err=%v; want ErrNotFound", err)
	}

	created, err := CreateMatch(context.Background(), db, donationID, "rec-1", nil)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	got, err := GetMatchByDonation(context.Background(), db, donationID)
	if err != nil {
		t.Fatalf("GetMatchByDonation: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("got match %s; want %s", got.ID, created.ID)
	}
}

func TestUpdateMatchStatus_CompareAndSwapAndOwner(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Restaurant{}, &domain.Donation{}, &domain.Match{})
	donationID := seedMatchFixtures(t, db)

	m, err := CreateMatch(context.Background(), db, donationID, "rec-1", nil)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	fb := "fb-9"
	if err := UpdateMatchStatus(context.Background(), db, m.ID, domain.MatchPending, domain.MatchAccepted, &fb); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got, _ := GetMatch(context.Background(), db, m.ID)
	if got.Status != domain.MatchAccepted || got.FoodBankID == nil || *got.FoodBankID != "fb-9" {
		t.Fatalf("after accept: %+v", got)
	}

	// A late reject expecting PENDING must fail.
	err = UpdateMatchStatus(context.Background(), db, m.ID, domain.MatchPending, domain.MatchRejected, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale transition err=%v; want ErrNotFound", err)
	}
}

func TestListPendingMatches_JoinsAndOrder(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Restaurant{}, &domain.Donation{}, &domain.Match{})
	seedMatchFixtures(t, db)

	d2 := domain.Donation{ID: "d2", RestaurantID: "r1", ItemName: "stew", Category: "PREPARED",
		Quantity: 2, ExpirationDate: time.Now().Add(time.Hour), Status: domain.DonationAvailable}
	if err := db.Create(&d2).Error; err != nil {
		t.Fatalf("seed d2: %v", err)
	}

	t1 := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	older := domain.Match{ID: "m-old", DonationID: "d1", RecipientID: "rec-1", Status: domain.MatchPending, CreatedAt: t1}
	newer := domain.Match{ID: "m-new", DonationID: "d2", RecipientID: "rec-1", Status: domain.MatchPending, CreatedAt: t1.Add(time.Hour)}
	for _, m := range []domain.Match{newer, older} {
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed %s: %v", m.ID, err)
		}
	}

	rows, err := ListPendingMatches(context.Background(), db)
	if err != nil {
		t.Fatalf("ListPendingMatches: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows; want 2", len(rows))
	}
	// Oldest first.
	if rows[0].MatchID != "m-old" || rows[1].MatchID != "m-new" {
		t.Fatalf("order = [%s %s]; want [m-old m-new]", rows[0].MatchID, rows[1].MatchID)
	}
	if rows[0].RecipientName != "Community Kitchen" || rows[0].RestaurantName != "Restaurant r1" || rows[0].ItemName != "noodles" {
		t.Fatalf("join fields wrong: %+v", rows[0])
	}
}

func TestListAcceptedMatches_ScopedToFoodBank(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Restaurant{}, &domain.Donation{}, &domain.Match{})
	seedMatchFixtures(t, db)

	d2 := domain.Donation{ID: "d2", RestaurantID: "r1", ItemName: "stew", Category: "PREPARED",
		Quantity: 2, ExpirationDate: time.Now().Add(time.Hour), Status: domain.DonationRequested}
	if err := db.Create(&d2).Error; err != nil {
		t.Fatalf("seed d2: %v", err)
	}

	mine := "fb-mine"
	other := "fb-other"
	for _, m := range []domain.Match{
		{ID: "m-mine", DonationID: "d1", RecipientID: "rec-1", FoodBankID: &mine, Status: domain.MatchAccepted},
		{ID: "m-other", DonationID: "d2", RecipientID: "rec-1", FoodBankID: &other, Status: domain.MatchAccepted},
	} {
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed %s: %v", m.ID, err)
		}
	}

	rows, err := ListAcceptedMatches(context.Background(), db, "fb-mine")
	if err != nil {
		t.Fatalf("ListAcceptedMatches: %v", err)
	}
	if len(rows) != 1 || rows[0].MatchID != "m-mine" {
		t.Fatalf("rows = %+v; want only m-mine", rows)
	}
}

func TestMatchLogs_AppendAndListOldestFirst(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.Restaurant{}, &domain.Donation{}, &domain.Match{}, &domain.MatchLog{})
	donationID := seedMatchFixtures(t, db)

	m, err := CreateMatch(context.Background(), db, donationID, "rec-1", nil)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	if _, err := AppendMatchLog(context.Background(), db, m.ID, "rec-1", "", domain.MatchPending, "claim created"); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if _, err := AppendMatchLog(context.Background(), db, m.ID, "fb-1", domain.MatchPending, domain.MatchAccepted, "accepted"); err != nil {
		t.Fatalf("append second: %v", err)
	}

	logs, err := ListMatchLogs(context.Background(), db, m.ID)
	if err != nil {
		t.Fatalf("ListMatchLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d log rows; want 2", len(logs))
	}
	if logs[0].NewStatus != domain.MatchPending || logs[1].NewStatus != domain.MatchAccepted {
		t.Fatalf("order wrong: %+v", logs)
	}
	if logs[1].ActorID != "fb-1" || logs[1].PreviousStatus != domain.MatchPending {
		t.Fatalf("second row fields wrong: %+v", logs[1])
	}
}

func TestIdempotency_RoundTripAndDuplicate(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	if _, err := GetIdempotency(context.Background(), db, "u1", "d1", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record err=%v; want ErrNotFound", err)
	}

	rec, err := CreateIdempotency(context.Background(), db, "u1", "d1", "k1", "m1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.MatchID != "m1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(context.Background(), db, "u1", "d1", "k1", now)
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("got %s; want %s", got.ID, rec.ID)
	}

	if _, err := CreateIdempotency(context.Background(), db, "u1", "d1", "k1", "m2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("replay err=%v; want ErrDuplicate", err)
	}

	// Expired records are invisible.
	if _, err := GetIdempotency(context.Background(), db, "u1", "d1", "k1", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record err=%v; want ErrNotFound", err)
	}
}
