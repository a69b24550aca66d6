package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodbridge/go-donation-backend/internal/domain"
	"github.com/foodbridge/go-donation-backend/internal/geo"
	"github.com/foodbridge/go-donation-backend/internal/http/middleware"
	"github.com/foodbridge/go-donation-backend/internal/publicdata"
	"github.com/foodbridge/go-donation-backend/internal/repo"
	"github.com/foodbridge/go-donation-backend/internal/services"
)

// stubWorkflow implements AllocationWorkflow with overridable funcs so
// each test controls exactly one behavior.
type stubWorkflow struct {
	register     func(ctx context.Context, auth domain.AuthContext, itemName, category string, quantity int, expiration time.Time) (*domain.Donation, error)
	listDons     func(ctx context.Context, auth domain.AuthContext, origin *geo.Point) ([]repo.DonationWithRestaurant, error)
	accept       func(ctx context.Context, auth domain.AuthContext, donationID string) (*services.MatchSummary, error)
	review       func(ctx context.Context, auth domain.AuthContext, matchID, decision string) (*services.MatchSummary, error)
	listPending  func(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error)
	listAccepted func(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error)
	history      func(ctx context.Context, auth domain.AuthContext, matchID string) ([]domain.MatchLog, error)
}

func (s *stubWorkflow) RegisterDonation(ctx context.Context, auth domain.AuthContext, itemName, category string, quantity int, expiration time.Time) (*domain.Donation, error) {
	return s.register(ctx, auth, itemName, category, quantity, expiration)
}

func (s *stubWorkflow) ListAvailableDonations(ctx context.Context, auth domain.AuthContext, origin *geo.Point) ([]repo.DonationWithRestaurant, error) {
	return s.listDons(ctx, auth, origin)
}

func (s *stubWorkflow) AcceptDonation(ctx context.Context, auth domain.AuthContext, donationID string) (*services.MatchSummary, error) {
	return s.accept(ctx, auth, donationID)
}

func (s *stubWorkflow) ReviewMatch(ctx context.Context, auth domain.AuthContext, matchID, decision string) (*services.MatchSummary, error) {
	return s.review(ctx, auth, matchID, decision)
}

func (s *stubWorkflow) ListPendingMatches(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error) {
	return s.listPending(ctx, auth)
}

func (s *stubWorkflow) ListAcceptedMatches(ctx context.Context, auth domain.AuthContext) ([]repo.MatchDetail, error) {
	return s.listAccepted(ctx, auth)
}

func (s *stubWorkflow) MatchHistory(ctx context.Context, auth domain.AuthContext, matchID string) ([]domain.MatchLog, error) {
	return s.history(ctx, auth, matchID)
}

// newTestRouter wires the handlers behind the auth middleware the way
// the real router does.
func newTestRouter(wf AllocationWorkflow, dir Directory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthContext())
	h := New(wf, dir)
	r.POST("/donations", h.CreateDonation)
	r.GET("/donations", h.ListDonations)
	r.POST("/donations/:id/accept", h.AcceptDonation)
	r.GET("/matches/pending", h.ListPendingMatches)
	r.GET("/matches/accepted", h.ListAcceptedMatches)
	r.POST("/matches/:id/accept", h.AcceptMatch)
	r.POST("/matches/:id/reject", h.RejectMatch)
	r.POST("/matches/:id/complete", h.CompleteMatch)
	r.GET("/matches/:id/history", h.MatchHistory)
	r.GET("/public/restaurants", h.PublicRestaurants)
	r.GET("/public/recipients", h.PublicRecipients)
	r.GET("/public/foodbanks", h.PublicFoodbanks)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func asDonor() map[string]string {
	return map[string]string{"X-User-ID": "donor-1", "X-User-Role": "DONOR"}
}

func asRecipient() map[string]string {
	return map[string]string{"X-User-ID": "rec-1", "X-User-Role": "RECIPIENT"}
}

func asFoodBank() map[string]string {
	return map[string]string{"X-User-ID": "fb-1", "X-User-Role": "FOOD_BANK"}
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("error envelope json: %v (body %s)", err, w.Body.String())
	}
	return er.Code
}

func TestCreateDonation(t *testing.T) {
	exp := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	wf := &stubWorkflow{
		register: func(_ context.Context, auth domain.AuthContext, itemName, category string, quantity int, expiration time.Time) (*domain.Donation, error) {
			if !auth.Is(domain.RoleDonor) {
				return nil, services.ErrForbidden
			}
			if strings.TrimSpace(itemName) == "" {
				return nil, services.ErrInvalidItemName
			}
			if quantity <= 0 {
				return nil, services.ErrInvalidQuantity
			}
			return &domain.Donation{
				ID:             "d-1",
				RestaurantID:   "rest-1",
				ItemName:       itemName,
				Category:       category,
				Quantity:       quantity,
				ExpirationDate: expiration,
				Status:         domain.DonationAvailable,
			}, nil
		},
	}
	r := newTestRouter(wf, nil)

	t.Run("invalid body", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/donations", `{"item_name":`, asDonor())
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/donations", `{"category":"Bakery"}`, asDonor())
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		body := `{"item_name":"Bread","quantity":3,"expiration_date":"` + exp.Format(time.RFC3339) + `"}`
		w := doJSON(t, r, http.MethodPost, "/donations", body, asRecipient())
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d; want 403", w.Code)
		}
		if errCode(t, w) != ErrCodeForbidden {
			t.Fatalf("code = %s", errCode(t, w))
		}
	})

	t.Run("blank item name", func(t *testing.T) {
		body := `{"item_name":"   ","category":"Bakery","quantity":3,"expiration_date":"` + exp.Format(time.RFC3339) + `"}`
		w := doJSON(t, r, http.MethodPost, "/donations", body, asDonor())
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "item name is required") {
			t.Fatalf("message should name the item field, got %s", w.Body.String())
		}
	})

	t.Run("created", func(t *testing.T) {
		body := `{"item_name":"Bread","category":"Bakery","quantity":3,"expiration_date":"` + exp.Format(time.RFC3339) + `"}`
		w := doJSON(t, r, http.MethodPost, "/donations", body, asDonor())
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d; want 201 (body %s)", w.Code, w.Body.String())
		}
		var d domain.Donation
		if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
			t.Fatalf("json: %v", err)
		}
		if d.ID != "d-1" || d.ItemName != "Bread" || d.Status != domain.DonationAvailable {
			t.Fatalf("unexpected donation: %+v", d)
		}
	})

	t.Run("no restaurant registered", func(t *testing.T) {
		wf.register = func(context.Context, domain.AuthContext, string, string, int, time.Time) (*domain.Donation, error) {
			return nil, services.ErrRestaurantNotFound
		}
		body := `{"item_name":"Bread","quantity":3,"expiration_date":"` + exp.Format(time.RFC3339) + `"}`
		w := doJSON(t, r, http.MethodPost, "/donations", body, asDonor())
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d; want 404", w.Code)
		}
	})
}

func TestListDonations(t *testing.T) {
	var gotOrigin *geo.Point
	wf := &stubWorkflow{
		listDons: func(_ context.Context, auth domain.AuthContext, origin *geo.Point) ([]repo.DonationWithRestaurant, error) {
			if !auth.Is(domain.RoleRecipient) {
				return nil, services.ErrForbidden
			}
			gotOrigin = origin
			return []repo.DonationWithRestaurant{{ID: "d-1", ItemName: "Bread"}}, nil
		},
	}
	r := newTestRouter(wf, nil)

	t.Run("wrong role", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/donations", "", asFoodBank())
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d; want 403", w.Code)
		}
	})

	t.Run("no origin", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/donations", "", asRecipient())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", w.Code)
		}
		if gotOrigin != nil {
			t.Fatalf("expected nil origin, got %+v", gotOrigin)
		}
	})

	t.Run("with origin", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/donations?lat=37.5&lng=127.0", "", asRecipient())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", w.Code)
		}
		if gotOrigin == nil || gotOrigin.Lat != 37.5 || gotOrigin.Lng != 127.0 {
			t.Fatalf("origin not forwarded: %+v", gotOrigin)
		}
	})

	t.Run("lone lat", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/donations?lat=37.5", "", asRecipient())
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}
	})

	t.Run("malformed lng", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/donations?lat=37.5&lng=east", "", asRecipient())
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}
	})
}

func TestAcceptDonation(t *testing.T) {
	donationID := uuid.NewString()
	fb := "fb-9"

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"forbidden", services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{"not found", services.ErrDonationNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"no food bank", services.ErrNoFoodBankAvailable, http.StatusNotFound, ErrCodeNotFound},
		{"expired", services.ErrDonationExpired, http.StatusConflict, ErrCodeDonationExpired},
		{"already claimed", services.ErrDonationNotAvailable, http.StatusConflict, ErrCodeConflict},
		{"duplicate race", services.ErrDuplicateMatch, http.StatusConflict, ErrCodeConflict},
		{"upstream down", publicdata.ErrUpstreamUnavailable, http.StatusBadGateway, ErrCodeUpstreamUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wf := &stubWorkflow{
				accept: func(context.Context, domain.AuthContext, string) (*services.MatchSummary, error) {
					return nil, tc.err
				},
			}
			r := newTestRouter(wf, nil)
			w := doJSON(t, r, http.MethodPost, "/donations/"+donationID+"/accept", "", asRecipient())
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantStatus)
			}
			if got := errCode(t, w); got != tc.wantCode {
				t.Fatalf("code = %s; want %s", got, tc.wantCode)
			}
		})
	}

	t.Run("non-uuid id", func(t *testing.T) {
		wf := &stubWorkflow{
			accept: func(context.Context, domain.AuthContext, string) (*services.MatchSummary, error) {
				t.Fatalf("workflow must not be called for invalid id")
				return nil, nil
			},
		}
		r := newTestRouter(wf, nil)
		w := doJSON(t, r, http.MethodPost, "/donations/not-a-uuid/accept", "", asRecipient())
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d; want 400", w.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		wf := &stubWorkflow{
			accept: func(_ context.Context, auth domain.AuthContext, id string) (*services.MatchSummary, error) {
				if auth.UserID != "rec-1" || id != donationID {
					t.Fatalf("unexpected args: %+v %s", auth, id)
				}
				return &services.MatchSummary{
					MatchID:    "m-1",
					DonationID: id,
					FoodBankID: &fb,
					Status:     domain.MatchPending,
				}, nil
			},
		}
		r := newTestRouter(wf, nil)
		w := doJSON(t, r, http.MethodPost, "/donations/"+donationID+"/accept", "", asRecipient())
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d; want 201 (body %s)", w.Code, w.Body.String())
		}
		var s services.MatchSummary
		if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
			t.Fatalf("json: %v", err)
		}
		if s.MatchID != "m-1" || s.FoodBankID == nil || *s.FoodBankID != fb || s.Status != domain.MatchPending {
			t.Fatalf("unexpected summary: %+v", s)
		}
	})
}
