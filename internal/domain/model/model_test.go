package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestItemStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderItemStatus
		value string
	}{
		{"pending", ItemStatusPending, "PENDING"},
		{"accepted", ItemStatusAccepted, "ACCEPTED"},
		{"rejected", ItemStatusRejected, "REJECTED"},
		{"processing", ItemStatusProcessing, "PROCESSING"},
		{"shipped", ItemStatusShipped, "SHIPPED"},
		{"delivered", ItemStatusDelivered, "DELIVERED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestItemTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderItemStatus
		ok       bool
	}{
		{ItemStatusPending, ItemStatusAccepted, true},
		{ItemStatusPending, ItemStatusRejected, true},
		{ItemStatusAccepted, ItemStatusProcessing, true},
		{ItemStatusAccepted, ItemStatusShipped, true},
		{ItemStatusProcessing, ItemStatusShipped, true},
		{ItemStatusShipped, ItemStatusDelivered, true},
		{ItemStatusPending, ItemStatusShipped, false},
		{ItemStatusRejected, ItemStatusAccepted, false},
		{ItemStatusRejected, ItemStatusPending, false},
		{ItemStatusDelivered, ItemStatusShipped, false},
		{ItemStatusShipped, ItemStatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}

	if !ItemStatusPending.CanReach(ItemStatusDelivered) {
		t.Errorf("expected delivered reachable from pending")
	}
	if ItemStatusRejected.CanReach(ItemStatusDelivered) {
		t.Errorf("expected nothing reachable from rejected")
	}
	if !ItemStatusRejected.Terminal() || !ItemStatusDelivered.Terminal() {
		t.Errorf("expected rejected and delivered to be terminal")
	}
	if ItemStatusPending.CanReach(ItemStatusPending) {
		t.Errorf("expected no cycle back to pending")
	}
}

func TestItemActionRules(t *testing.T) {
	cases := []struct {
		action ItemAction
		from   OrderItemStatus
		target OrderItemStatus
	}{
		{ItemActionAccept, ItemStatusPending, ItemStatusAccepted},
		{ItemActionReject, ItemStatusPending, ItemStatusRejected},
		{ItemActionShip, ItemStatusAccepted, ItemStatusShipped},
		{ItemActionDeliver, ItemStatusShipped, ItemStatusDelivered},
	}
	for _, tc := range cases {
		if !tc.action.AllowedFrom(tc.from) {
			t.Errorf("expected %s allowed from %s", tc.action, tc.from)
		}
		if tc.action.Target() != tc.target {
			t.Errorf("expected %s to target %s, got %s", tc.action, tc.target, tc.action.Target())
		}
		if !tc.from.CanTransitionTo(tc.target) {
			t.Errorf("action %s targets a transition outside the item graph", tc.action)
		}
	}
	if ItemActionShip.AllowedFrom(ItemStatusProcessing) {
		t.Errorf("ship is only offered once accepted")
	}
}

func TestCartDerivedValues(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Product: Product{ID: 1, Price: decimal.RequireFromString("19.99"), Type: ProductTypeDigitalAlbum}, Quantity: 2},
		{Product: Product{ID: 2, Price: decimal.RequireFromString("5.50"), Type: ProductTypeVinyl}, Quantity: 1},
	}}

	if cart.ItemCount() != 3 {
		t.Fatalf("expected 3 items, got %d", cart.ItemCount())
	}
	if !cart.Total().Equal(decimal.RequireFromString("45.48")) {
		t.Fatalf("unexpected total %s", cart.Total())
	}
	if idx, ok := cart.Index(2); !ok || idx != 1 {
		t.Fatalf("expected product 2 at index 1, got %d %v", idx, ok)
	}
	if _, ok := cart.Index(3); ok {
		t.Fatalf("did not expect product 3")
	}
	if !cart.HasPhysical() {
		t.Fatalf("expected vinyl line to be physical")
	}
}

func TestProductDisplayName(t *testing.T) {
	if got := (Product{AlbumTitle: "Kind of Blue"}).DisplayName(); got != "Kind of Blue" {
		t.Errorf("unexpected album name %q", got)
	}
	if got := (Product{AlbumTitle: "Kind of Blue", SongTitle: "So What"}).DisplayName(); got != "So What" {
		t.Errorf("unexpected song name %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, time.March, 5, 14, 30, 15, 0, time.UTC)

	cases := []struct {
		name    string
		raw     string
		valid   bool
		wantErr bool
	}{
		{name: "iso string", raw: `"2024-03-05T14:30:15Z"`, valid: true},
		{name: "local iso string", raw: `"2024-03-05T14:30:15"`, valid: true},
		{name: "tuple", raw: `[2024, 3, 5, 14, 30, 15]`, valid: true},
		{name: "tuple with nanos", raw: `[2024, 3, 5, 14, 30, 15, 0]`, valid: true},
		{name: "null", raw: `null`},
		{name: "empty string", raw: `""`},
		{name: "empty body", raw: ``},
		{name: "short tuple", raw: `[2024, 3]`, wantErr: true},
		{name: "month zero", raw: `[2024, 0, 5, 14, 30, 15]`, wantErr: true},
		{name: "impossible day", raw: `[2024, 2, 31, 0, 0, 0]`, wantErr: true},
		{name: "garbage string", raw: `"yesterday"`, wantErr: true},
		{name: "number", raw: `1709649015`, wantErr: true},
		{name: "mixed tuple", raw: `[2024, "3", 5]`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts, err := ParseTimestamp([]byte(tc.raw))
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedTimestamp) {
					t.Fatalf("expected malformed timestamp error, got %v", err)
				}
				if ts.Valid() {
					t.Fatalf("expected invalid timestamp on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ts.Valid() != tc.valid {
				t.Fatalf("expected valid=%v, got %v", tc.valid, ts.Valid())
			}
			if tc.valid {
				got, _ := ts.Time()
				if !got.Equal(want) {
					t.Fatalf("expected %v, got %v", want, got)
				}
			}
		})
	}
}

func TestTimestampTupleMonthIsOneBased(t *testing.T) {
	ts, err := TimestampFromParts([]int{2023, 1, 31})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := ts.Time()
	if got.Month() != time.January || got.Day() != 31 {
		t.Fatalf("expected January 31, got %v", got)
	}
}

func TestTimestampFormatPlaceholder(t *testing.T) {
	var absent Timestamp
	if got := absent.Format(time.RFC3339); got != DateUnavailable {
		t.Fatalf("expected placeholder, got %q", got)
	}

	ts := NewTimestamp(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if got := ts.Format("2006-01-02"); got != "2024-01-02" {
		t.Fatalf("unexpected format %q", got)
	}
	if NewTimestamp(time.Time{}).Valid() {
		t.Fatalf("zero time must not produce a valid timestamp")
	}
	if absent.Before(ts) || ts.Before(absent) {
		t.Fatalf("absent timestamps never compare")
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCreditCard, PaymentPayPal, PaymentBankTransfer, PaymentCashOnDelivery} {
		if !m.Valid() {
			t.Errorf("expected %s to be valid", m)
		}
	}
	if PaymentMethod("BITCOIN").Valid() {
		t.Errorf("unexpected valid payment method")
	}
}
