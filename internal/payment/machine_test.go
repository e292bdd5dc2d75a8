package payment

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

func TestBeginConfirming(t *testing.T) {
	cases := []struct {
		name    string
		from    enums.OrderStatus
		want    enums.OrderStatus
		wantErr bool
	}{
		{name: "registered order enters payment", from: enums.OrderStatusRegistered, want: enums.OrderStatusConfirming},
		{name: "declined order may retry", from: enums.OrderStatusUnpaid, want: enums.OrderStatusConfirming},
		{name: "confirming order is locked", from: enums.OrderStatusConfirming, wantErr: true},
		{name: "paid order is locked", from: enums.OrderStatusPaid, wantErr: true},
		{name: "shipping order is locked", from: enums.OrderStatusShipping, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BeginConfirming(tc.from)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.from)
				}
				typed := pkgerrors.As(err)
				if typed == nil || typed.Code() != pkgerrors.CodeConflict {
					t.Fatalf("expected conflict, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSettleOutcome(t *testing.T) {
	if got, err := SettleOutcome(enums.OrderStatusConfirming, true); err != nil || got != enums.OrderStatusPaid {
		t.Fatalf("approved settlement: got %s, %v", got, err)
	}
	if got, err := SettleOutcome(enums.OrderStatusConfirming, false); err != nil || got != enums.OrderStatusUnpaid {
		t.Fatalf("declined settlement: got %s, %v", got, err)
	}
	if _, err := SettleOutcome(enums.OrderStatusRegistered, true); err == nil {
		t.Fatal("expected error settling a non-confirming order")
	}
}

func TestSimulatedGatewayCharge(t *testing.T) {
	gateway := NewSimulatedGateway()
	cases := []struct {
		card     string
		approved bool
	}{
		{card: "1234", approved: true},
		{card: "1230", approved: false},
		{card: "1237", approved: false},
		{card: "8", approved: true},
		{card: "0", approved: false},
		{card: "4111111111111112", approved: true},
	}
	for _, tc := range cases {
		approved, err := gateway.Charge(context.Background(), tc.card)
		if err != nil {
			t.Fatalf("card %s: unexpected error: %v", tc.card, err)
		}
		if approved != tc.approved {
			t.Fatalf("card %s: approved=%v, want %v", tc.card, approved, tc.approved)
		}
	}
}

func TestSimulatedGatewayRejectsBadInput(t *testing.T) {
	gateway := NewSimulatedGateway()
	for _, card := range []string{"", "  ", "12a4", "1234-5678", " 1234"} {
		if _, err := gateway.Charge(context.Background(), card); err == nil {
			t.Fatalf("card %q: expected validation error", card)
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("card %q: expected validation code, got %v", card, err)
		}
	}
}
