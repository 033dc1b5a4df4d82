package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
)

func TestConvertToLKR(t *testing.T) {
	cases := []struct {
		currency string
		amount   float64
		want     float64
	}{
		{"USD", 10, 3000},
		{"usd", 1, 300},
		{"INR", 2, 8},
		{"LKR", 500, 500},
	}

	for _, tc := range cases {
		got, err := ConvertToLKR(tc.amount, tc.currency)
		if err != nil {
			t.Fatalf("convert %v %s: %v", tc.amount, tc.currency, err)
		}
		if got != tc.want {
			t.Errorf("%v %s = %v LKR, want %v", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestConvertToLKRUnsupportedCurrency(t *testing.T) {
	_, err := ConvertToLKR(10, "EUR")
	vErr := asValidation(t, err)
	if vErr.Message != "Unsupported currency: EUR" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
}

func TestCreateDonationConvertsAmount(t *testing.T) {
	donations := &mockDonationRepository{}
	operators := newMockOperatorRepository()
	operators.operators["op-1"] = &domain.Operator{ID: "op-1", ApprovalStatus: domain.ApprovalApproved}
	svc := NewDonationService(donations, operators)

	donation, err := svc.Create(context.Background(), DonationInput{
		DonorID:    "d-1",
		DonorType:  domain.DonorTypeDonor,
		OperatorID: "op-1",
		Amount:     10,
		Currency:   "usd",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if donation.AmountLKR != 3000 {
		t.Fatalf("amount LKR = %v, want 3000", donation.AmountLKR)
	}
	if donation.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", donation.Currency)
	}
	if donation.Status != domain.DonationCompleted {
		t.Fatalf("status = %q, want completed", donation.Status)
	}
	if donations.createCalls != 1 {
		t.Fatalf("expected 1 create, got %d", donations.createCalls)
	}
}

func TestCreateDonationRequiresApprovedOperator(t *testing.T) {
	donations := &mockDonationRepository{}
	operators := newMockOperatorRepository()
	operators.operators["op-1"] = &domain.Operator{ID: "op-1", ApprovalStatus: domain.ApprovalPending}
	svc := NewDonationService(donations, operators)

	_, err := svc.Create(context.Background(), DonationInput{
		DonorID:    "d-1",
		DonorType:  domain.DonorTypeDonor,
		OperatorID: "op-1",
		Amount:     10,
		Currency:   "LKR",
	})
	if !errors.Is(err, ErrOperatorNotApproved) {
		t.Fatalf("expected ErrOperatorNotApproved, got %v", err)
	}
	if donations.createCalls != 0 {
		t.Fatalf("expected no create, got %d", donations.createCalls)
	}
}

func TestCreateDonationRejectsNonPositiveAmount(t *testing.T) {
	svc := NewDonationService(&mockDonationRepository{}, newMockOperatorRepository())

	_, err := svc.Create(context.Background(), DonationInput{
		DonorID:    "d-1",
		DonorType:  domain.DonorTypeDonor,
		OperatorID: "op-1",
		Amount:     0,
		Currency:   "LKR",
	})
	vErr := asValidation(t, err)
	if vErr.Message != "Donation amount must be greater than zero" {
		t.Fatalf("unexpected message: %q", vErr.Message)
	}
}

func TestTotalByOperator(t *testing.T) {
	donations := &mockDonationRepository{donations: []domain.Donation{
		{ID: "1", OperatorID: "op-1", AmountLKR: 1200},
		{ID: "2", OperatorID: "op-1", AmountLKR: 300},
		{ID: "3", OperatorID: "op-2", AmountLKR: 900},
	}}
	svc := NewDonationService(donations, newMockOperatorRepository())

	total, err := svc.TotalByOperator(context.Background(), "op-1")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 1500 {
		t.Fatalf("total = %v, want 1500", total)
	}
}
