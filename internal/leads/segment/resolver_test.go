package segment

import (
	"context"
	"errors"
	"testing"

	"campaign_portal_backend/platform/logger"
)

func TestClassifyCampaignNameKeywords(t *testing.T) {
	cases := []struct {
		name     string
		campaign string
		want     string
	}{
		{"summer", "Summer Sale 2026", "Seasonal"},
		{"monsoon", "Monsoon Madness", "Seasonal"},
		{"festival", "Festival Offers", "Seasonal"},
		{"holiday", "Holiday Promo", "Seasonal"},
		{"corporate", "Corporate Outreach", "Corporate"},
		{"enterprise", "Enterprise Push", "Corporate"},
		{"b2b", "Q3 B2B Drive", "Corporate"},
		{"launch", "Spring Launch", "Early Adopters"},
		{"beta", "Beta Invite Wave", "Early Adopters"},
		{"new product", "New Widget Product Drop", "Early Adopters"},
		{"case insensitive", "SUMMER BLAST", "Seasonal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.campaign, "someone@example.net", "")
			if got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.campaign, got, tc.want)
			}
		})
	}
}

func TestClassifyCampaignNameWinsOverLaterRules(t *testing.T) {
	// "Summer B2B Launch" matches Seasonal, Corporate and Early Adopters
	// keywords; the first rule in the cascade decides.
	got := Classify("Summer B2B Launch", "ceo@company.com", "+14155550100")
	if got != "Seasonal" {
		t.Fatalf("expected campaign keyword rule to win, got %q", got)
	}
}

func TestClassifyEmailDomain(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"alice@company.com", "Corporate Leads"},
		{"bob@edu.org", "Student/Academic"},
		{"carol@gmail.com", "General Public"},
		{"dave@yahoo.com", "General Public"},
		{"erin@COMPANY.COM", "Corporate Leads"},
		{"frank@mail.company.com", "Corporate Leads"},
		{"grace@myedu.org", "Student/Academic"},
		{"heidi@corp.gmail.com", "General Public"},
	}

	for _, tc := range cases {
		got := Classify("Plain Drive", tc.email, "")
		if got != tc.want {
			t.Fatalf("Classify(email=%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestClassifyPhonePrefix(t *testing.T) {
	if got := Classify("Plain Drive", "x@example.net", "+14155550100"); got != "US Leads" {
		t.Fatalf("expected US Leads, got %q", got)
	}
	if got := Classify("Plain Drive", "x@example.net", "+919876543210"); got != "India Leads" {
		t.Fatalf("expected India Leads, got %q", got)
	}
}

func TestClassifyFallback(t *testing.T) {
	if got := Classify("Plain Drive", "x@example.net", "+441632960000"); got != Fallback {
		t.Fatalf("expected fallback %q, got %q", Fallback, got)
	}
	if got := Classify("", "", ""); got != Fallback {
		t.Fatalf("expected fallback for empty inputs, got %q", got)
	}
}

type staticCatalog struct {
	names []string
	err   error
}

func (s staticCatalog) ActiveSegmentNames(ctx context.Context) ([]string, error) {
	return s.names, s.err
}

func TestResolveReturnsLabelWhenCatalogMisses(t *testing.T) {
	r := NewResolver(staticCatalog{names: []string{"General"}}, logger.New("test"))

	got := r.Resolve(context.Background(), "Summer Sale", "x@example.net", "")
	if got != "Seasonal" {
		t.Fatalf("catalog miss must not change the label, got %q", got)
	}
}

func TestResolveSurvivesCatalogError(t *testing.T) {
	r := NewResolver(staticCatalog{err: errors.New("redis down")}, logger.New("test"))

	got := r.Resolve(context.Background(), "", "carol@gmail.com", "")
	if got != "General Public" {
		t.Fatalf("catalog error must not change the label, got %q", got)
	}
}
