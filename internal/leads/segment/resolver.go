// Package segment assigns a segment label to a lead based on its campaign
// name, email domain, and phone prefix. Rules are evaluated in a fixed
// cascade; the first match wins.
package segment

import (
	"context"
	"strings"

	"campaign_portal_backend/platform/logger"
)

// Fallback is returned when no classification rule matches.
const Fallback = "General"

// CatalogReader reads the active segment names from master data. The catalog
// is advisory: a resolved label missing from it is logged, never rejected.
type CatalogReader interface {
	ActiveSegmentNames(ctx context.Context) ([]string, error)
}

// Resolver classifies leads into segments.
type Resolver struct {
	catalog CatalogReader
	log     *logger.Logger
}

// NewResolver creates a segment resolver. The catalog may be nil to skip the
// advisory check entirely.
func NewResolver(catalog CatalogReader, log *logger.Logger) *Resolver {
	return &Resolver{catalog: catalog, log: log}
}

// Resolve classifies a lead and cross-checks the result against the active
// segment catalog. The resolved label is always returned as-is; a catalog
// miss only produces a warning so that classification never fails ingestion.
func (r *Resolver) Resolve(ctx context.Context, campaignName, email, phone string) string {
	label := Classify(campaignName, email, phone)

	if r.catalog != nil {
		names, err := r.catalog.ActiveSegmentNames(ctx)
		if err != nil {
			r.log.Warn("segment catalog lookup failed", "error", err)
			return label
		}
		if !containsFold(names, label) {
			r.log.Warn("resolved segment not in active catalog", "segment", label)
		}
	}

	return label
}

// Classify runs the classification cascade: campaign-name keywords first,
// then email domain, then phone prefix, then the fallback label.
func Classify(campaignName, email, phone string) string {
	if label, ok := classifyCampaignName(campaignName); ok {
		return label
	}
	if label, ok := classifyEmailDomain(email); ok {
		return label
	}
	if label, ok := classifyPhonePrefix(phone); ok {
		return label
	}
	return Fallback
}

func classifyCampaignName(name string) (string, bool) {
	n := strings.ToLower(name)
	if n == "" {
		return "", false
	}

	switch {
	case containsAny(n, "summer", "monsoon", "festival", "holiday"):
		return "Seasonal", true
	case containsAny(n, "corporate", "enterprise", "b2b"):
		return "Corporate", true
	case containsAny(n, "launch", "beta") ||
		(strings.Contains(n, "new") && strings.Contains(n, "product")):
		return "Early Adopters", true
	}
	return "", false
}

func classifyEmailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", false
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))

	switch {
	case strings.HasSuffix(domain, "company.com"):
		return "Corporate Leads", true
	case strings.HasSuffix(domain, "edu.org"):
		return "Student/Academic", true
	case strings.HasSuffix(domain, "gmail.com"), strings.HasSuffix(domain, "yahoo.com"):
		return "General Public", true
	}
	return "", false
}

func classifyPhonePrefix(phone string) (string, bool) {
	p := strings.TrimSpace(phone)
	switch {
	case strings.HasPrefix(p, "+1"):
		return "US Leads", true
	case strings.HasPrefix(p, "+91"):
		return "India Leads", true
	}
	return "", false
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsFold(names []string, label string) bool {
	for _, n := range names {
		if strings.EqualFold(n, label) {
			return true
		}
	}
	return false
}
