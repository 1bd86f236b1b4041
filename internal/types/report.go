package types

import "github.com/google/uuid"

// AdLibraryLink points to a public ad transparency search for the analyzed domain.
type AdLibraryLink struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// RuleHit records one scoring rule that contributed points.
type RuleHit struct {
	Rule   string  `json:"rule"`
	Source string  `json:"source"` // seo, ad or direct
	Points float64 `json:"points"`
}

// PageReport is the full single-page analysis returned to callers.
type PageReport struct {
	ID             uuid.UUID         `json:"id"`
	AnalyzedAt     string            `json:"analyzed_at"` // RFC3339 format
	SiteType       SiteType          `json:"site_type"`
	BusinessType   BusinessType      `json:"business_type"`
	Signals        *PageSignals      `json:"signals"`
	Indicators     AdIndicators      `json:"indicators"`
	Hypothesis     TrafficHypothesis `json:"hypothesis"`
	Profile        UserProfile       `json:"profile"`
	Proposal       AgentProposal     `json:"proposal"`
	AdLibraryLinks []AdLibraryLink   `json:"ad_library_links"`
	RuleHits       []RuleHit         `json:"rule_hits"`
}
