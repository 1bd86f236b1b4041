package types

import "strings"

// SiteType is the kind of site the analyzed page belongs to.
type SiteType string

// Recognized site types. Any other value (including empty) applies no correction.
const (
	SiteTypeEC        SiteType = "EC"
	SiteTypeSaaS      SiteType = "SaaS"
	SiteTypeMedia     SiteType = "メディア"
	SiteTypeCorporate SiteType = "コーポレート"
	SiteTypeOther     SiteType = "その他"
)

// BusinessType distinguishes business-facing from consumer-facing sites.
type BusinessType string

// Recognized business types. Anything other than BtoB is treated as BtoC.
const (
	BusinessTypeBtoB BusinessType = "BtoB"
	BusinessTypeBtoC BusinessType = "BtoC"
)

var siteTypeAliases = map[string]SiteType{
	"":           "",
	"ec":         SiteTypeEC,
	"ecommerce":  SiteTypeEC,
	"e-commerce": SiteTypeEC,
	"saas":       SiteTypeSaaS,
	"メディア":       SiteTypeMedia,
	"media":      SiteTypeMedia,
	"コーポレート":     SiteTypeCorporate,
	"corporate":  SiteTypeCorporate,
	"その他":        SiteTypeOther,
	"other":      SiteTypeOther,
}

var businessTypeAliases = map[string]BusinessType{
	"":     "",
	"btob": BusinessTypeBtoB,
	"b2b":  BusinessTypeBtoB,
	"btoc": BusinessTypeBtoC,
	"b2c":  BusinessTypeBtoC,
}

// ParseSiteType maps a site type name or English alias to its canonical value.
func ParseSiteType(s string) (SiteType, bool) {
	st, ok := siteTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// ParseBusinessType maps a business type name or alias to its canonical value.
func ParseBusinessType(s string) (BusinessType, bool) {
	bt, ok := businessTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return bt, ok
}

// TrafficHypothesis holds the 1-5 confidence that a page is reached through
// organic search, paid ads, or direct/brand navigation. The three scores are
// independent and do not sum to a constant.
type TrafficHypothesis struct {
	SEO    int `json:"seo"`
	Ad     int `json:"ad"`
	Direct int `json:"direct"`
}
