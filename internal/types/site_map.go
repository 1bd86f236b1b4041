package types

// PageType is the closed set of page roles the site classifier assigns.
type PageType string

const (
	PageTypeFAQ           PageType = "FAQ"
	PageTypeContact       PageType = "Contact"
	PageTypeLogin         PageType = "Login"
	PageTypeProductDetail PageType = "ProductDetail"
	PageTypeCategory      PageType = "Category"
	PageTypeCart          PageType = "Cart"
	PageTypeCheckout      PageType = "Checkout"
	PageTypeStore         PageType = "Store"
	PageTypeBlogArticle   PageType = "Blog/Article"
	PageTypeCompanyInfo   PageType = "CompanyInfo"
	PageTypeTopPage       PageType = "TopPage"
	PageTypeOther         PageType = "Other"
)

// AllPageTypes lists every page type in detection order.
var AllPageTypes = []PageType{
	PageTypeFAQ,
	PageTypeContact,
	PageTypeLogin,
	PageTypeProductDetail,
	PageTypeCategory,
	PageTypeCart,
	PageTypeCheckout,
	PageTypeStore,
	PageTypeBlogArticle,
	PageTypeCompanyInfo,
	PageTypeTopPage,
	PageTypeOther,
}

// Priority is the crawl/agent-placement tier of a page.
type Priority string

const (
	PriorityHigh Priority = "高"
	PriorityMid  Priority = "中"
	PriorityLow  Priority = "低"
)

// Rank orders priorities for sorting: high first, unknown values last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMid:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Confidence describes how much evidence backs a site entry.
type Confidence string

const (
	// ConfidenceHigh means the page document was fetched and inspected.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means the entry was classified from its path only, by choice.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow marks a placeholder entry whose fetch failed or timed out.
	ConfidenceLow Confidence = "low"
)

// SiteURLEntry is the classification of one candidate URL of a site.
type SiteURLEntry struct {
	URL           string     `json:"url"`
	PageType      PageType   `json:"page_type"`
	Role          string     `json:"role"`
	ChatAgentRole string     `json:"chat_agent_role"`
	Priority      Priority   `json:"priority"`
	Title         string     `json:"title,omitempty"`
	Confidence    Confidence `json:"confidence"`
	Error         string     `json:"error,omitempty"`
}

// Degraded reports whether the entry is a placeholder produced after a failed fetch.
func (e SiteURLEntry) Degraded() bool {
	return e.Confidence == ConfidenceLow
}

// Candidate discovery sources, recorded on the site map.
const (
	SourceSitemap  = "sitemap"
	SourceLinks    = "links"
	SourceFallback = "fallback"
)

// SiteMap is the prioritized crawl map of a domain.
type SiteMap struct {
	Domain      string         `json:"domain"`
	GeneratedAt string         `json:"generated_at"` // RFC3339 format
	Source      string         `json:"source"`
	Entries     []SiteURLEntry `json:"entries"`
	Degraded    int            `json:"degraded"`
}
