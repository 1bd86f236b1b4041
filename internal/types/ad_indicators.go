package types

// TrackingParam is a recognized tracking parameter found in the page URL.
type TrackingParam struct {
	Param string `json:"param"`
	Value string `json:"value"`
}

// AdIndicators summarizes advertising and campaign markers found on a page.
// Each Has* flag is true exactly when its collection is non-empty.
type AdIndicators struct {
	HasAdKeywords     bool            `json:"has_ad_keywords"`
	HasLPStructure    bool            `json:"has_lp_structure"`
	HasCampaignURL    bool            `json:"has_campaign_url"`
	HasTrackingParams bool            `json:"has_tracking_params"`
	AdKeywords        []string        `json:"ad_keywords"`
	LPIndicators      []string        `json:"lp_indicators"`
	TrackingParams    []TrackingParam `json:"tracking_params"`
}
