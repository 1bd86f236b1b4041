// Package adsignals detects advertising and campaign markers on a page.
package adsignals

import (
	"net/url"
	"strings"

	"github.com/jonathan/url-analyzer/internal/keywords"
	"github.com/jonathan/url-analyzer/internal/signals"
	"github.com/jonathan/url-analyzer/internal/types"
)

// AdKeywordList are CTA and promotion terms typical of paid landing pages.
var AdKeywordList = []string{
	"無料", "free", "今すぐ", "限定", "キャンペーン", "campaign",
	"資料請求", "お問い合わせ", "contact", "お試し", "trial",
	"特典", "プレゼント", "gift", "割引", "discount", "セール", "sale",
	"新規", "初回", "first", "登録", "register", "申込", "apply",
}

// LPIndicatorList are URL fragments that suggest a landing or campaign page.
var LPIndicatorList = []string{
	"lp", "landing", "campaign", "promo", "offer", "special",
	"download", "signup", "register", "trial",
}

// TrackingParamList are query parameters added by ad platforms and campaign tooling.
var TrackingParamList = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"gclid", "fbclid", "ref", "source", "campaign_id",
}

var (
	adKeywordTable   = keywords.Terms(AdKeywordList...)
	lpIndicatorTable = keywords.Terms(LPIndicatorList...)
)

// Detect scans the page content and URL for advertising markers.
// It never fails: an unparsable URL simply yields no tracking parameters.
func Detect(s *types.PageSignals, rawURL string) types.AdIndicators {
	ind := types.AdIndicators{
		AdKeywords:     adKeywordTable.MatchTerms(signals.ContentText(s)),
		LPIndicators:   lpIndicatorTable.MatchTerms(strings.ToLower(rawURL)),
		TrackingParams: TrackingParams(rawURL),
	}
	ind.HasAdKeywords = len(ind.AdKeywords) > 0
	ind.HasLPStructure = len(ind.LPIndicators) > 0
	ind.HasCampaignURL = ind.HasLPStructure
	ind.HasTrackingParams = len(ind.TrackingParams) > 0
	return ind
}

// TrackingParams returns the recognized tracking parameters present in the
// URL, in list order, each with its first literal value. Pairs with ";" or a
// malformed escape are kept, matching PageSignals.QueryParams.
func TrackingParams(rawURL string) []types.TrackingParam {
	params := make([]types.TrackingParam, 0)
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return params
	}
	first := make(map[string]string)
	for _, qp := range signals.ParseQuery(parsed.RawQuery) {
		if _, seen := first[qp.Key]; !seen {
			first[qp.Key] = qp.Value
		}
	}
	for _, name := range TrackingParamList {
		if v, ok := first[name]; ok {
			params = append(params, types.TrackingParam{Param: name, Value: v})
		}
	}
	return params
}
