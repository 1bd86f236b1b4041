// Package scoring estimates how likely a page is to be reached through organic
// search, paid ads or direct navigation.
//
// Scoring is additive: every rule that applies adds points to one of three
// independent accumulators (seo, ad, direct). Rules run in a fixed order so
// the recorded hits read the same way every time:
//
//  1. carryover from the ad indicators
//  2. URL path rules
//  3. content rules over title, description and first h1
//  4. site-type correction
//
// Each accumulator is then normalized to 1-5 on its own. Nothing forces the
// three scores to add up to a constant.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/url-analyzer/internal/keywords"
	"github.com/jonathan/url-analyzer/internal/signals"
	"github.com/jonathan/url-analyzer/internal/types"
)

// Accumulator names, as recorded in RuleHit.Source.
const (
	SourceSEO    = "seo"
	SourceAd     = "ad"
	SourceDirect = "direct"
)

// RawScores are the accumulated points before normalization.
type RawScores struct {
	SEO    float64 `json:"seo"`
	Ad     float64 `json:"ad"`
	Direct float64 `json:"direct"`
}

// Result is a scored page with its audit trail.
type Result struct {
	Raw        RawScores               `json:"raw"`
	Hypothesis types.TrafficHypothesis `json:"hypothesis"`
	Hits       []types.RuleHit         `json:"hits"`
}

// input is what every rule sees.
type input struct {
	path         string
	content      keywords.Hits
	indicators   types.AdIndicators
	siteType     types.SiteType
	businessType types.BusinessType
}

type award struct {
	source string
	points float64
}

type rule struct {
	name  string
	apply func(in *input) []award
}

// Content groups share one table so content is scanned once per page.
const (
	groupFree      = "free"
	groupContact   = "contact"
	groupUrgent    = "urgent"
	groupLimited   = "limited"
	groupBlog      = "blog"
	groupColumn    = "column"
	groupArticle   = "article"
	groupHowTo     = "how_to"
	groupCompare   = "compare"
	groupCorporate = "corporate_info"
)

var contentTable = keywords.NewTable(
	keywords.Group{Name: groupFree, Terms: []string{"無料", "free"}},
	keywords.Group{Name: groupContact, Terms: []string{"資料請求", "お問い合わせ", "contact"}},
	keywords.Group{Name: groupUrgent, Terms: []string{"今すぐ", "すぐに", "今なら"}},
	keywords.Group{Name: groupLimited, Terms: []string{"限定", "limited"}},
	keywords.Group{Name: groupBlog, Terms: []string{"ブログ", "blog"}},
	keywords.Group{Name: groupColumn, Terms: []string{"コラム", "column"}},
	keywords.Group{Name: groupArticle, Terms: []string{"記事", "article"}},
	keywords.Group{Name: groupHowTo, Terms: []string{"選び方", "how to", "how-to", "方法"}},
	keywords.Group{Name: groupCompare, Terms: []string{"比較", "compare"}},
	keywords.Group{Name: groupCorporate, Terms: []string{"会社概要", "企業情報"}},
)

var rules = []rule{
	// 1. carryover
	{"carryover.ad_keywords", func(in *input) []award {
		if n := len(in.indicators.AdKeywords); n > 0 {
			return ad(math.Min(2, float64(n)))
		}
		return nil
	}},
	{"carryover.campaign_url", func(in *input) []award {
		if in.indicators.HasCampaignURL {
			return ad(2)
		}
		return nil
	}},
	{"carryover.tracking_params", func(in *input) []award {
		if n := len(in.indicators.TrackingParams); n > 0 {
			return ad(math.Min(2, float64(n)))
		}
		return nil
	}},

	// 2. URL path
	{"path.landing", pathRule([]string{"/lp/", "/lp-", "/landing"}, award{SourceAd, 3})},
	{"path.campaign", pathRule([]string{"/campaign/", "/campaign-"}, award{SourceAd, 2})},
	{"path.editorial", pathRule([]string{"/blog/", "/column/", "/article/"}, award{SourceSEO, 3})},
	{"path.product", pathRule([]string{"/product/", "/service/"}, award{SourceSEO, 1}, award{SourceDirect, 1})},
	{"path.root", func(in *input) []award {
		if in.path == "/" || in.path == "" {
			return []award{{SourceDirect, 2}}
		}
		return nil
	}},

	// 3. content
	{"content.free", contentRule(groupFree, award{SourceAd, 2})},
	{"content.contact", func(in *input) []award {
		if !in.content.Has(groupContact) {
			return nil
		}
		if in.businessType == types.BusinessTypeBtoB {
			return ad(2)
		}
		return ad(1)
	}},
	{"content.urgent", contentRule(groupUrgent, award{SourceAd, 2})},
	{"content.limited", contentRule(groupLimited, award{SourceAd, 1})},
	{"content.blog", contentRule(groupBlog, award{SourceSEO, 2})},
	{"content.column", contentRule(groupColumn, award{SourceSEO, 2})},
	{"content.article", contentRule(groupArticle, award{SourceSEO, 1})},
	{"content.how_to", contentRule(groupHowTo, award{SourceSEO, 2})},
	{"content.compare", contentRule(groupCompare, award{SourceSEO, 1})},
	{"content.about_path", pathRule([]string{"/about/", "/company/", "/corporate/"}, award{SourceDirect, 2})},
	{"content.corporate_info", contentRule(groupCorporate, award{SourceDirect, 1})},

	// 4. site type
	{"site_type", func(in *input) []award {
		switch in.siteType {
		case types.SiteTypeEC:
			return []award{{SourceSEO, 1}, {SourceAd, 1}}
		case types.SiteTypeSaaS:
			if in.businessType == types.BusinessTypeBtoB {
				return []award{{SourceSEO, 1}, {SourceAd, 1}}
			}
			return []award{{SourceSEO, 1}}
		case types.SiteTypeMedia:
			return []award{{SourceSEO, 2}}
		case types.SiteTypeCorporate:
			return []award{{SourceDirect, 1}}
		}
		return nil
	}},
}

func ad(points float64) []award {
	return []award{{SourceAd, points}}
}

func pathRule(fragments []string, awards ...award) func(in *input) []award {
	return func(in *input) []award {
		for _, f := range fragments {
			if strings.Contains(in.path, f) {
				return awards
			}
		}
		return nil
	}
}

func contentRule(group string, awards ...award) func(in *input) []award {
	return func(in *input) []award {
		if in.content.Has(group) {
			return awards
		}
		return nil
	}
}

// Score returns the normalized traffic hypothesis for a page.
func Score(s *types.PageSignals, ind types.AdIndicators, siteType types.SiteType, businessType types.BusinessType) types.TrafficHypothesis {
	return ScoreDetailed(s, ind, siteType, businessType).Hypothesis
}

// ScoreDetailed scores a page and records every rule that contributed points.
func ScoreDetailed(s *types.PageSignals, ind types.AdIndicators, siteType types.SiteType, businessType types.BusinessType) Result {
	in := &input{
		content:      contentTable.Scan(signals.ContentText(s)),
		indicators:   ind,
		siteType:     siteType,
		businessType: businessType,
	}
	if s != nil {
		in.path = s.URLPath
	}

	res := Result{Hits: make([]types.RuleHit, 0)}
	for _, r := range rules {
		for _, a := range r.apply(in) {
			switch a.source {
			case SourceSEO:
				res.Raw.SEO += a.points
			case SourceAd:
				res.Raw.Ad += a.points
			case SourceDirect:
				res.Raw.Direct += a.points
			}
			res.Hits = append(res.Hits, types.RuleHit{Rule: r.name, Source: a.source, Points: a.points})
		}
	}

	res.Hypothesis = types.TrafficHypothesis{
		SEO:    Normalize(res.Raw.SEO),
		Ad:     Normalize(res.Raw.Ad),
		Direct: Normalize(res.Raw.Direct),
	}
	return res
}

// Normalize maps a raw accumulator onto the 1-5 scale.
func Normalize(raw float64) int {
	switch {
	case math.IsNaN(raw) || raw <= 0:
		return 1
	case raw >= 5:
		return 5
	}
	n := int(math.Ceil(raw))
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}
