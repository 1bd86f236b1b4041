package scoring

import (
	"testing"

	"github.com/jonathan/url-analyzer/internal/adsignals"
	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(rawURL, path, title string) *types.PageSignals {
	return &types.PageSignals{URL: rawURL, URLPath: path, Title: title}
}

func TestScore_LandingPageMaxesAd(t *testing.T) {
	s := page("https://example.com/lp/spring-sale", "/lp/spring-sale", "今すぐ無料登録")
	ind := adsignals.Detect(s, s.URL)

	res := ScoreDetailed(s, ind, "", types.BusinessTypeBtoC)

	assert.GreaterOrEqual(t, res.Raw.Ad, 7.0)
	assert.Equal(t, 5, res.Hypothesis.Ad)
}

func TestScore_HowToBlogMaxesSEO(t *testing.T) {
	s := page("https://example.com/blog/how-to-choose", "/blog/how-to-choose", "選び方 比較")

	res := ScoreDetailed(s, adsignals.Detect(s, s.URL), "", "")

	assert.Equal(t, 6.0, res.Raw.SEO)
	assert.Equal(t, 5, res.Hypothesis.SEO)
}

func TestScore_CorporateRoot(t *testing.T) {
	s := page("https://example.com/", "/", "")

	res := ScoreDetailed(s, adsignals.Detect(s, s.URL), types.SiteTypeCorporate, "")

	assert.Equal(t, 3.0, res.Raw.Direct)
	assert.Equal(t, types.TrafficHypothesis{SEO: 1, Ad: 1, Direct: 3}, res.Hypothesis)
}

func TestScore_TrackingParamsCarryOver(t *testing.T) {
	s := page("https://example.com/page?utm_source=x&gclid=y", "/page", "")
	ind := adsignals.Detect(s, s.URL)
	require.Len(t, ind.TrackingParams, 2)

	res := ScoreDetailed(s, ind, "", "")

	assert.Equal(t, 2.0, res.Raw.Ad)
	assert.Equal(t, 2, res.Hypothesis.Ad)
	assert.Equal(t, []types.RuleHit{
		{Rule: "carryover.tracking_params", Source: SourceAd, Points: 2},
	}, res.Hits)
}

func TestScore_ContactBtoBBonus(t *testing.T) {
	s := page("https://example.com/x", "/x", "資料請求はこちら")

	btob := ScoreDetailed(s, types.AdIndicators{}, "", types.BusinessTypeBtoB)
	btoc := ScoreDetailed(s, types.AdIndicators{}, "", types.BusinessTypeBtoC)

	assert.Equal(t, 2.0, btob.Raw.Ad)
	assert.Equal(t, 1.0, btoc.Raw.Ad)
}

func TestScore_SiteTypeCorrection(t *testing.T) {
	tests := []struct {
		name         string
		siteType     types.SiteType
		businessType types.BusinessType
		expected     RawScores
	}{
		{"EC", types.SiteTypeEC, "", RawScores{SEO: 1, Ad: 1}},
		{"SaaS BtoC", types.SiteTypeSaaS, types.BusinessTypeBtoC, RawScores{SEO: 1}},
		{"SaaS BtoB", types.SiteTypeSaaS, types.BusinessTypeBtoB, RawScores{SEO: 1, Ad: 1}},
		{"media", types.SiteTypeMedia, "", RawScores{SEO: 2}},
		{"corporate", types.SiteTypeCorporate, "", RawScores{Direct: 1}},
		{"other", types.SiteTypeOther, "", RawScores{}},
		{"empty", "", "", RawScores{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := page("https://example.com/x", "/x", "")
			res := ScoreDetailed(s, types.AdIndicators{}, tt.siteType, tt.businessType)
			assert.Equal(t, tt.expected, res.Raw)
		})
	}
}

func TestScore_PathRules(t *testing.T) {
	tests := []struct {
		path     string
		expected RawScores
	}{
		{"/lp-summer", RawScores{Ad: 3}},
		{"/landing", RawScores{Ad: 3}},
		{"/campaign/2024", RawScores{Ad: 2}},
		{"/column/x", RawScores{SEO: 3}},
		{"/service/plan", RawScores{SEO: 1, Direct: 1}},
		{"", RawScores{Direct: 2}},
		{"/company/info", RawScores{Direct: 2}},
		{"/Blog/Post", RawScores{}},
		{"/LP/Spring", RawScores{}},
		{"/About/", RawScores{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			s := page("https://example.com"+tt.path, tt.path, "")
			assert.Equal(t, tt.expected, ScoreDetailed(s, types.AdIndicators{}, "", "").Raw)
		})
	}
}

func TestScore_PathRulesAreCaseSensitive(t *testing.T) {
	res := ScoreDetailed(page("https://example.com/LP/Spring", "/LP/Spring", ""), types.AdIndicators{}, "", "")

	assert.Zero(t, res.Raw.Ad)
	assert.Empty(t, res.Hits)
	assert.Equal(t, 1, res.Hypothesis.Ad)

	res = ScoreDetailed(page("https://example.com/lp/spring", "/lp/spring", ""), types.AdIndicators{}, "", "")
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "path.landing", res.Hits[0].Rule)
}

func TestScore_HitsFollowRuleOrder(t *testing.T) {
	s := &types.PageSignals{URLPath: "/blog/", Title: "Free blog", H1: "会社概要"}
	ind := types.AdIndicators{AdKeywords: []string{"free"}, HasAdKeywords: true}

	res := ScoreDetailed(s, ind, types.SiteTypeMedia, "")

	var names []string
	for _, h := range res.Hits {
		names = append(names, h.Rule)
	}
	assert.Equal(t, []string{
		"carryover.ad_keywords",
		"path.editorial",
		"content.free",
		"content.blog",
		"content.corporate_info",
		"site_type",
	}, names)
}

func TestScore_AllThreeCanBeHigh(t *testing.T) {
	s := &types.PageSignals{
		URLPath: "/lp/blog/",
		Title:   "無料 今すぐ ブログ コラム 選び方",
		H1:      "会社概要 企業情報",
	}
	ind := adsignals.Detect(s, "https://example.com/lp/blog/?utm_source=a&gclid=b")

	h := Score(s, ind, types.SiteTypeCorporate, "")

	assert.Equal(t, 5, h.Ad)
	assert.Equal(t, 5, h.SEO)
	assert.GreaterOrEqual(t, h.Direct, 2)
}

func TestScore_BoundsAndIdempotence(t *testing.T) {
	inputs := []*types.PageSignals{
		nil,
		{},
		page("https://example.com/", "/", ""),
		page("https://example.com/lp/x", "/lp/x", "無料 今すぐ 限定 資料請求 free limited contact"),
		page("https://example.com/blog/x", "/blog/x", "ブログ コラム 記事 選び方 比較 how to"),
	}
	siteTypes := []types.SiteType{"", types.SiteTypeEC, types.SiteTypeSaaS, types.SiteTypeMedia, types.SiteTypeCorporate}

	for _, s := range inputs {
		for _, st := range siteTypes {
			for _, bt := range []types.BusinessType{types.BusinessTypeBtoB, types.BusinessTypeBtoC} {
				var ind types.AdIndicators
				if s != nil {
					ind = adsignals.Detect(s, s.URL)
				}
				first := ScoreDetailed(s, ind, st, bt)
				second := ScoreDetailed(s, ind, st, bt)
				assert.Equal(t, first, second)

				for _, v := range []int{first.Hypothesis.SEO, first.Hypothesis.Ad, first.Hypothesis.Direct} {
					assert.GreaterOrEqual(t, v, 1)
					assert.LessOrEqual(t, v, 5)
				}
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw      float64
		expected int
	}{
		{-3, 1},
		{0, 1},
		{0.2, 1},
		{1, 1},
		{1.5, 2},
		{3, 3},
		{4.01, 5},
		{5, 5},
		{11, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.raw), "raw=%v", tt.raw)
	}
}
