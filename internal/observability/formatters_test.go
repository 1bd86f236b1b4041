package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStars(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{1, "★☆☆☆☆"},
		{3, "★★★☆☆"},
		{5, "★★★★★"},
		{0, "☆☆☆☆☆"},
		{-2, "☆☆☆☆☆"},
		{9, "★★★★★"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Stars(tt.score), "score %d", tt.score)
	}
}

func TestFormatCopyText(t *testing.T) {
	h := types.TrafficHypothesis{SEO: 2, Ad: 5, Direct: 1}
	p := types.UserProfile{
		Phase:       types.PhaseImmediate,
		Temperature: types.TemperatureHigh,
		Interests:   []types.Interest{types.InterestPrice, types.InterestFeatures},
	}
	proposal := types.AgentProposal{
		Message: "料金についてすぐにご案内できます",
		Options: []string{"料金を知りたい", "機能・特徴を見る"},
	}

	expected := strings.Join([]string{
		"【URL分析結果】",
		"",
		"① 想定流入経路（仮説）",
		"SEO：★★☆☆☆",
		"広告：★★★★★",
		"指名：★☆☆☆☆",
		"",
		"② 想定ユーザー像",
		"フェーズ：今すぐ",
		"温度感：高",
		"主な関心：価格 / 機能",
		"",
		"③ ChatAgent活用提案",
		"初回メッセージ：",
		"「料金についてすぐにご案内できます」",
		"",
		"選択肢：",
		"・料金を知りたい",
		"・機能・特徴を見る",
	}, "\n")

	assert.Equal(t, expected, FormatCopyText(h, p, proposal))
}

func sampleReport() *types.PageReport {
	return &types.PageReport{
		Signals: &types.PageSignals{
			URL:      "https://example.com/lp/spring?utm_source=google",
			Title:    "今すぐ無料登録",
			Keywords: []string{"無料", "登録"},
		},
		Indicators: types.AdIndicators{
			HasAdKeywords:     true,
			HasCampaignURL:    true,
			HasLPStructure:    true,
			HasTrackingParams: true,
			AdKeywords:        []string{"無料"},
			LPIndicators:      []string{"/lp/"},
			TrackingParams:    []types.TrackingParam{{Param: "utm_source", Value: "google"}},
		},
		Hypothesis: types.TrafficHypothesis{SEO: 1, Ad: 5, Direct: 1},
		Profile: types.UserProfile{
			Phase:       types.PhaseImmediate,
			Temperature: types.TemperatureHigh,
			Interests:   []types.Interest{types.InterestPrice},
		},
		Proposal: types.AgentProposal{Message: "hello", Options: []string{"料金を知りたい"}},
		AdLibraryLinks: []types.AdLibraryLink{
			{Name: "Facebook広告ライブラリ", URL: "https://www.facebook.com/ads/library/?q=example.com"},
		},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "TRAFFIC HYPOTHESIS")
	assert.Contains(t, output, "CHAT AGENT PROPOSAL")
	assert.Contains(t, output, "AD LIBRARIES")
	assert.Contains(t, output, "Ad      ★★★★★")
	assert.Contains(t, output, "utm_source=google")
	assert.Contains(t, output, "Facebook広告ライブラリ")
	assert.Contains(t, output, "・料金を知りたい")
}

func TestFormatSignals(t *testing.T) {
	s := &types.PageSignals{
		Domain:       "example.com",
		URLPath:      "/lp/spring",
		H1:           "春のキャンペーン",
		OGTags:       map[string]string{"type": "website", "title": "Spring"},
		TwitterCards: map[string]string{"card": "summary"},
		MetaTags:     types.MetaTags{Robots: "noindex", Canonical: "https://example.com/lp/spring"},
		StructuredData: []any{
			map[string]any{"@type": "Product"},
			map[string]any{"@type": "Offer"},
		},
		Keywords: []string{"無料"},
	}

	expected := "Domain:      example.com\n" +
		"Path:        /lp/spring\n" +
		"Description: (none)\n" +
		"H1:          春のキャンペーン\n" +
		"og:title = Spring\n" +
		"og:type = website\n" +
		"twitter:card = summary\n" +
		"robots:      noindex\n" +
		"canonical:   https://example.com/lp/spring\n" +
		"JSON-LD:     2\n" +
		"Detected:    無料"
	assert.Equal(t, expected, FormatSignals(s))
	assert.Empty(t, FormatSignals(nil))
}

func TestPrintReport_IncludesSignals(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	r.Signals.OGTags = map[string]string{"title": "Spring"}
	NewPrinter(&buf).PrintReport(r)

	output := buf.String()
	assert.Contains(t, output, "PAGE SIGNALS")
	assert.Contains(t, output, "og:title = Spring")
	assert.Contains(t, output, "JSON-LD:     0")
}

func TestPrintReport_BoxLinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(sampleReport())

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		assert.Equal(t, boxWidth, text.StringWidthWithoutEscSequences(line), "line %q", line)
	}
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(nil)

	assert.Empty(t, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	// wide runes count two cells
	assert.Equal(t, "あいう...", truncate("あいうえおかきくけこ", 10))
}

func sampleSiteMap() *types.SiteMap {
	return &types.SiteMap{
		Domain: "example.com",
		Source: types.SourceSitemap,
		Entries: []types.SiteURLEntry{
			{
				URL:           "https://example.com/contact",
				PageType:      types.PageTypeContact,
				Role:          "問い合わせ",
				ChatAgentRole: "フォーム補助",
				Priority:      types.PriorityHigh,
				Confidence:    types.ConfidenceHigh,
			},
			{
				URL:           "https://example.com/blog/post",
				PageType:      types.PageTypeBlogArticle,
				Role:          "集客",
				ChatAgentRole: "関連記事案内",
				Priority:      types.PriorityLow,
				Confidence:    types.ConfidenceLow,
				Error:         "timeout",
			},
		},
		Degraded: 1,
	}
}

func TestPrintSiteMap(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSiteMap(sampleSiteMap())
	output := buf.String()

	assert.Contains(t, output, "PAGE TYPE")
	assert.Contains(t, output, "https://example.com/contact")
	assert.Contains(t, output, "Blog/Article")
	assert.Contains(t, output, "DEGRADED: 1")
	assert.Contains(t, output, "EXAMPLE.COM (SITEMAP)")
}

func TestWriteSiteMapCSV(t *testing.T) {
	var buf bytes.Buffer
	WriteSiteMapCSV(&buf, sampleSiteMap())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "#,URL,Page Type,Priority,Role,Chat Agent Role,Confidence", lines[0])
	assert.Equal(t, "1,https://example.com/contact,Contact,高,問い合わせ,フォーム補助,high", lines[1])
	assert.Equal(t, "2,https://example.com/blog/post,Blog/Article,低,集客,関連記事案内,low", lines[2])
}

func TestSiteMapOutput_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSiteMap(nil)
	WriteSiteMapCSV(&buf, nil)

	assert.Empty(t, buf.String())
}
