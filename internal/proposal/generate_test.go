package proposal

import (
	"testing"

	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileOf(phase types.Phase, temp types.Temperature, interests ...types.Interest) types.UserProfile {
	return types.UserProfile{Phase: phase, Temperature: temp, Interests: interests}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		profile  types.UserProfile
		expected string
	}{
		{"high with price", profileOf(types.PhaseImmediate, types.TemperatureHigh, types.InterestCases, types.InterestPrice), MessagePriceQuick},
		{"high with cases", profileOf(types.PhaseImmediate, types.TemperatureHigh, types.InterestFeatures, types.InterestCases), MessageCasesQuick},
		{"high fallback", profileOf(types.PhaseResearch, types.TemperatureHigh, types.InterestTrust), MessageSupportQuick},
		{"mid comparison", profileOf(types.PhaseComparison, types.TemperatureMid, types.InterestPrice), MessageCompare},
		{"mid other phase", profileOf(types.PhaseImmediate, types.TemperatureMid), MessageConsult},
		{"low", profileOf(types.PhaseResearch, types.TemperatureLow, types.InterestPrice), MessageBasics},
		{"unknown temperature", types.UserProfile{}, MessageBasics},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Message(tt.profile))
		})
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name      string
		interests []types.Interest
		expected  []string
	}{
		{"none pads defaults", nil, []string{OptionPrice, OptionFeatures, OptionCases}},
		{"trust first then padding", []types.Interest{types.InterestTrust}, []string{OptionTrust, OptionPrice, OptionFeatures}},
		{"padding skips duplicates", []types.Interest{types.InterestPrice, types.InterestCases}, []string{OptionPrice, OptionCases, OptionFeatures}},
		{"fixed order regardless of interest order", []types.Interest{types.InterestTrust, types.InterestCases, types.InterestFeatures}, []string{OptionFeatures, OptionCases, OptionTrust}},
		{"four interests truncated", []types.Interest{types.InterestPrice, types.InterestFeatures, types.InterestCases, types.InterestTrust}, []string{OptionPrice, OptionFeatures, OptionCases}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Options(profileOf(types.PhaseResearch, types.TemperatureLow, tt.interests...)))
		})
	}
}

func TestGenerate_OptionBounds(t *testing.T) {
	all := []types.Interest{types.InterestPrice, types.InterestFeatures, types.InterestCases, types.InterestTrust}
	temps := []types.Temperature{types.TemperatureLow, types.TemperatureMid, types.TemperatureHigh}
	phases := []types.Phase{types.PhaseResearch, types.PhaseComparison, types.PhaseImmediate}

	for mask := 0; mask < 1<<len(all); mask++ {
		var interests []types.Interest
		for i, in := range all {
			if mask&(1<<i) != 0 {
				interests = append(interests, in)
			}
		}
		for _, temp := range temps {
			for _, phase := range phases {
				p := profileOf(phase, temp, interests...)
				got := Generate(p, types.TrafficHypothesis{SEO: 1, Ad: 1, Direct: 1})

				require.NotEmpty(t, got.Message)
				assert.GreaterOrEqual(t, len(got.Options), 1)
				assert.LessOrEqual(t, len(got.Options), MaxOptions)
				seen := map[string]bool{}
				for _, o := range got.Options {
					assert.False(t, seen[o], "duplicate option %q", o)
					seen[o] = true
				}
				assert.Equal(t, got, Generate(p, types.TrafficHypothesis{SEO: 1, Ad: 1, Direct: 1}))
			}
		}
	}
}

func TestAdLibraryLinks(t *testing.T) {
	links := AdLibraryLinks("example.co.jp")

	require.Len(t, links, 3)
	assert.Equal(t, "https://www.facebook.com/ads/library/?active_status=all&ad_type=all&country=JP&q=example.co.jp&search_type=page", links[0].URL)
	assert.Equal(t, "https://adstransparency.google.com/advertiser?advertiser_domain=example.co.jp", links[1].URL)
	assert.Equal(t, "https://transparency.twitter.com/en/reports/ads.html", links[2].URL)
	for _, l := range links {
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.Description)
	}
}
