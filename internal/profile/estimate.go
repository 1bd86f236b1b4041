// Package profile estimates the visitor persona behind a page.
package profile

import (
	"github.com/jonathan/url-analyzer/internal/keywords"
	"github.com/jonathan/url-analyzer/internal/signals"
	"github.com/jonathan/url-analyzer/internal/types"
)

// ImmediateAdScore is the ad score at or above which a visitor is assumed ready to act.
const ImmediateAdScore = 4

const (
	cueUrgent     = "urgent"
	cueComparison = "comparison"
	cueFreeOffer  = "free_offer"
)

var cueTable = keywords.NewTable(
	keywords.Group{Name: cueUrgent, Terms: []string{"今すぐ", "すぐに"}},
	keywords.Group{Name: cueComparison, Terms: []string{"比較", "選び方"}},
	keywords.Group{Name: cueFreeOffer, Terms: []string{"無料", "free", "資料請求"}},
)

// interestTable lists interest groups in the order they are reported.
var interestTable = keywords.NewTable(
	keywords.Group{Name: string(types.InterestPrice), Terms: []string{"価格", "料金", "price", "cost"}},
	keywords.Group{Name: string(types.InterestFeatures), Terms: []string{"機能", "feature", "仕様"}},
	keywords.Group{Name: string(types.InterestCases), Terms: []string{"事例", "導入", "case study", "case-study"}},
	keywords.Group{Name: string(types.InterestTrust), Terms: []string{"信頼", "実績", "安心"}},
)

var defaultInterests = map[types.BusinessType][]types.Interest{
	types.BusinessTypeBtoB: {types.InterestFeatures, types.InterestCases, types.InterestTrust},
	types.BusinessTypeBtoC: {types.InterestPrice, types.InterestFeatures},
}

// Estimate derives phase, temperature and interests from page content and the ad score.
func Estimate(s *types.PageSignals, h types.TrafficHypothesis, businessType types.BusinessType) types.UserProfile {
	content := signals.ContentText(s)
	cues := cueTable.Scan(content)

	var p types.UserProfile
	switch {
	case h.Ad >= ImmediateAdScore || cues.Has(cueUrgent):
		p.Phase, p.Temperature = types.PhaseImmediate, types.TemperatureHigh
	case cues.Has(cueComparison) || (s != nil && s.HasKeyword("比較")):
		p.Phase, p.Temperature = types.PhaseComparison, types.TemperatureMid
	default:
		p.Phase, p.Temperature = types.PhaseResearch, types.TemperatureLow
	}

	// A free offer or document request overrides temperature outright, which
	// lowers an immediate BtoB visitor to mid.
	if cues.Has(cueFreeOffer) {
		if businessType == types.BusinessTypeBtoB {
			p.Temperature = types.TemperatureMid
		} else {
			p.Temperature = types.TemperatureHigh
		}
	}

	p.Interests = Interests(content, businessType)
	return p
}

// Interests returns the interest groups found in text, in fixed order, capped
// at types.MaxInterests. With no match the business-type defaults apply.
func Interests(text string, businessType types.BusinessType) []types.Interest {
	matched := interestTable.Match(text)
	out := make([]types.Interest, 0, types.MaxInterests)
	for _, name := range matched {
		out = append(out, types.Interest(name))
	}
	if len(out) == 0 {
		bt := businessType
		if bt != types.BusinessTypeBtoB {
			bt = types.BusinessTypeBtoC
		}
		out = append(out, defaultInterests[bt]...)
	}
	if len(out) > types.MaxInterests {
		out = out[:types.MaxInterests]
	}
	return out
}
