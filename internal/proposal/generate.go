// Package proposal turns a visitor profile into a chat-agent opening message
// and quick-reply options.
package proposal

import (
	"net/url"

	"github.com/jonathan/url-analyzer/internal/types"
)

// MaxOptions caps the quick replies offered with a proposal.
const MaxOptions = 3

// Opening messages.
const (
	MessagePriceQuick   = "料金について知りたいですか？1分で要点をご案内します"
	MessageCasesQuick   = "導入事例をお探しですか？すぐにご紹介できます"
	MessageSupportQuick = "お困りの点を教えてください。すぐにサポートします"
	MessageCompare      = "他社との違いを知りたいですか？比較ポイントをご案内します"
	MessageConsult      = "どのような点でお悩みですか？最適なソリューションをご提案します"
	MessageBasics       = "まずは基本情報から。知りたいことを選んでください"
)

// Option labels.
const (
	OptionPrice    = "料金を知りたい"
	OptionFeatures = "機能・特徴を見る"
	OptionCases    = "導入事例を見る"
	OptionTrust    = "実績・信頼性について"
	OptionCompare  = "他社との違いを知る"
)

// interestOptions is checked in order; the order decides option order.
var interestOptions = []struct {
	interest types.Interest
	option   string
}{
	{types.InterestPrice, OptionPrice},
	{types.InterestFeatures, OptionFeatures},
	{types.InterestCases, OptionCases},
	{types.InterestTrust, OptionTrust},
}

var paddingOptions = []string{OptionPrice, OptionFeatures, OptionCases, OptionCompare}

// highMessages is checked in order; the first interest present wins.
var highMessages = []struct {
	interest types.Interest
	message  string
}{
	{types.InterestPrice, MessagePriceQuick},
	{types.InterestCases, MessageCasesQuick},
}

var midMessages = map[types.Phase]string{
	types.PhaseComparison: MessageCompare,
}

// Generate picks the opening message and up to MaxOptions distinct options.
// The hypothesis is accepted for future rules and currently unused.
func Generate(p types.UserProfile, _ types.TrafficHypothesis) types.AgentProposal {
	return types.AgentProposal{
		Message: Message(p),
		Options: Options(p),
	}
}

// Message selects the opening line by temperature, then interest or phase.
func Message(p types.UserProfile) string {
	switch p.Temperature {
	case types.TemperatureHigh:
		for _, m := range highMessages {
			if p.HasInterest(m.interest) {
				return m.message
			}
		}
		return MessageSupportQuick
	case types.TemperatureMid:
		if msg, ok := midMessages[p.Phase]; ok {
			return msg
		}
		return MessageConsult
	default:
		return MessageBasics
	}
}

// Options maps interests to option labels and pads from the default list.
func Options(p types.UserProfile) []string {
	opts := make([]string, 0, MaxOptions)
	for _, io := range interestOptions {
		if p.HasInterest(io.interest) {
			opts = appendUnique(opts, io.option)
		}
	}
	for _, o := range paddingOptions {
		if len(opts) >= MaxOptions {
			break
		}
		opts = appendUnique(opts, o)
	}
	if len(opts) > MaxOptions {
		opts = opts[:MaxOptions]
	}
	return opts
}

func appendUnique(opts []string, o string) []string {
	for _, existing := range opts {
		if existing == o {
			return opts
		}
	}
	return append(opts, o)
}

// AdLibraryLinks returns public ad transparency searches for a domain.
func AdLibraryLinks(domain string) []types.AdLibraryLink {
	q := url.QueryEscape(domain)
	return []types.AdLibraryLink{
		{
			Name:        "Facebook広告ライブラリ",
			URL:         "https://www.facebook.com/ads/library/?active_status=all&ad_type=all&country=JP&q=" + q + "&search_type=page",
			Description: "Meta (Facebook/Instagram) で配信中の広告を確認",
		},
		{
			Name:        "Google広告透明性センター",
			URL:         "https://adstransparency.google.com/advertiser?advertiser_domain=" + q,
			Description: "Google検索・YouTube等で配信中の広告を確認",
		},
		{
			Name:        "X (Twitter) 広告透明性",
			URL:         "https://transparency.twitter.com/en/reports/ads.html",
			Description: "X (旧Twitter) の広告ポリシーと透明性レポート",
		},
	}
}
