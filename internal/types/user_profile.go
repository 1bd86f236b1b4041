package types

// Phase is the inferred stage of the visitor's decision journey.
type Phase string

const (
	PhaseResearch   Phase = "情報収集"
	PhaseComparison Phase = "比較検討"
	PhaseImmediate  Phase = "今すぐ"
)

// Temperature approximates the visitor's readiness to convert.
type Temperature string

const (
	TemperatureLow  Temperature = "低"
	TemperatureMid  Temperature = "中"
	TemperatureHigh Temperature = "高"
)

// Interest is a topic the visitor is likely to care about.
type Interest string

const (
	InterestPrice    Interest = "価格"
	InterestFeatures Interest = "機能"
	InterestCases    Interest = "事例"
	InterestTrust    Interest = "信頼性"
)

// MaxInterests caps the number of interests kept on a profile.
const MaxInterests = 3

// UserProfile is the estimated visitor persona for a page.
type UserProfile struct {
	Phase       Phase       `json:"phase"`
	Temperature Temperature `json:"temperature"`
	Interests   []Interest  `json:"interests"`
}

// HasInterest reports whether the profile lists the given interest.
func (p UserProfile) HasInterest(i Interest) bool {
	for _, v := range p.Interests {
		if v == i {
			return true
		}
	}
	return false
}

// AgentProposal is the suggested chat-agent opening: one message and up to
// three distinct quick-reply options.
type AgentProposal struct {
	Message string   `json:"message"`
	Options []string `json:"options"`
}
