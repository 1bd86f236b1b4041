// Package observability provides logging, metrics and formatted output for
// analysis results.
package observability

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/jonathan/url-analyzer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxStars is the width of a star bar
	maxStars = 5
)

// Printer handles formatted output for CLI results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Stars renders a 1-5 score as filled and empty stars, always five marks wide.
func Stars(score int) string {
	score = max(0, min(maxStars, score))
	return strings.Repeat("★", score) + strings.Repeat("☆", maxStars-score)
}

// FormatCopyText renders the plain-text summary meant for pasting into chat or docs.
func FormatCopyText(h types.TrafficHypothesis, p types.UserProfile, proposal types.AgentProposal) string {
	interests := make([]string, 0, len(p.Interests))
	for _, i := range p.Interests {
		interests = append(interests, string(i))
	}
	options := make([]string, 0, len(proposal.Options))
	for _, o := range proposal.Options {
		options = append(options, "・"+o)
	}

	var sb strings.Builder
	sb.WriteString("【URL分析結果】\n\n")
	sb.WriteString("① 想定流入経路（仮説）\n")
	fmt.Fprintf(&sb, "SEO：%s\n", Stars(h.SEO))
	fmt.Fprintf(&sb, "広告：%s\n", Stars(h.Ad))
	fmt.Fprintf(&sb, "指名：%s\n\n", Stars(h.Direct))
	sb.WriteString("② 想定ユーザー像\n")
	fmt.Fprintf(&sb, "フェーズ：%s\n", p.Phase)
	fmt.Fprintf(&sb, "温度感：%s\n", p.Temperature)
	fmt.Fprintf(&sb, "主な関心：%s\n\n", strings.Join(interests, " / "))
	sb.WriteString("③ ChatAgent活用提案\n")
	sb.WriteString("初回メッセージ：\n")
	fmt.Fprintf(&sb, "「%s」\n\n", proposal.Message)
	sb.WriteString("選択肢：\n")
	sb.WriteString(strings.Join(options, "\n"))
	return strings.TrimSpace(sb.String())
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	if text.StringWidthWithoutEscSequences(s) <= width {
		return s
	}
	var sb strings.Builder
	w := 0
	for _, r := range s {
		rw := text.RuneWidth(r)
		if w+rw > width-3 {
			break
		}
		sb.WriteRune(r)
		w += rw
	}
	return sb.String() + "..."
}

// pad right-fills s with spaces to width display cells.
func pad(s string, width int) string {
	w := text.StringWidthWithoutEscSequences(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PrintReport outputs a human-readable summary of a single-page analysis.
func (p *Printer) PrintReport(r *types.PageReport) {
	if r == nil {
		return
	}

	var sb strings.Builder
	if r.Signals != nil {
		fmt.Fprintf(&sb, "URL:    %s\n", r.Signals.URL)
		if r.Signals.Title != "" {
			fmt.Fprintf(&sb, "Title:  %s\n", r.Signals.Title)
		}
		if len(r.Signals.Keywords) > 0 {
			fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(r.Signals.Keywords, ", "))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "SEO     %s\n", Stars(r.Hypothesis.SEO))
	fmt.Fprintf(&sb, "Ad      %s\n", Stars(r.Hypothesis.Ad))
	fmt.Fprintf(&sb, "Direct  %s\n", Stars(r.Hypothesis.Direct))

	if r.Indicators.HasAdKeywords || r.Indicators.HasCampaignURL || r.Indicators.HasTrackingParams {
		sb.WriteString("\nAd indicators:\n")
		if len(r.Indicators.AdKeywords) > 0 {
			fmt.Fprintf(&sb, "  • keywords: %s\n", strings.Join(r.Indicators.AdKeywords, ", "))
		}
		if len(r.Indicators.LPIndicators) > 0 {
			fmt.Fprintf(&sb, "  • landing page: %s\n", strings.Join(r.Indicators.LPIndicators, ", "))
		}
		for _, tp := range r.Indicators.TrackingParams {
			fmt.Fprintf(&sb, "  • %s=%s\n", tp.Param, tp.Value)
		}
	}

	p.printBox("TRAFFIC HYPOTHESIS", strings.TrimSuffix(sb.String(), "\n"))
	fmt.Fprintln(p.out) //nolint:errcheck // writing to stdout
	if r.Signals != nil {
		p.printBox("PAGE SIGNALS", FormatSignals(r.Signals))
		fmt.Fprintln(p.out) //nolint:errcheck // writing to stdout
	}
	p.printBox("CHAT AGENT PROPOSAL", FormatCopyText(r.Hypothesis, r.Profile, r.Proposal))

	if len(r.AdLibraryLinks) > 0 {
		fmt.Fprintln(p.out) //nolint:errcheck // writing to stdout
		var links strings.Builder
		for _, l := range r.AdLibraryLinks {
			fmt.Fprintf(&links, "%s\n  %s\n", l.Name, l.URL)
		}
		p.printBox("AD LIBRARIES", strings.TrimSuffix(links.String(), "\n"))
	}
}

// FormatSignals lists the extracted page data: basic fields, OGP and Twitter
// tags, recognized meta tags and the JSON-LD block count. Empty fields print
// as "(none)"; absent tag groups are skipped.
func FormatSignals(s *types.PageSignals) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Domain:      %s\n", orNone(s.Domain))
	fmt.Fprintf(&sb, "Path:        %s\n", orNone(s.URLPath))
	fmt.Fprintf(&sb, "Description: %s\n", orNone(s.MetaDescription))
	fmt.Fprintf(&sb, "H1:          %s\n", orNone(s.H1))

	for _, k := range slices.Sorted(maps.Keys(s.OGTags)) {
		fmt.Fprintf(&sb, "og:%s = %s\n", k, s.OGTags[k])
	}
	for _, k := range slices.Sorted(maps.Keys(s.TwitterCards)) {
		fmt.Fprintf(&sb, "twitter:%s = %s\n", k, s.TwitterCards[k])
	}

	if s.MetaTags.Robots != "" {
		fmt.Fprintf(&sb, "robots:      %s\n", s.MetaTags.Robots)
	}
	if s.MetaTags.Canonical != "" {
		fmt.Fprintf(&sb, "canonical:   %s\n", s.MetaTags.Canonical)
	}
	if s.MetaTags.Keywords != "" {
		fmt.Fprintf(&sb, "keywords:    %s\n", s.MetaTags.Keywords)
	}
	fmt.Fprintf(&sb, "JSON-LD:     %d\n", len(s.StructuredData))
	fmt.Fprintf(&sb, "Detected:    %s", orNone(strings.Join(s.Keywords, ", ")))
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// siteMapTable fills a table writer with one row per entry.
func siteMapTable(m *types.SiteMap) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "URL", "Page Type", "Priority", "Role", "Chat Agent Role", "Confidence"})
	for i, e := range m.Entries {
		t.AppendRow(table.Row{
			i + 1,
			e.URL,
			string(e.PageType),
			string(e.Priority),
			e.Role,
			e.ChatAgentRole,
			string(e.Confidence),
		})
	}
	return t
}

// PrintSiteMap outputs the classified site pages as a table.
func (p *Printer) PrintSiteMap(m *types.SiteMap) {
	if m == nil {
		return
	}
	t := siteMapTable(m)
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 50},
		{Number: 5, WidthMax: 30},
		{Number: 6, WidthMax: 30},
	})
	t.AppendFooter(table.Row{"", fmt.Sprintf("%s (%s)", m.Domain, m.Source), "Total", len(m.Entries), "", "", fmt.Sprintf("degraded: %d", m.Degraded)})
	t.Render()
}

// WriteSiteMapCSV writes the classified site pages as CSV.
func WriteSiteMapCSV(w io.Writer, m *types.SiteMap) {
	if m == nil {
		return
	}
	t := siteMapTable(m)
	t.SetOutputMirror(w)
	t.RenderCSV()
}
