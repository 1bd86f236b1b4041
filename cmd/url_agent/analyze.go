package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/url-analyzer/internal/observability"
	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Estimate traffic sources, visitor profile and a chat agent opening for one page",
	Long: `Fetch a page and estimate how visitors reach it (SEO, ads, direct), who they are
(phase, temperature, interests) and which chat agent opening fits them.

Use --html to analyze a saved page instead of fetching it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeSiteType     string
	analyzeBusinessType string
	analyzeFormat       string
	analyzeHTMLFile     string
	analyzeOutputFile   string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSiteType, "site-type", "", "Site type: EC, SaaS, media, corporate, other (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeBusinessType, "business-type", "", "Business type: BtoB or BtoC (overrides config)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format: text, copy or json")
	analyzeCmd.Flags().StringVar(&analyzeHTMLFile, "html", "", "Analyze HTML from this file instead of fetching the URL")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Write output to this file instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	switch analyzeFormat {
	case "text", "copy", "json":
	default:
		return fmt.Errorf("unknown format %q: use text, copy or json", analyzeFormat)
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	req := types.AnalyzeRequest{
		URL:          args[0],
		SiteType:     firstNonEmpty(analyzeSiteType, rt.cfg.SiteType),
		BusinessType: firstNonEmpty(analyzeBusinessType, rt.cfg.BusinessType),
	}

	a, err := rt.analyzer()
	if err != nil {
		return err
	}

	var report *types.PageReport
	if analyzeHTMLFile != "" {
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
		html, err := os.ReadFile(analyzeHTMLFile)
		if err != nil {
			return fmt.Errorf("failed to read HTML file: %w", err)
		}
		report, err = a.AnalyzeHTML(string(html), req.URL, req.Site(), req.Business())
		if err != nil {
			return err
		}
	} else {
		report, err = a.AnalyzeURL(context.Background(), req)
		if err != nil {
			return err
		}
	}

	return writeOutput(cmd.OutOrStdout(), analyzeOutputFile, func(w io.Writer) error {
		switch analyzeFormat {
		case "json":
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal report: %w", err)
			}
			_, err = fmt.Fprintln(w, string(data))
			return err
		case "copy":
			_, err := fmt.Fprintln(w, observability.FormatCopyText(report.Hypothesis, report.Profile, report.Proposal))
			return err
		default:
			observability.NewPrinter(w).PrintReport(report)
			return nil
		}
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
