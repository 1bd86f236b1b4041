package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/url-analyzer/internal/observability"
	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/spf13/cobra"
)

var siteMapCmd = &cobra.Command{
	Use:   "site-map <domain>",
	Short: "Classify a site's pages and rank them by chat agent priority",
	Long: `Discover candidate pages of a domain (robots.txt sitemaps, sitemap.xml, homepage
links, then common paths) and classify each page's role and chat agent priority.

By default pages are classified from their URL paths. With --fetch every page is
fetched in batches of five; pages that fail are kept as low-confidence entries.`,
	Args: cobra.ExactArgs(1),
	RunE: runSiteMap,
}

var (
	siteMapFetch      bool
	siteMapMaxURLs    int
	siteMapFormat     string
	siteMapOutputFile string
)

func init() {
	siteMapCmd.Flags().BoolVar(&siteMapFetch, "fetch", false, "Fetch each page to confirm its type and title")
	siteMapCmd.Flags().IntVar(&siteMapMaxURLs, "max-urls", 0, "Maximum number of pages (0 uses the config value)")
	siteMapCmd.Flags().StringVarP(&siteMapFormat, "format", "f", "table", "Output format: table, csv or json")
	siteMapCmd.Flags().StringVarP(&siteMapOutputFile, "out", "o", "", "Write output to this file instead of stdout")

	rootCmd.AddCommand(siteMapCmd)
}

func runSiteMap(cmd *cobra.Command, args []string) error {
	switch siteMapFormat {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q: use table, csv or json", siteMapFormat)
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	a, err := rt.analyzer()
	if err != nil {
		return err
	}

	m, err := a.MapSite(context.Background(), types.SiteMapRequest{
		Domain:  args[0],
		Fetch:   siteMapFetch,
		MaxURLs: siteMapMaxURLs,
	})
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), siteMapOutputFile, func(w io.Writer) error {
		switch siteMapFormat {
		case "json":
			data, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal site map: %w", err)
			}
			_, err = fmt.Fprintln(w, string(data))
			return err
		case "csv":
			observability.WriteSiteMapCSV(w, m)
		default:
			observability.NewPrinter(w).PrintSiteMap(m)
		}
		return nil
	})
}
