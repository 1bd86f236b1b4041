// Package schemas holds the JSON Schemas for the analyzer's output artifacts.
package schemas

import _ "embed"

// PageReport is the schema of a single-page analysis report.
//
//go:embed page_report.schema.json
var PageReport string

// SiteMap is the schema of a site page map.
//
//go:embed site_map.schema.json
var SiteMap string
