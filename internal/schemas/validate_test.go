package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/url-analyzer/internal/analysis"
	"github.com/jonathan/url-analyzer/internal/sitemap"
	"github.com/jonathan/url-analyzer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", personSchema)

	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{"valid", `{"name": "test"}`, false},
		{"missing field", `{"age": 30}`, true},
		{"wrong type", `{"name": 42}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := writeFile(t, dir, tt.name+".json", tt.content)

			err := ValidateJSON(schemaPath, jsonPath)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", personSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"name": "x"}`)

	err := ValidateJSON(filepath.Join(dir, "nope.json"), jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", personSchema)
	jsonPath := writeFile(t, dir, "malformed.json", "{ invalid json }")

	err := ValidateJSON(schemaPath, jsonPath)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestValidateJSON_NestedField(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "nested.schema.json", `{
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {"name": {"type": "string"}}
			}
		}
	}`)
	jsonPath := writeFile(t, dir, "nested.json", `{"person": {}}`)

	err := ValidateJSON(schemaPath, jsonPath)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "person", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	assert.Equal(t, "validation failed:\n  1. name: is required\n  2. age: must be a number\n", err.Error())
}

func analyzedReport(t *testing.T) []byte {
	t.Helper()
	a := analysis.New(nil, analysis.Options{})
	report, err := a.AnalyzeHTML(
		`<html><head><title>今すぐ無料 | 料金プラン</title></head><body><h1>導入事例</h1></body></html>`,
		"https://example.com/lp/pricing?utm_source=google",
		types.SiteTypeSaaS, types.BusinessTypeBtoB)
	require.NoError(t, err)
	data, err := json.Marshal(report)
	require.NoError(t, err)
	return data
}

func TestValidateArtifact_PageReport(t *testing.T) {
	data := analyzedReport(t)

	assert.NoError(t, ValidateArtifact(KindPageReport, data))

	kind, err := DetectKind(data)
	require.NoError(t, err)
	assert.Equal(t, KindPageReport, kind)
}

func TestValidateArtifact_PageReportOutOfRangeScore(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(analyzedReport(t), &doc))
	doc["hypothesis"].(map[string]any)["seo"] = 7
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	err = ValidateArtifact(KindPageReport, data)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "hypothesis.seo", validationErr.Errors[0].Field)
}

func TestValidateArtifact_SiteMap(t *testing.T) {
	m := types.SiteMap{
		Domain:      "example.com",
		GeneratedAt: "2024-03-01T09:30:00Z",
		Source:      types.SourceFallback,
		Entries: []types.SiteURLEntry{
			sitemap.ClassifyPath("https://example.com/faq"),
			sitemap.NewEntry("https://example.com/cart", types.PageTypeCart, types.ConfidenceLow),
		},
		Degraded: 1,
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)

	assert.NoError(t, ValidateArtifact(KindSiteMap, data))

	kind, err := DetectKind(data)
	require.NoError(t, err)
	assert.Equal(t, KindSiteMap, kind)

	m.Entries[0].Priority = "urgent"
	data, err = json.Marshal(m)
	require.NoError(t, err)
	assert.Error(t, ValidateArtifact(KindSiteMap, data))
}

func TestDetectKind_Unknown(t *testing.T) {
	_, err := DetectKind([]byte(`{"foo": 1}`))
	assert.Error(t, err)

	_, err = DetectKind([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestSchemaFor_UnknownKind(t *testing.T) {
	_, err := SchemaFor("resume")

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}
