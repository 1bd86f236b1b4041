package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/url-analyzer/internal/schemas"
	"github.com/spf13/cobra"
)

var validateReportCmd = &cobra.Command{
	Use:   "validate-report <file>",
	Short: "Validate a saved page report or site map against its JSON Schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateReport,
}

var (
	validateKind   string
	validateSchema string
)

func init() {
	validateReportCmd.Flags().StringVar(&validateKind, "kind", "", "Artifact kind: page_report or site_map (detected when empty)")
	validateReportCmd.Flags().StringVar(&validateSchema, "schema", "", "Validate against this JSON Schema file instead of the bundled one")

	rootCmd.AddCommand(validateReportCmd)
}

func runValidateReport(cmd *cobra.Command, args []string) error {
	if validateSchema != "" {
		if err := schemas.ValidateJSON(validateSchema, args[0]); err != nil {
			return fmt.Errorf("%s does not match %s: %w", args[0], validateSchema, err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: valid against %s\n", args[0], validateSchema)
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	kind := schemas.Kind(validateKind)
	if kind == "" {
		if kind, err = schemas.DetectKind(data); err != nil {
			return err
		}
	}

	if err := schemas.ValidateArtifact(kind, data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%s does not match the %s schema: %w", args[0], kind, err)
		}
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s\n", args[0], kind)
	return err
}
