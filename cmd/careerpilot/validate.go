package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jonathan/careerpilot/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against an embedded schema",
	Long:  "Validates a resume profile, job, course or role JSON file against its embedded JSON Schema. With --list the file must be an array of such documents.",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateJSON   string
	validateList   bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name: resume_profile, job_posting, course_record or role_target (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Path to the JSON file to validate (required)")
	validateCmd.Flags().BoolVar(&validateList, "list", false, "Validate a JSON array of documents")
	markRequired(validateCmd, "schema", "json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	name := schemas.Name(validateSchema)
	if !slices.Contains(schemas.Names(), name) {
		return fmt.Errorf("unknown schema %q: expected one of %v", validateSchema, schemas.Names())
	}

	var err error
	if validateList {
		var content []byte
		content, err = os.ReadFile(validateJSON)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", validateJSON, err)
		}
		err = schemas.ValidateList(name, content)
	} else {
		err = schemas.ValidateFile(name, validateJSON)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", validateJSON, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateJSON)
	return nil
}
