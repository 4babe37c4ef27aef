// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/plan-autofill/pkg/constants"
)

// ValidateOutputFormat checks if the console output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateDocumentFormat checks if the plan document format is one of the supported formats.
func ValidateDocumentFormat(format string) error {
	if format != constants.DocumentFormatHTML && format != constants.DocumentFormatMarkdown {
		return fmt.Errorf("expected document format of %s or %s, got %s",
			constants.DocumentFormatHTML, constants.DocumentFormatMarkdown, format)
	}
	return nil
}
