package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/plan-autofill/pkg/constants"
)

var validate = validator.New()

// ValidateInput checks an input for values the projection will accept but
// which are most likely mistakes, and returns them as warnings. The engine
// tolerates every input, so nothing here is fatal.
func (in *Input) ValidateInput() []string {
	var warnings []string

	if err := validate.Struct(in); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				warnings = append(warnings, describeFieldError(fe))
			}
		} else {
			warnings = append(warnings, fmt.Sprintf("input could not be validated: %v", err))
		}
	}

	switch {
	case len(in.Years) == 0:
		warnings = append(warnings, fmt.Sprintf("no years given, defaulting to %v", in.YearSet()))
	case len(in.Years) != constants.YearsInProjection:
		warnings = append(warnings, fmt.Sprintf("expected %d years, got %d; projecting %v",
			constants.YearsInProjection, len(in.Years), in.YearSet()))
	default:
		for i := 1; i < len(in.Years); i++ {
			if in.Years[i] != in.Years[i-1]+1 {
				warnings = append(warnings, fmt.Sprintf("years %v are not sequential", in.Years))
				break
			}
		}
	}

	if len(in.Sales) == 0 {
		warnings = append(warnings, "no sales lines given; revenue will be zero")
	}

	return warnings
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Input.")
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got %v)", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (got %v)", field, fe.Tag(), fe.Value())
	}
}
