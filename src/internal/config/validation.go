package config

import (
	"fmt"
	"io"
	"net"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/valvula-mgr/src/internal/postfix"
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "hostport_or_empty":
		return "must be in format 'host:port' or empty"
	case "token_template":
		return "must be a template using both {{host}} and {{port}}, e.g. 'check_policy_service inet:{{host}}:{{port}}'"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	FieldPath string // Dot-notation field path (e.g., "postfix.token_template")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("hostport_or_empty", validateHostPortOrEmpty); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("token_template", validateTokenTemplate); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: host:port format or empty
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}

// Custom validator: restriction template with balanced {{ }} tags using both host and port
func validateTokenTemplate(fl validator.FieldLevel) bool {
	return ValidateTokenTemplate(fl.Field().String()) == nil
}

// ValidateTokenTemplate checks that tmpl parses and references {{host}} and {{port}}.
func ValidateTokenTemplate(tmpl string) error {
	if strings.TrimSpace(tmpl) == "" {
		return fmt.Errorf("template cannot be empty")
	}

	t, err := fasttemplate.NewTemplate(tmpl, "{{", "}}")
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	_, err = t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		if tag != postfix.TOKEN_TMPL_HOST && tag != postfix.TOKEN_TMPL_PORT {
			return 0, fmt.Errorf("unknown template variable {{%s}}", tag)
		}
		seen[tag] = true
		return 0, nil
	})
	if err != nil {
		return err
	}

	if !seen[postfix.TOKEN_TMPL_HOST] || !seen[postfix.TOKEN_TMPL_PORT] {
		return fmt.Errorf("template must use both {{%s}} and {{%s}}", postfix.TOKEN_TMPL_HOST, postfix.TOKEN_TMPL_PORT)
	}
	return nil
}
