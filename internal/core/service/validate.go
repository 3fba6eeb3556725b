package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
)

// validate is safe for concurrent use and caches rule parsing.
var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	titleRule    = fmt.Sprintf("max=%d", maxTitleLength)
	urlRule      = fmt.Sprintf("max=%d,http_url", maxURLLength)
	categoryRule = "oneof=" + strings.Join(categoryNames(), " ")
)

func categoryNames() []string {
	names := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}
	return names
}

// checkVar runs rule against v and returns the client-facing message of the
// first failing tag, or "" when v passes.
func checkVar(v any, rule string) string {
	err := validate.Var(v, rule)
	if err == nil {
		return ""
	}

	var fes validator.ValidationErrors
	if !errors.As(err, &fes) || len(fes) == 0 {
		return "Invalid value."
	}
	fe := fes[0]
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "url", "http_url":
		return "Enter a valid URL."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
