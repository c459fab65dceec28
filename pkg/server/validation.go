package server

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/metadatax/mediainfobot/pkg/query"
)

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()

	// Verify that the value parses as a report filter expression, so
	// malformed filters are rejected before they reach the store.
	if err := validate.RegisterValidation("filter", func(fl validator.FieldLevel) bool {
		_, err := query.ParseFilter(fl.Field().String())

		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("validation registration failed: %w", err)
	}

	return validate, nil
}
