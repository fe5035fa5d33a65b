package store

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rcliao/tracker-agent/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("quality", func(fl validator.FieldLevel) bool {
		return model.Quality(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("register quality validation: %v", err))
	}
	return v
}

func validateRecord(r any) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}
