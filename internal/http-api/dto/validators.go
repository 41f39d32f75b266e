package dto

import (
	"fmt"

	"locallibrary/internal/http-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by the request DTOs
// to gin's validator engine. Call once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("loan_status", validLoanStatus)
}

// validLoanStatus accepts a status code ("o") or its label ("On loan").
func validLoanStatus(fl validator.FieldLevel) bool {
	_, err := models.ParseLoanStatus(fl.Field().String())
	return err == nil
}
