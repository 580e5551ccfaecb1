package utils

import (
	"clinic-appointment-service/internal/pkg/constvars"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterValidation("date_only", validateDateOnly)
	validate.RegisterValidation("slot_time", validateSlotTime)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(constvars.DateLayout, fl.Field().String())
	return err == nil
}

func validateSlotTime(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != len(constvars.SlotTimeLayout) {
		return false
	}
	_, err := time.Parse(constvars.SlotTimeLayout, value)
	return err == nil
}
