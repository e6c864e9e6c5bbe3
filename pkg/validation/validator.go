package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the global validator instance
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("latitude", validateLatitude)
	_ = Validate.RegisterValidation("longitude", validateLongitude)
	_ = Validate.RegisterValidation("travel_mode", validateTravelMode)
	_ = Validate.RegisterValidation("unit_system", validateUnitSystem)
	_ = Validate.RegisterValidation("platform", validatePlatform)
}

// ValidateStruct validates a struct and returns a readable error when validation fails.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return newValidationError(validationErrors)
		}
		return err
	}
	return nil
}

func newValidationError(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on %q", fieldErr.Field(), fieldErr.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// validateLatitude checks if latitude is within valid range (-90 to 90)
func validateLatitude(fl validator.FieldLevel) bool {
	latitude := fl.Field().Float()
	return latitude >= -90.0 && latitude <= 90.0
}

// validateLongitude checks if longitude is within valid range (-180 to 180)
func validateLongitude(fl validator.FieldLevel) bool {
	longitude := fl.Field().Float()
	return longitude >= -180.0 && longitude <= 180.0
}

// validateTravelMode checks the travel mode against the engine's accepted values
func validateTravelMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "driving", "walking", "bicycling", "transit":
		return true
	default:
		return false
	}
}

// validateUnitSystem checks the unit system value
func validateUnitSystem(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "metric", "imperial":
		return true
	default:
		return false
	}
}

// validatePlatform checks the export platform value
func validatePlatform(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "android", "ios", "web":
		return true
	default:
		return false
	}
}
