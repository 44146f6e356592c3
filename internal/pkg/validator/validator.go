package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Shared validator instance to avoid creating multiple instances
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Decimals validate as float64 so numeric tags such as gte=0 apply to prices
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// Get returns the shared validator instance
func Get() *validator.Validate {
	return validate
}

// Struct validates a struct with the shared instance
func Struct(v interface{}) error {
	return validate.Struct(v)
}
