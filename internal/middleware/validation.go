package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// RegisterValidators wires the time formats used by booking and
// schedule requests into gin's binding validator, so malformed
// user-supplied times are rejected before any slot computation runs.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := timeutil.ToMinutes(fl.Field().String())
		return err == nil
	})

	v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := timeutil.ParseDate(fl.Field().String())
		return err == nil
	})
}
