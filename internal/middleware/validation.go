package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/smartplan-api/internal/model"
)

// RegisterValidators wires the domain enum validators into gin's binding
// engine. Must be called once before the router starts serving.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	validators := map[string]validator.Func{
		"plantype": func(fl validator.FieldLevel) bool {
			return model.ValidPlanType(fl.Field().String())
		},
		"plantimeline": func(fl validator.FieldLevel) bool {
			return model.ValidTimeline(fl.Field().String())
		},
		"planstatus": func(fl validator.FieldLevel) bool {
			return model.ValidPlanStatus(fl.Field().String())
		},
		"planchannel": func(fl validator.FieldLevel) bool {
			return model.ValidChannel(fl.Field().String())
		},
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}
