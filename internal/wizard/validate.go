package wizard

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	notBlankTag  = "notblank"
	leadEmailTag = "leademail"
	tenDigitsTag = "tendigits"
)

var (
	emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phoneShape = regexp.MustCompile(`^[0-9]{10}$`)

	// messages is keyed by field, then by the tag that failed.
	messages = map[string]map[string]string{
		FieldName: {
			notBlankTag: "Name is required",
		},
		FieldEmail: {
			notBlankTag:  "Email is required",
			leadEmailTag: "Please enter a valid email",
		},
		FieldPhone: {
			notBlankTag:  "Phone number is required",
			tenDigitsTag: "Please enter a valid 10-digit number",
		},
		FieldEducation: {
			notBlankTag: "Education details are required",
		},
	}

	validate = newValidate()
)

// contactInput is the set of fields collected on step 1.
type contactInput struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"notblank,leademail"`
	Phone string `json:"phone" validate:"notblank,tendigits"`
}

// backgroundInput is the set of fields collected on step 2.
type backgroundInput struct {
	Education    string `json:"education" validate:"notblank"`
	Experience   string `json:"experience"`
	Interests    string `json:"interests"`
	Expectations string `json:"expectations"`
}

func newValidate() *validator.Validate {
	v := validator.New()

	// Report json names so errors line up with the form's field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(leadEmailTag, func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation(tenDigitsTag, func(fl validator.FieldLevel) bool {
		return phoneShape.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// ValidateStep checks the fields that belong to step and returns one message per
// failing field. The result is empty when the step passes; step 3 never fails.
func ValidateStep(step Step, values map[string]string) Errors {
	var input interface{}
	switch step {
	case StepContact:
		input = contactInput{
			Name:  values[FieldName],
			Email: values[FieldEmail],
			Phone: values[FieldPhone],
		}
	case StepBackground:
		input = backgroundInput{
			Education:    values[FieldEducation],
			Experience:   values[FieldExperience],
			Interests:    values[FieldInterests],
			Expectations: values[FieldExpectations],
		}
	default:
		return Errors{}
	}

	errs := Errors{}
	err := validate.Struct(input)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable if the input structs themselves are malformed.
		panic("wizard: " + err.Error())
	}
	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return errs
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return "This field is invalid"
}
