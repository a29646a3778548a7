// Package inputval validates user input at the edge of the app: admin form
// values before they become a request payload, and public contact form
// submissions before they are sent on.
//
// Struct validation uses go-playground/validator tags; the label tag
// supplies the name used in messages.
//
//	type input struct {
//	    Name string `validate:"required,max=100" label:"Name"`
//	}
package inputval

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule.
type FieldError struct {
	Field       string // label (or Go field name when no label is set)
	StructField string // Go field name
	Tag         string // failed rule, e.g. "required"
	Message     string
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ByField indexes errors by Go field name, keeping the first per field.
func (r *Result) ByField() map[string]FieldError {
	out := map[string]FieldError{}
	if r == nil {
		return out
	}
	for _, e := range r.Errors {
		if _, seen := out[e.StructField]; !seen {
			out[e.StructField] = e
		}
	}
	return out
}

// MessageKey maps a failed rule to the UI catalog key shown beside the
// field in a re-rendered form.
func MessageKey(tag string) string {
	switch tag {
	case "required":
		return "msg.required"
	case "max":
		return "msg.tooLong"
	case "min":
		return "msg.tooShort"
	case "email", "mailbox":
		return "msg.invalidEmail"
	case "httpurl":
		return "msg.invalidURL"
	case "phone":
		return "msg.invalidPhone"
	case "oneof":
		return "msg.invalidOption"
	}
	return "page.error.title"
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return strings.TrimSpace(s) == "" || IsValidPhone(s)
		})
		_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks a struct against its validate tags.
func Validate(s any) *Result {
	res := &Result{}
	err := engine().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:       fe.Field(),
			StructField: fe.StructField(),
			Tag:         fe.Tag(),
			Message:     message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", name, fe.Param())
	case "email", "mailbox":
		return "A valid email address is required."
	case "httpurl":
		return name + " must be a valid http or https link."
	case "phone":
		return name + " must be a valid phone number."
	case "oneof":
		return name + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	}
	return name + " is invalid."
}

/*─────────────────────────────────────────────────────────────────────────────*
| Scalar validators                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	emailLocal  = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+)*$`)
	emailDomain = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*$`)
	phoneRe     = regexp.MustCompile(`^\+?\(?[0-9][0-9 ()-]{4,18}[0-9]$`)
)

// IsValidEmail reports whether s is a bare address (no display name) with a
// dot-atom local part and a hostname domain.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if len(local) > 64 {
		return false
	}
	return emailLocal.MatchString(local) && emailDomain.MatchString(domain)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidHTTPURL reports whether s is an absolute http or https URL with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidPhone accepts Indian-style numbers with an optional leading +,
// spaces, dashes and brackets (STD codes are often written "(02162)").
func IsValidPhone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

// Length is the outcome of a rune-length check.
type Length int

const (
	LengthOK Length = iota
	TooShort
	TooLong
)

// CheckLength compares the rune count of the trimmed value against the
// bounds. A zero bound is not checked.
func CheckLength(s string, min, max int) Length {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case min > 0 && n < min:
		return TooShort
	case max > 0 && n > max:
		return TooLong
	}
	return LengthOK
}

// IsBlank reports whether s is empty after trimming.
func IsBlank(s string) bool { return strings.TrimSpace(s) == "" }
