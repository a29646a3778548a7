package draft

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/inputval"
)

// ValidationErrors maps a slot key to the catalog key of its message
// (e.g. "title" -> "msg.required"). Views translate the values with i18n.T.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + v[k]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether key failed validation.
func (v ValidationErrors) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Validate runs the client-side checks for every slot: required
// default-language text, length bounds, email, URL and phone shape, enum
// membership, parsable numbers and dates. A nil result means the draft may
// be submitted.
func Validate(d Draft) ValidationErrors {
	errs := ValidationErrors{}
	for _, desc := range d.schema.Expand() {
		if msg := check(d, desc); msg != "" {
			errs[desc.Key] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func check(d Draft, desc fieldmodel.Descriptor) string {
	switch desc.Kind {
	case fieldmodel.Number:
		if _, bad := d.raw[desc.Key]; bad {
			return "msg.invalidNumber"
		}
		if desc.Required && d.Number(desc.Key) == 0 {
			return "msg.required"
		}
		return ""
	case fieldmodel.MediaFile:
		if desc.Required && !d.editing {
			if m := d.Media(desc.Key); !m.Selected() && m.URL == "" {
				return "msg.required"
			}
		}
		return ""
	case fieldmodel.Boolean:
		return ""
	}

	v := d.Text(desc.Key)
	if inputval.IsBlank(v) {
		if desc.Required {
			return "msg.required"
		}
		return ""
	}
	switch inputval.CheckLength(v, desc.MinLen, desc.MaxLen) {
	case inputval.TooShort:
		return "msg.tooShort"
	case inputval.TooLong:
		return "msg.tooLong"
	}

	switch desc.Kind {
	case fieldmodel.Email:
		if !inputval.IsValidEmail(v) {
			return "msg.invalidEmail"
		}
	case fieldmodel.URL:
		if !inputval.IsValidHTTPURL(v) {
			return "msg.invalidURL"
		}
	case fieldmodel.Phone:
		if !inputval.IsValidPhone(v) {
			return "msg.invalidPhone"
		}
	case fieldmodel.Enum:
		if !slices.Contains(desc.Options, v) {
			return "msg.invalidOption"
		}
	case fieldmodel.Date:
		if _, err := time.Parse(dateLayout, strings.TrimSpace(v)); err != nil {
			return "msg.invalidDate"
		}
	}
	return ""
}
