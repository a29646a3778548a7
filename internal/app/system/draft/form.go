package draft

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
)

// FromForm applies a posted admin form to d. Text slots absent from the
// form keep their value; checkboxes absent from the form are false. A number
// that does not parse is kept as typed and reported by Validate.
func FromForm(d Draft, form url.Values, files map[string]apiclient.File) (Draft, error) {
	out := d
	for _, desc := range d.schema.Expand() {
		var err error
		switch desc.Kind {
		case fieldmodel.MediaFile:
			f, ok := files[desc.Key]
			if !ok || len(f.Data) == 0 {
				continue
			}
			out, err = SetField(out, desc.Key, f)

		case fieldmodel.Boolean:
			out, err = SetField(out, desc.Key, checked(form.Get(desc.Key)))

		case fieldmodel.Number:
			if _, ok := form[desc.Key]; !ok {
				continue
			}
			s := strings.TrimSpace(form.Get(desc.Key))
			if s == "" {
				if out.unset[desc.Key] {
					continue
				}
				out, err = SetField(out, desc.Key, float64(0))
				break
			}
			n, perr := strconv.ParseFloat(s, 64)
			if perr != nil {
				out = out.clone()
				if out.raw == nil {
					out.raw = make(map[string]string)
				}
				out.raw[desc.Key] = s
				continue
			}
			out, err = SetField(out, desc.Key, n)

		default:
			if _, ok := form[desc.Key]; !ok {
				continue
			}
			v := strings.ReplaceAll(form.Get(desc.Key), "\r\n", "\n")
			if !desc.Long && desc.Kind != fieldmodel.LongText {
				v = strings.TrimSpace(v)
			}
			out, err = SetField(out, desc.Key, v)
		}
		if err != nil {
			return d, err
		}
	}
	return out, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
