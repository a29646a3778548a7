package inputval

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"grampanchayat.shivapur@gov.in", true},
		{"sarpanch+notices@example.in", true},
		{"  gramsevak@example.in  ", true}, // trimmed
		{"ramesh.patil@mail.example.co.in", true},
		{"admin@mailserver", true}, // single-label domains are allowed

		{"", false},
		{"   ", false},
		{"sarpanch", false},
		{"sarpanch@", false},
		{"@gov.in", false},
		{".sarpanch@gov.in", false},
		{"gram..sevak@gov.in", false},
		{"sarpanch@gov..in", false},
		{"sarpanch@gov.in.", false},
		{"sarpanch@-gov.in", false},
		{"Sarpanch <sarpanch@gov.in>", false},
		{"gram sevak@gov.in", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ramesh.Patil@Example.IN "); got != "ramesh.patil@example.in" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		// mobile numbers
		{"9876543210", true},
		{"+91 98765 43210", true},
		{"+91-9876543210", true},
		{" 98765 43210 ", true},

		// landlines with STD code
		{"(02162) 234567", true},
		{"020-2553 1234", true},

		{"", false},
		{"call me", false},
		{"98765abcde", false},
		{"12345", false},                     // too short
		{"+91-98765-43210-99999-12", false}, // too long
		{"98765 43210-", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := IsValidPhone(tt.phone); got != tt.want {
				t.Errorf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	for s, want := range map[string]bool{
		"https://pmkisan.gov.in/":          true,
		"http://example.in/apply?scheme=1": true,
		"pmkisan.gov.in":                   false,
		"ftp://example.in/form.pdf":        false,
		"https://":                         false,
		"":                                 false,
	} {
		if got := IsValidHTTPURL(s); got != want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestCheckLength_CountsRunes(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		min, max int
		want     Length
	}{
		{"marathi within bounds", "पाणीपुरवठा बंद आहे", 10, 2000, LengthOK},
		{"marathi too short", "मदत", 10, 2000, TooShort},
		{"spaces trimmed", "   help   ", 10, 0, TooShort},
		{"name at limit", strings.Repeat("र", 100), 0, 100, LengthOK},
		{"name over limit", strings.Repeat("र", 101), 0, 100, TooLong},
		{"no bounds", "", 0, 0, LengthOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckLength(tt.value, tt.min, tt.max); got != tt.want {
				t.Errorf("CheckLength = %v, want %v", got, tt.want)
			}
		})
	}
}

// contactForm and enquiryForm carry the same rules as the two public
// contact forms.
type contactForm struct {
	Name    string `validate:"required,max=100" label:"Name"`
	Email   string `validate:"required,mailbox" label:"Email"`
	Message string `validate:"required,min=10,max=2000" label:"Message"`
}

type enquiryForm struct {
	Name    string `validate:"required,max=100" label:"Name"`
	Email   string `validate:"omitempty,mailbox" label:"Email"`
	Mobile  string `validate:"phone" label:"Mobile"`
	Message string `validate:"required,max=2000" label:"Message"`
}

func TestValidate_ContactForm(t *testing.T) {
	tests := []struct {
		name  string
		form  contactForm
		field string // "" when the form is valid
		tag   string
	}{
		{"valid", contactForm{"Sunita Patil", "sunita@example.in", "गावातील पाणीपुरवठा बंद आहे"}, "", ""},
		{"missing name", contactForm{"", "sunita@example.in", "Street light not working"}, "Name", "required"},
		{"long name", contactForm{strings.Repeat("a", 101), "sunita@example.in", "Street light not working"}, "Name", "max"},
		{"bad email", contactForm{"Sunita", "sunita.example.in", "Street light not working"}, "Email", "mailbox"},
		{"short message", contactForm{"Sunita", "sunita@example.in", "मदत करा"}, "Message", "min"},
		{"message at limit", contactForm{"Sunita", "sunita@example.in", strings.Repeat("अ", 2000)}, "", ""},
		{"long message", contactForm{"Sunita", "sunita@example.in", strings.Repeat("अ", 2001)}, "Message", "max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.form)
			if tt.field == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %s", res.All())
				}
				return
			}
			fe, ok := res.ByField()[tt.field]
			if !ok || fe.Tag != tt.tag {
				t.Fatalf("errors = %+v, want %s on %s", res.Errors, tt.tag, tt.field)
			}
		})
	}
}

func TestValidate_Enquiry(t *testing.T) {
	ok := enquiryForm{Name: "Ramesh Jadhav", Mobile: "+91 98765 43210", Message: "When is the next Gram Sabha?"}
	if res := Validate(ok); res.HasErrors() {
		t.Fatalf("unexpected errors: %s", res.All())
	}

	// mobile and email are optional
	if res := Validate(enquiryForm{Name: "Ramesh", Message: "Water tanker timing?"}); res.HasErrors() {
		t.Errorf("unexpected errors: %s", res.All())
	}

	res := Validate(enquiryForm{Name: "Ramesh", Mobile: "not a number", Message: "Water tanker timing?"})
	fe, found := res.ByField()["Mobile"]
	if !found || fe.Tag != "phone" {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if fe.Message != "Mobile must be a valid phone number." {
		t.Errorf("message = %q", fe.Message)
	}
	if MessageKey(fe.Tag) != "msg.invalidPhone" {
		t.Errorf("MessageKey(%q) = %q", fe.Tag, MessageKey(fe.Tag))
	}
}

func TestMessageKey(t *testing.T) {
	for tag, want := range map[string]string{
		"required": "msg.required",
		"min":      "msg.tooShort",
		"max":      "msg.tooLong",
		"mailbox":  "msg.invalidEmail",
		"httpurl":  "msg.invalidURL",
		"phone":    "msg.invalidPhone",
		"oneof":    "msg.invalidOption",
		"unknown":  "page.error.title",
	} {
		if got := MessageKey(tag); got != want {
			t.Errorf("MessageKey(%q) = %q, want %q", tag, got, want)
		}
	}
}
