package inputval

import (
	"strings"
	"testing"
)

func TestIsValidHTTPURL_Table(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		// Valid URLs
		{"http://example.com", true},
		{"https://example.com", true},
		{"https://pmkisan.gov.in/RegistrationForm.aspx", true},
		{"https://example.com/path?query=1", true},
		{"http://localhost:8080", true},

		// Valid with whitespace (trimmed)
		{"  https://example.com  ", true},

		// Invalid URLs
		{"", false},
		{"   ", false},
		{"ftp://example.com", false},
		{"mailto:user@example.com", false},
		{"example.com", false},
		{"//example.com", false},
		{"not a url", false},
		{"file:///path/to/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsValidHTTPURL(tt.url)
			if got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidPhone_Table(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", true},
		{"(02162) 234567", true},
		{"02162-234567", true},

		{"", false},
		{"12", false},
		{"phone", false},
		{"98765x43210", false},
		{"+91 98765 43210 ext", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := IsValidPhone(tt.phone); got != tt.want {
				t.Errorf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestCheckLength(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		min, max int
		want     Length
	}{
		{"within bounds", "hello world", 10, 2000, LengthOK},
		{"too short", "hi", 10, 2000, TooShort},
		{"too long", strings.Repeat("a", 101), 0, 100, TooLong},
		{"runes not bytes", strings.Repeat("ग", 100), 0, 100, LengthOK},
		{"trimmed before counting", "   short   ", 10, 0, TooShort},
		{"no bounds", "", 0, 0, LengthOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckLength(tt.s, tt.min, tt.max); got != tt.want {
				t.Errorf("CheckLength(%q, %d, %d) = %v, want %v", tt.s, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name    string `validate:"required,max=10" label:"Full name"`
		Email   string `validate:"required,mailbox" label:"Email address"`
		Message string `validate:"required,min=10" label:"Message"`
	}

	tests := []struct {
		name       string
		input      TestInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      TestInput{Name: "Sunita", Email: "sunita@example.com", Message: "Street light is broken"},
			wantErrors: false,
		},
		{
			name:       "missing name",
			input:      TestInput{Name: "", Email: "sunita@example.com", Message: "Street light is broken"},
			wantErrors: true,
			wantFirst:  "Full name is required.",
		},
		{
			name:       "name too long",
			input:      TestInput{Name: "VeryLongNameThatExceedsLimit", Email: "sunita@example.com", Message: "Street light is broken"},
			wantErrors: true,
			wantFirst:  "Full name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      TestInput{Name: "Sunita", Email: "not-an-email", Message: "Street light is broken"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "message too short",
			input:      TestInput{Name: "Sunita", Email: "sunita@example.com", Message: "Help"},
			wantErrors: true,
			wantFirst:  "Message must be at least 10 characters.",
		},
		{
			name:       "missing all",
			input:      TestInput{},
			wantErrors: true,
			wantFirst:  "Full name is required.", // First error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)

			if result.HasErrors() != tt.wantErrors {
				t.Errorf("Validate() HasErrors = %v, want %v", result.HasErrors(), tt.wantErrors)
			}

			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("Validate() First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		r := &Result{}
		if r.All() != "" {
			t.Errorf("All() = %q, want empty", r.All())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		r := &Result{
			Errors: []FieldError{
				{Message: "Error 1"},
				{Message: "Error 2"},
			},
		}
		want := "Error 1; Error 2"
		if r.All() != want {
			t.Errorf("All() = %q, want %q", r.All(), want)
		}
	})
}

func TestValidate_CustomRules(t *testing.T) {
	type LinkInput struct {
		Link  string `validate:"required,httpurl" label:"Application link"`
		Phone string `validate:"phone" label:"Phone"`
	}

	t.Run("valid", func(t *testing.T) {
		result := Validate(LinkInput{Link: "https://example.gov.in/apply", Phone: "9876543210"})
		if result.HasErrors() {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("empty phone is allowed", func(t *testing.T) {
		result := Validate(LinkInput{Link: "https://example.gov.in/apply"})
		if result.HasErrors() {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("invalid link", func(t *testing.T) {
		result := Validate(LinkInput{Link: "example.gov.in"})
		if result.First() != "Application link must be a valid http or https link." {
			t.Errorf("First() = %q", result.First())
		}
	})

	t.Run("invalid phone", func(t *testing.T) {
		result := Validate(LinkInput{Link: "https://example.gov.in", Phone: "call me"})
		if result.First() != "Phone must be a valid phone number." {
			t.Errorf("First() = %q", result.First())
		}
	})
}

func TestResult_ByFieldAndMessageKey(t *testing.T) {
	type form struct {
		Name  string `validate:"required,max=5" label:"Name"`
		Email string `validate:"required,mailbox" label:"Email"`
	}
	res := Validate(form{Name: "Sunita Patil", Email: "nope"})
	by := res.ByField()
	if by["Name"].Tag != "max" || MessageKey(by["Name"].Tag) != "msg.tooLong" {
		t.Errorf("Name error = %+v", by["Name"])
	}
	if MessageKey(by["Email"].Tag) != "msg.invalidEmail" {
		t.Errorf("Email error = %+v", by["Email"])
	}
	if len((*Result)(nil).ByField()) != 0 {
		t.Error("nil result should index to an empty map")
	}
}
