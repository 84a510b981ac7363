package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/kbukum/transcribe/errors"
)

func init() {
	RegisterRule("lowercase_word", func(s string) bool {
		return s != "" && strings.ToLower(s) == s && !strings.Contains(s, " ")
	}, "must be a single lowercase word")
}

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "")
	if !v.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v2 := New()
	v2.Required("name", "   ")
	if !v2.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}

	v3 := New()
	v3.Required("name", "job1")
	if v3.HasErrors() {
		t.Error("expected no error for non-empty field")
	}
}

func TestValidatorLength(t *testing.T) {
	if !New().MaxLength("name", "abcdef", 5).HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
	if New().MaxLength("name", "abc", 5).HasErrors() {
		t.Error("expected no error for string within max length")
	}
	if !New().MinLength("name", "ab", 3).HasErrors() {
		t.Error("expected error for string below min length")
	}
	if New().MinLength("name", "abc", 3).HasErrors() {
		t.Error("expected no error for string at min length")
	}
}

func TestValidatorRange(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{7999, true},
		{8000, false},
		{48000, false},
		{48001, true},
	}
	for _, tc := range tests {
		if got := New().Range("rate", tc.value, 8000, 48000).HasErrors(); got != tc.wantErr {
			t.Errorf("Range(%d): expected error=%v, got %v", tc.value, tc.wantErr, got)
		}
	}
}

func TestValidatorPattern(t *testing.T) {
	re := regexp.MustCompile(`^[a-z]+$`)
	if New().Pattern("code", "abc", re).HasErrors() {
		t.Error("expected no error for matching pattern")
	}
	if !New().Pattern("code", "ABC", re).HasErrors() {
		t.Error("expected error for non-matching pattern")
	}
	if New().Pattern("code", "", re).HasErrors() {
		t.Error("expected no error for empty value")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"en-US", "es-US"}
	if New().OneOf("lang", "en-US", allowed).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if !New().OneOf("lang", "fr-FR", allowed).HasErrors() {
		t.Error("expected error for disallowed value")
	}
	if New().OneOf("lang", "", allowed).HasErrors() {
		t.Error("expected no error for empty value")
	}
}

func TestValidatorCustom(t *testing.T) {
	if !New().Custom(false, "field", "custom error").HasErrors() {
		t.Error("expected error for false condition")
	}
	if New().Custom(true, "field", "custom error").HasErrors() {
		t.Error("expected no error for true condition")
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Error("expected nil for no errors")
	}
	if New().Err() != nil {
		t.Error("expected nil error for no errors")
	}

	appErr := New().Required("name", "").Required("status", "").Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeValidation {
		t.Errorf("expected code %s, got %s", errors.ErrCodeValidation, appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field errors in details, got %v", appErr.Details["fields"])
	}
	if !strings.Contains(appErr.Message, "name: is required") {
		t.Errorf("expected message to mention name, got %q", appErr.Message)
	}
}

func TestRequiredFunc(t *testing.T) {
	if Required("name", "") == nil {
		t.Error("expected error for empty value")
	}
	if Required("name", "value") != nil {
		t.Error("expected nil for non-empty value")
	}
}

type inner struct {
	URI string `json:"fileUri" validate:"required,min=1,max=10"`
}

type sample struct {
	Name  string  `json:"name" validate:"required,lowercase_word"`
	Rate  *int32  `json:"rate,omitempty" validate:"omitempty,gte=8000,lte=48000"`
	Inner *inner  `json:"inner" validate:"required"`
	Kind  string  `json:"kind,omitempty" validate:"omitempty,oneof=a b"`
	Extra []int32 `json:"-"`
}

func int32Ptr(v int32) *int32 { return &v }

func TestStructValidateValid(t *testing.T) {
	s := sample{Name: "job", Rate: int32Ptr(16000), Inner: &inner{URI: "s3://b/k"}}
	if err := Validate(s); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	tests := []struct {
		name      string
		in        sample
		wantField string
		wantMsg   string
	}{
		{"custom rule", sample{Name: "Job One", Inner: &inner{URI: "x"}}, "name", "must be a single lowercase word"},
		{"numeric lower bound", sample{Name: "job", Rate: int32Ptr(100), Inner: &inner{URI: "x"}}, "rate", "must be at least 8000"},
		{"numeric upper bound", sample{Name: "job", Rate: int32Ptr(96000), Inner: &inner{URI: "x"}}, "rate", "must be at most 48000"},
		{"nested required", sample{Name: "job"}, "inner", "is required"},
		{"nested length", sample{Name: "job", Inner: &inner{URI: "01234567890"}}, "inner.fileUri", "must be at most 10 characters"},
		{"oneof", sample{Name: "job", Kind: "c", Inner: &inner{URI: "x"}}, "kind", "must be one of: a b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			fields := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 {
				t.Fatalf("expected 1 field error, got %v", fields)
			}
			if fields[0].Field != tc.wantField {
				t.Errorf("expected field %q, got %q", tc.wantField, fields[0].Field)
			}
			if fields[0].Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, fields[0].Message)
			}
		})
	}
}
