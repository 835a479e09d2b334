package validation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/healthkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "redis")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorRequiredSlice(t *testing.T) {
	if New().RequiredSlice("brokers", []string{"a:9092"}).HasErrors() {
		t.Error("expected no errors for non-empty slice")
	}
	if !New().RequiredSlice("brokers", nil).HasErrors() {
		t.Error("expected error for empty slice")
	}
}

func TestValidatorMin(t *testing.T) {
	if New().Min("max_failures", 1, 1).HasErrors() {
		t.Error("expected no errors at min")
	}
	if !New().Min("max_failures", 0, 1).HasErrors() {
		t.Error("expected error below min")
	}
}

func TestValidatorNonNegativeDuration(t *testing.T) {
	if New().NonNegativeDuration("timeout", 0).HasErrors() {
		t.Error("expected zero to be accepted")
	}
	if !New().NonNegativeDuration("timeout", -time.Second).HasErrors() {
		t.Error("expected error for negative duration")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"redis", "kafka"}

	if New().OneOf("kind", "redis", allowed).HasErrors() {
		t.Error("expected no errors for allowed value")
	}
	if New().OneOf("kind", "", allowed).HasErrors() {
		t.Error("expected no errors for empty value")
	}
	v := New().OneOf("kind", "mongo", allowed)
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if !strings.Contains(v.Errors()[0].Message, "redis, kafka") {
		t.Errorf("expected allowed values in message, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "field", "msg").HasErrors() {
		t.Error("expected no errors when condition is true")
	}
	if !New().Custom(false, "field", "msg").HasErrors() {
		t.Error("expected error when condition is false")
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Error("expected nil when no errors")
	}

	v := New()
	v.AddError("address", "is required")
	v.AddError("timeout", "must not be negative")

	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected AppError")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "address: is required") {
		t.Errorf("expected field in message, got %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors in details, got %v", appErr.Details["fields"])
	}
}

func TestValidatorMerge(t *testing.T) {
	inner := New()
	inner.AddError("checks[0].name", "is required")

	v := New().
		Merge("ignored", inner.Validate()).
		Merge("server", fmt.Errorf("port out of range")).
		Merge("nothing", nil)

	errs := v.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Field != "checks[0].name" {
		t.Errorf("expected field errors carried over, got %q", errs[0].Field)
	}
	if errs[1].Field != "server" || errs[1].Message != "port out of range" {
		t.Errorf("expected plain error under given field, got %+v", errs[1])
	}
}

type probeConfig struct {
	Name    string   `mapstructure:"name" validate:"required"`
	Kind    string   `mapstructure:"kind" validate:"required,oneof=redis kafka"`
	Brokers []string `mapstructure:"brokers" validate:"omitempty,dive,hostname_port"`
	Retries int      `mapstructure:"retries" validate:"gte=0,lte=5"`
}

type probeSet struct {
	Probes []probeConfig `mapstructure:"probes" validate:"dive"`
}

func TestStructValidateValid(t *testing.T) {
	cfg := probeConfig{Name: "cache", Kind: "redis", Retries: 2}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(probeConfig{Kind: "mongo", Retries: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}

	msg := err.Error()
	for _, want := range []string{"name: is required", "kind: must be one of: redis kafka", "retries: must be less than or equal to 5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestStructValidateNestedPath(t *testing.T) {
	err := Validate(probeSet{Probes: []probeConfig{
		{Name: "ok", Kind: "redis"},
		{Name: "bad", Kind: "kafka", Brokers: []string{"no-port"}},
	}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "probes[1].brokers[0]: must be a host:port address") {
		t.Errorf("expected nested field path, got %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	for in, want := range map[string]string{"MaxFailures": "max_failures", "name": "name", "TCP": "t_c_p"} {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
