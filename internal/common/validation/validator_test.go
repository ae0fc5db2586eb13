package validation

import (
	"errors"
	"testing"
)

func TestValidator_RequireString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid string", "localhost:6379", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator().RequireString(tt.value, "REDIS_ADDRESS")
			if v.HasErrors() != tt.wantErr {
				t.Errorf("RequireString() hasError = %v, wantErr %v", v.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestValidator_RequirePort(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"8080", false},
		{"1", false},
		{"65535", false},
		{"0", true},
		{"65536", true},
		{"-1", true},
		{"http", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := NewValidator().RequirePort(tt.value, "PORT").Error()
			if (err != nil) != tt.wantErr {
				t.Errorf("RequirePort(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidator_RequirePositive(t *testing.T) {
	v := NewValidator().
		RequirePositive(0, "RATE_LIMIT_RPS").
		RequirePositive(-3, "RATE_LIMIT_BURST").
		RequirePositive(1, "ok")

	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(v.Errors()), v.Errors())
	}
	if got := v.Errors()[0].Error(); got != "RATE_LIMIT_RPS must be positive" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestValidator_ValidateIf(t *testing.T) {
	boom := errors.New("boom")

	v := NewValidator().
		ValidateIf(false, func() error { return boom }).
		ValidateIf(true, func() error { return nil })
	if v.HasErrors() {
		t.Error("expected no errors")
	}
	if v.Error() != nil {
		t.Errorf("expected nil error, got %v", v.Error())
	}

	v.ValidateIf(true, func() error { return boom })
	if !errors.Is(v.Error(), boom) {
		t.Errorf("expected boom, got %v", v.Error())
	}
}

func TestValidator_ErrorCombination(t *testing.T) {
	v := NewValidatorWithPrefix("config").
		RequireString("", "REDIS_ADDRESS").
		RequirePort("99999", "PORT")

	err := v.Error()
	if err == nil {
		t.Fatal("expected error")
	}

	want := "validation failed: config: REDIS_ADDRESS is required; config: PORT must be a valid port number between 1 and 65535"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
