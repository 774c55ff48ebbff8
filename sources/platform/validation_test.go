package platform

import (
	"testing"
)

func TestValidateHttpUrl(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "https endpoint", input: "https://api.llama.com/compat/v1", wantErr: false},
		{name: "http with port", input: "http://localhost:8080/v1", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "missing scheme", input: "api.llama.com/v1", wantErr: true},
		{name: "unsupported scheme", input: "ftp://api.llama.com", wantErr: true},
		{name: "no host", input: "https:///v1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHttpUrl(tt.input, "backend.endpoint")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHttpUrl(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	if err := ValidatePositive(8, "generation.group_width"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePositive(0, "generation.group_width"); err == nil {
		t.Error("expected error for zero")
	}
}

func TestContextTimeoutVal(t *testing.T) {
	ctx, cancel := ContextTimeoutVal(t.Context(), 0)
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Error("non-positive timeout must not set a deadline")
	}

	ctx, cancel = ContextTimeoutVal(t.Context(), 1e9)
	defer cancel()

	if _, ok := ctx.Deadline(); !ok {
		t.Error("positive timeout must set a deadline")
	}
}
