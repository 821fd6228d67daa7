package models

import "testing"

func TestParseValidationMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    ValidationMethod
		wantErr bool
	}{
		{"parent", ValidationParent, false},
		{"photo", ValidationPhoto, false},
		{"self", ValidationSelf, false},
		{"Parent", "", true},
		{"video", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseValidationMethod(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseValidationMethod(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseValidationMethod(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseValidationMethod(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
