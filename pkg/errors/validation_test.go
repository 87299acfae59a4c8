package errors

import (
	"testing"
)

func TestParseDiskCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int
		want    int
		wantErr bool
	}{
		{"one", "1", 0, 1, false},
		{"ten", "10", 20, 10, false},
		{"surrounding space", " 7\n", 0, 7, false},
		{"at max", "20", 20, 20, false},
		{"no max", "64", 0, 64, false},

		{"empty", "", 0, 0, true},
		{"blank", "   ", 0, 0, true},
		{"zero", "0", 0, 0, true},
		{"negative", "-3", 0, 0, true},
		{"float", "2.5", 0, 0, true},
		{"word", "three", 0, 0, true},
		{"over max", "21", 20, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDiskCount(tt.input, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDiskCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidArgument) {
					t.Errorf("ParseDiskCount(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidArgument)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseDiskCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateDiskCount(t *testing.T) {
	if err := ValidateDiskCount(3, 0); err != nil {
		t.Errorf("ValidateDiskCount(3, 0) = %v, want nil", err)
	}
	if err := ValidateDiskCount(0, 10); !Is(err, ErrCodeInvalidArgument) {
		t.Errorf("ValidateDiskCount(0, 10) = %v, want INVALID_ARGUMENT", err)
	}
	err := ValidateDiskCount(11, 10)
	if err == nil {
		t.Fatal("ValidateDiskCount(11, 10) = nil, want error")
	}
	if got, want := UserMessage(err), "disk count 11 exceeds maximum of 10"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}
