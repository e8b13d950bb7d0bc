package normalize

import (
	"errors"
	"reflect"
	"testing"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"0912345678", "+251912345678", false},
		{"0712345678", "+251712345678", false},
		{"+251912345678", "+251912345678", false},
		{" 091-234 (5678) ", "+251912345678", false},
		{"0812345678", "", true},
		{"091234567", "", true},
		{"+25191234567", "", true},
		{"251912345678", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Phone(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Errorf("Phone(%q) err = %v, want ErrInvalidPhone", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Phone(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhoneVariants(t *testing.T) {
	got := PhoneVariants("0912345678")
	want := []string{"+251912345678", "0912345678"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PhoneVariants = %v, want %v", got, want)
	}

	if got := PhoneVariants("bogus"); !reflect.DeepEqual(got, []string{"bogus"}) {
		t.Errorf("invalid input should pass through, got %v", got)
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Abebe Kebede", "Abebe Kebede"},
		{"  Abebe   Kebede  ", "Abebe Kebede"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	if got := Email("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("Email() = %q", got)
	}
}
