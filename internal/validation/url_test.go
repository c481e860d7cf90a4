package validation

import (
	"strings"
	"testing"
)

func TestValidateAndNormalize(t *testing.T) {
	v := NewTimetableURLValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "valid https url",
			input: "https://corsi.unibo.it/laurea/informatica/orario-lezioni/@@orario_reale_json",
			want:  "https://corsi.unibo.it/laurea/informatica/orario-lezioni/@@orario_reale_json",
		},
		{
			name:  "scheme defaults to https",
			input: "corsi.unibo.it/laurea/informatica/orario-lezioni/@@orario_reale_json",
			want:  "https://corsi.unibo.it/laurea/informatica/orario-lezioni/@@orario_reale_json",
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  https://corsi.unibo.it/tt  ",
			want:  "https://corsi.unibo.it/tt",
		},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "injection characters", input: "https://example.org/<script>", wantErr: true},
		{name: "ftp scheme", input: "ftp://example.org/tt", wantErr: true},
		{name: "no host", input: "https:///path-only", wantErr: true},
		{name: "directory traversal", input: "https://example.org/../etc/passwd", wantErr: true},
		{name: "query parameters", input: "https://corsi.unibo.it/tt?anno=1", wantErr: true},
		{name: "localhost", input: "http://localhost:8080/tt", wantErr: true},
		{name: "localhost subdomain", input: "http://dev.localhost/tt", wantErr: true},
		{name: "loopback ip", input: "http://127.0.0.1/tt", wantErr: true},
		{name: "private ip", input: "http://192.168.1.10/tt", wantErr: true},
		{name: "link-local ip", input: "http://169.254.0.5/tt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndNormalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected an error for %q, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateAndNormalize_TooLong(t *testing.T) {
	v := NewTimetableURLValidator()
	long := "https://example.org/" + strings.Repeat("a", v.MaxLength)
	if _, err := v.ValidateAndNormalize(long); err == nil {
		t.Error("expected an error for an oversized URL")
	}
}

func TestPermissiveValidatorAllowsLocalTargets(t *testing.T) {
	v := NewPermissiveTimetableURLValidator()

	for _, input := range []string{
		"http://localhost:8080/tt",
		"http://127.0.0.1:9000/tt",
		"http://192.168.1.10/tt",
	} {
		if _, err := v.ValidateAndNormalize(input); err != nil {
			t.Errorf("permissive validator rejected %q: %v", input, err)
		}
	}
}
