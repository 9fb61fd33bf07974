package source

import (
	"errors"
	"testing"
)

func TestCleanLogical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain file", in: "ch1.md", want: "ch1.md"},
		{name: "nested file", in: "chapters/ch1.md", want: "chapters/ch1.md"},
		{name: "dot segments collapse", in: "chapters/../img/a.png", want: "img/a.png"},
		{name: "backslashes normalized", in: "img\\a.png", want: "img/a.png"},
		{name: "empty", in: "", wantErr: ErrInvalidPath},
		{name: "absolute", in: "/etc/passwd", wantErr: ErrInvalidPath},
		{name: "escapes root", in: "../secret.md", wantErr: ErrInvalidPath},
		{name: "root itself", in: "a/..", wantErr: ErrInvalidPath},
		{name: "null byte", in: "a\x00.md", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := cleanLogical(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("cleanLogical(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cleanLogical(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("cleanLogical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatForName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"book.json", FormatJSON},
		{"book.yaml", FormatYAML},
		{"book.YML", FormatYAML},
		{"manifest", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatForName(tt.name); got != tt.want {
				t.Errorf("FormatForName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestSniffFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "json object", data: `{"title": "x"}`, want: FormatJSON},
		{name: "json with leading whitespace", data: "\n  {\"title\": 1}", want: FormatJSON},
		{name: "json with byte order mark", data: "\ufeff{}", want: FormatJSON},
		{name: "yaml mapping", data: "title: x\n", want: FormatYAML},
		{name: "empty", data: "", want: FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SniffFormat([]byte(tt.data)); got != tt.want {
				t.Errorf("SniffFormat(%q) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}
