package langmeta

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"de", "de"},
		{"DE", "de"},
		{"pt_BR", "pt-BR"},
		{"pt-br", "pt-BR"},
		{" zh-Hans ", "zh-Hans"},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "not a language"} {
		if _, err := Normalize(in); err == nil {
			t.Fatalf("Normalize(%q) should fail", in)
		}
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"de", "German"},
		{"ja", "Japanese"},
		{"pt_BR", "Brazilian Portuguese"},
	}
	for _, tc := range cases {
		if got := Name(tc.in); got != tc.want {
			t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNameFallsBackToCode(t *testing.T) {
	if got := Name("???"); got != "???" {
		t.Fatalf("Name(???) = %q, want the code itself", got)
	}
}
