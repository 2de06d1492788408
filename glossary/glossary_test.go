package glossary

import (
	"reflect"
	"sort"
	"testing"
)

func sortedTerms(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func TestExtract(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "bold image and heading",
			source: "**Bold** and ![alt](x)\n\n# Heading",
			want:   []string{"Bold", "Heading", "alt"},
		},
		{
			name:   "single asterisk emphasis",
			source: "tap *Settings* to continue",
			want:   []string{"Settings"},
		},
		{
			name:   "emphasis nested in heading",
			source: "# About **Dark Mode**",
			want:   []string{"About Dark Mode", "Dark Mode"},
		},
		{
			name:   "image caption with emphasis",
			source: "![the *Export* button](icons/export.png)",
			want:   []string{"Export", "the Export button"},
		},
		{
			name:   "duplicates collapse",
			source: "**Sync** then **Sync** again",
			want:   []string{"Sync"},
		},
		{
			name:   "plain text yields nothing",
			source: "no markup here at all",
			want:   []string{},
		},
		{
			name:   "unclosed emphasis degrades to plain text",
			source: "a **broken marker here",
			want:   []string{},
		},
		{
			name:   "empty input",
			source: "   ",
			want:   []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sortedTerms(Extract(tc.source))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Extract(%q) = %v, want %v", tc.source, got, tc.want)
			}
		})
	}
}

func TestExtractMultilineDocument(t *testing.T) {
	source := "# Export\n\nUse the **Share Sheet** to send a copy.\n\n![backup icon](backup.png)\n"
	got := sortedTerms(Extract(source))
	want := []string{"Export", "Share Sheet", "backup icon"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}
