package call

import "testing"

func TestNormalizeEnvValue(t *testing.T) {
	tests := map[string]string{
		"  abc  ":       "abc",
		`"abc",`:        "abc",
		`'abc'`:         "abc",
		"\t\"a-b-c\" ,": "a-b-c",
		"":              "",
	}
	for in, want := range tests {
		if got := NormalizeEnvValue(in); got != want {
			t.Fatalf("NormalizeEnvValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"YOUR_ASSISTANT_ID", true},
		{"your-YOUR-id", true},
		{"4f1c2d3e-assistant", false},
	}
	for _, tt := range tests {
		if got := IsPlaceholder(tt.in); got != tt.want {
			t.Fatalf("IsPlaceholder(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatQuestions(t *testing.T) {
	got := FormatQuestions([]string{"Why Go?", "Tell me about channels."})
	if want := "- Why Go?\n- Tell me about channels."; got != want {
		t.Fatalf("FormatQuestions() = %q, want %q", got, want)
	}
	if got := FormatQuestions(nil); got != "" {
		t.Fatalf("FormatQuestions(nil) = %q, want empty", got)
	}
}
