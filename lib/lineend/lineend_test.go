package lineend

import (
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"single line", "hello", []string{"hello"}},
		{"lf", "hello\nworld", []string{"hello", "world"}},
		{"crlf", "hello\r\nworld", []string{"hello", "world"}},
		{"cr", "hello\rworld", []string{"hello", "world"}},
		{"mixed", "a\nb\r\nc\rd", []string{"a", "b", "c", "d"}},
		{"trailing lf", "a\n", []string{"a"}},
		{"trailing crlf", "a\r\n", []string{"a"}},
		{"empty lines", "a\n\nb", []string{"a", "", "b"}},
		{"cr before crlf", "a\r\r\nb", []string{"a", "", "b"}},
		{"only separators", "\n\n", []string{"", ""}},
		{"unicode", "grüße\r\nwelt", []string{"grüße", "welt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// TestNormalizeKeepsLines checks that normalizing never changes the line contents
// and only uses the requested separator
func TestNormalizeKeepsLines(t *testing.T) {
	inputs := []string{
		"",
		"one",
		"hello\nworld",
		"hello\r\nworld\r\n",
		"a\rb\nc\r\nd",
		"\n\r\n\r",
		"tab\tseparated\r\nvalues\n",
	}

	for _, ending := range []string{LF, CRLF, CR} {
		for _, input := range inputs {
			out := Normalize(input, ending)

			if !reflect.DeepEqual(Lines(out), Lines(input)) {
				t.Errorf("Normalize(%q, %q) changed lines: %q -> %q", input, ending, Lines(input), Lines(out))
			}

			// remove the expected separator, no other separator may remain
			stripped := strings.ReplaceAll(out, ending, "")
			if strings.ContainsAny(stripped, "\r\n") {
				t.Errorf("Normalize(%q, %q) = %q contains foreign separators", input, ending, out)
			}
		}
	}
}

func TestToPlatform(t *testing.T) {
	got := ToPlatform("hello\r\nworld\rfoo\nbar")
	want := "hello" + Platform + "world" + Platform + "foo" + Platform + "bar"
	if got != want {
		t.Errorf("ToPlatform() = %q, want %q", got, want)
	}
}

func TestPlatformEnding(t *testing.T) {
	// darwin uses "\n" like every other unix, never a lone "\r"
	want := LF
	if runtime.GOOS == "windows" {
		want = CRLF
	}
	if Platform != want {
		t.Errorf("Platform on %s = %q, want %q", runtime.GOOS, Platform, want)
	}
}

func TestNormalizeTrailingTerminator(t *testing.T) {
	tests := []struct {
		text   string
		ending string
		want   string
	}{
		{"a\r\n", LF, "a\n"},
		{"a\n\n", CRLF, "a\r\n\r\n"},
		{"a\nb", CRLF, "a\r\nb"},
		{"\r", LF, "\n"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.text, tt.ending); got != tt.want {
			t.Errorf("Normalize(%q, %q) = %q, want %q", tt.text, tt.ending, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"hello", "world"}); got != "hello\nworld" {
		t.Errorf("Join() = %q", got)
	}
	if got := Join(nil); got != "" {
		t.Errorf("Join(nil) = %q", got)
	}
}

func BenchmarkNormalize(b *testing.B) {
	text := strings.Repeat("some clipboard line\r\n", 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Normalize(text, LF)
	}
}
