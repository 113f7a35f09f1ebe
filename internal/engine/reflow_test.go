package engine

import (
	"strings"
	"testing"
)

func reflowNormal(text string) Result {
	return Reflow(text, DefaultOptions())
}

func TestReflow_JoinsHardWrappedProse(t *testing.T) {
	input := "The quick brown fox jumps over the lazy dog. This sentence continues\n" +
		"on the next line because the terminal window was only 80 characters\n" +
		"wide when this text was displayed."

	r := reflowNormal(input)

	if !r.WasTransformed() {
		t.Error("expected transformation")
	}
	if r.LinesJoined != 2 {
		t.Errorf("LinesJoined = %d, want 2", r.LinesJoined)
	}
	if strings.Contains(r.Reflowed, "\n") {
		t.Errorf("reflowed still has newlines: %q", r.Reflowed)
	}
	want := "The quick brown fox jumps over the lazy dog. This sentence continues " +
		"on the next line because the terminal window was only 80 characters " +
		"wide when this text was displayed."
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
}

func TestReflow_PreservesParagraphBreaks(t *testing.T) {
	input := "First paragraph that wraps\nto a second line.\n\nSecond paragraph here."

	r := reflowNormal(input)

	want := "First paragraph that wraps to a second line.\n\nSecond paragraph here."
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
	if !strings.Contains(r.Reflowed, "\n\n") {
		t.Error("missing paragraph break")
	}
	if r.ParagraphsDetected != 2 {
		t.Errorf("ParagraphsDetected = %d, want 2", r.ParagraphsDetected)
	}
	if r.LinesJoined != 1 {
		t.Errorf("LinesJoined = %d, want 1", r.LinesJoined)
	}
}

func TestReflow_Unchanged(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single line", "Single line of text."},
		{"indented code", "Some prose here\n    indented code\n    more code\nback to prose"},
		{"tab indented", "Intro\n\tcode()\nOutro"},
		{"bullet list", "List items:\n- First item\n- Second item\n- Third item"},
		{"star list", "* one\n* two"},
		{"unicode bullets", "• alpha\n• beta"},
		{"numbered dot", "Steps:\n1. First step\n2. Second step\n3. Third step"},
		{"numbered paren", "1) first\n2) second"},
		{"blank lines only", "\n\n"},
		{"already flowed paragraphs", "One paragraph.\n\nAnother paragraph."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reflowNormal(tt.input)
			if r.WasTransformed() {
				t.Errorf("transformed %q into %q", tt.input, r.Reflowed)
			}
			if r.LinesJoined != 0 {
				t.Errorf("LinesJoined = %d, want 0", r.LinesJoined)
			}
		})
	}
}

func TestReflow_ListItemsKeepTrailingBreaks(t *testing.T) {
	r := reflowNormal("List items:\n- First item\n- Second item\n- Third item")
	for _, want := range []string{"- First item\n", "- Second item\n"} {
		if !strings.Contains(r.Reflowed, want) {
			t.Errorf("missing %q in %q", want, r.Reflowed)
		}
	}

	r = reflowNormal("Steps:\n1. First step\n2. Second step\n3. Third step")
	if !strings.Contains(r.Reflowed, "1. First step\n") {
		t.Errorf("numbered item not preserved: %q", r.Reflowed)
	}
}

func TestReflow_EmptyInput(t *testing.T) {
	r := reflowNormal("")
	if r.Reflowed != "" {
		t.Errorf("Reflowed = %q, want empty", r.Reflowed)
	}
	if r.LinesJoined != 0 || r.ParagraphsDetected != 0 {
		t.Errorf("LinesJoined=%d ParagraphsDetected=%d, want 0/0", r.LinesJoined, r.ParagraphsDetected)
	}
	if r.WasTransformed() {
		t.Error("empty input should not be transformed")
	}
}

func TestReflow_TrailingNewlineKept(t *testing.T) {
	r := reflowNormal("a b\nc d\n")
	if r.Reflowed != "a b c d\n" {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, "a b c d\n")
	}
}

func TestReflow_TrimsBeforeJoining(t *testing.T) {
	r := reflowNormal("foo bar   \n single space indent\nbaz")
	want := "foo bar single space indent baz"
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
	if r.LinesJoined != 2 {
		t.Errorf("LinesJoined = %d, want 2", r.LinesJoined)
	}
}

func TestReflow_WhitespaceOnlyLineIsBlank(t *testing.T) {
	r := reflowNormal("one\ntwo\n   \t\nthree")
	want := "one two\n\nthree"
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
}

func TestReflow_JoinSeparators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"absolute path", "/usr/local/lib/python3.11/site-pack\nages/numpy/core.py", "/usr/local/lib/python3.11/site-packages/numpy/core.py"},
		{"relative path", "./build/output/very-long-direc\ntory/file.o", "./build/output/very-long-directory/file.o"},
		{"url mid sentence", "Visit https://example.com/some/lo\nng/path now", "Visit https://example.com/some/long/path now"},
		{"www prefix", "www.example.co\nm/docs", "www.example.com/docs"},
		{"long token", "abcdefghij\nklmnop", "abcdefghijklmnop"},
		{"identifier with underscore", "SOME_VERY_LONG_CONST\nANT_NAME", "SOME_VERY_LONG_CONSTANT_NAME"},
		{"cjk token", "日本語\nテキスト", "日本語テキスト"},
		{"prose with spaces", "the quick\nbrown fox", "the quick brown fox"},
		{"punctuation boundary", "hello,\nworld", "hello, world"},
		{"paren boundary", "call\n(arg)", "call (arg)"},
		{"relative path in prose", "see ./foo/ba\nr.txt", "see ./foo/ba r.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reflow(tt.input, Options{Aggressiveness: Aggressive, MarkdownAware: true})
			if r.Reflowed != tt.want {
				t.Errorf("Reflowed = %q, want %q", r.Reflowed, tt.want)
			}
		})
	}
}

func TestReflow_MarkdownHeaders(t *testing.T) {
	input := "# Header 1\nSome text that wraps\nto the next line.\n## Header 2\nMore text here."

	r := Reflow(input, Options{MarkdownAware: true, Aggressiveness: Normal})

	want := "# Header 1\nSome text that wraps to the next line.\n## Header 2\nMore text here."
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
	if r.ParagraphsDetected != 4 {
		t.Errorf("ParagraphsDetected = %d, want 4", r.ParagraphsDetected)
	}
}

func TestReflow_MarkdownBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"blockquote", "Normal text here.\n> This is a quote\n> that spans lines.\nBack to normal."},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |"},
		{"table spaced separator", "| a |\n| - |"},
		{"hr dashes", "above\n---\nbelow"},
		{"hr stars", "above\n***\nbelow"},
		{"hr underscores", "above\n___\nbelow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reflow(tt.input, DefaultOptions())
			if r.Reflowed != tt.input {
				t.Errorf("Reflowed = %q, want unchanged", r.Reflowed)
			}
		})
	}
}

func TestReflow_MarkdownDisabled(t *testing.T) {
	opts := Options{Aggressiveness: Normal, MarkdownAware: false}

	r := Reflow("# Header 1\nbody text", opts)
	if r.Reflowed != "# Header 1 body text" {
		t.Errorf("header: Reflowed = %q", r.Reflowed)
	}

	r = Reflow("```\nline one\nline two\n```", opts)
	if r.Reflowed != "``` line one line two ```" {
		t.Errorf("fence: Reflowed = %q", r.Reflowed)
	}
	if r.LinesJoined != 3 {
		t.Errorf("fence: LinesJoined = %d, want 3", r.LinesJoined)
	}

	// Lists are preserved regardless of markdown awareness.
	r = Reflow("- one\n- two", opts)
	if r.WasTransformed() {
		t.Errorf("list: Reflowed = %q", r.Reflowed)
	}
}

func TestReflow_CodeFenceVerbatim(t *testing.T) {
	input := "Some text before.\n" +
		"```swift\n" +
		"let x = 1\n" +
		"let y = 2\n" +
		"    wrapped-looking\n" +
		"continuation\n" +
		"```\n" +
		"Some text after."

	for _, a := range []Aggressiveness{Conservative, Normal, Aggressive} {
		t.Run(a.String(), func(t *testing.T) {
			r := Reflow(input, Options{Aggressiveness: a, MarkdownAware: true})
			if r.Reflowed != input {
				t.Errorf("Reflowed = %q, want unchanged", r.Reflowed)
			}
			for _, want := range []string{"```swift\n", "let x = 1\n", "```\n"} {
				if !strings.Contains(r.Reflowed, want) {
					t.Errorf("missing %q", want)
				}
			}
		})
	}
}

func TestReflow_TildeFenceFlushesParagraph(t *testing.T) {
	input := "wrapped prose\nline\n~~~\nraw\ntext\n~~~\nafter"
	r := reflowNormal(input)
	want := "wrapped prose line\n~~~\nraw\ntext\n~~~\nafter"
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
}

func TestReflow_UnclosedFenceRunsToEnd(t *testing.T) {
	input := "```\nunterminated\nblock"
	r := reflowNormal(input)
	if r.Reflowed != input {
		t.Errorf("Reflowed = %q, want unchanged", r.Reflowed)
	}
}

func TestReflow_CustomPatterns(t *testing.T) {
	input := "Normal line one\nNormal line two\nIMPORTANT: Keep this line\nNormal line three"

	r := Reflow(input, Options{
		Aggressiveness: Aggressive,
		MarkdownAware:  true,
		CustomPatterns: []string{"^IMPORTANT:"},
	})

	want := "Normal line one Normal line two\nIMPORTANT: Keep this line\nNormal line three"
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
	if !strings.Contains(r.Reflowed, "IMPORTANT: Keep this line\n") {
		t.Error("custom pattern line not preserved")
	}
	if r.LinesJoined != 1 {
		t.Errorf("LinesJoined = %d, want 1", r.LinesJoined)
	}
}

func TestReflow_InvalidPatternIgnored(t *testing.T) {
	input := "alpha beta\nKEEP me\ngamma delta"

	r := Reflow(input, Options{
		Aggressiveness: Normal,
		CustomPatterns: []string{"([", "^KEEP"},
	})

	if r.Reflowed != input {
		t.Errorf("Reflowed = %q, want unchanged", r.Reflowed)
	}
}

func TestReflow_PatternMatchesTrimmedLine(t *testing.T) {
	r := Reflow("intro text\n NOTE: indented once\nmore", Options{Aggressiveness: Normal, CustomPatterns: []string{"^NOTE:"}})
	want := "intro text\n NOTE: indented once\nmore"
	if r.Reflowed != want {
		t.Errorf("Reflowed = %q, want %q", r.Reflowed, want)
	}
}

func TestReflow_Aggressiveness(t *testing.T) {
	input := "First sentence ends here.\nSecond line continues\nthe thought"

	tests := []struct {
		level  Aggressiveness
		want   string
		joined int
	}{
		{Conservative, "First sentence ends here.\nSecond line continues the thought", 1},
		{Normal, "First sentence ends here. Second line continues the thought", 2},
		{Aggressive, "First sentence ends here. Second line continues the thought", 2},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			r := Reflow(input, Options{Aggressiveness: tt.level, MarkdownAware: true})
			if r.Reflowed != tt.want {
				t.Errorf("Reflowed = %q, want %q", r.Reflowed, tt.want)
			}
			if r.LinesJoined != tt.joined {
				t.Errorf("LinesJoined = %d, want %d", r.LinesJoined, tt.joined)
			}
		})
	}
}

func TestReflow_ConservativeTerminators(t *testing.T) {
	for _, end := range []string{".", "!", "?", ":"} {
		input := "Ends with" + end + "\nnext line"
		r := Reflow(input, Options{Aggressiveness: Conservative})
		if r.WasTransformed() {
			t.Errorf("terminator %q: Reflowed = %q, want unchanged", end, r.Reflowed)
		}
	}

	r := Reflow("Ends with comma,\nnext line", Options{Aggressiveness: Conservative})
	if r.Reflowed != "Ends with comma, next line" {
		t.Errorf("comma: Reflowed = %q", r.Reflowed)
	}
}

func TestReflow_ParagraphsCountPreservedLines(t *testing.T) {
	r := reflowNormal("# Title\n- item\nwrapped\ntext\n\n")
	// "# Title", "- item" and the joined paragraph; blank markers do not count.
	if r.ParagraphsDetected != 3 {
		t.Errorf("ParagraphsDetected = %d, want 3", r.ParagraphsDetected)
	}
}

func TestReflow_ReflowedTextIsStable(t *testing.T) {
	first := reflowNormal("First paragraph that wraps\nto a second line.\n\nSecond paragraph here.")
	second := reflowNormal(first.Reflowed)
	if second.WasTransformed() {
		t.Errorf("second pass changed text: %q -> %q", first.Reflowed, second.Reflowed)
	}
}

func TestParseAggressiveness(t *testing.T) {
	tests := []struct {
		in      string
		want    Aggressiveness
		wantErr bool
	}{
		{"conservative", Conservative, false},
		{"Normal", Normal, false},
		{" AGGRESSIVE ", Aggressive, false},
		{"wild", Normal, true},
		{"", Normal, true},
	}
	for _, tt := range tests {
		got, err := ParseAggressiveness(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAggressiveness(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAggressiveness(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAggressiveness_DisplayName(t *testing.T) {
	if Conservative.DisplayName() != "Conservative" || Aggressive.DisplayName() != "Aggressive" {
		t.Errorf("unexpected display names: %s, %s", Conservative.DisplayName(), Aggressive.DisplayName())
	}
	if Aggressiveness(9).String() != "unknown" {
		t.Errorf("out of range String() = %q", Aggressiveness(9).String())
	}
}

func TestValidatePatterns(t *testing.T) {
	errs := ValidatePatterns([]string{"^ok$", "([", `\d+`, "*bad"})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Pattern != "([" || errs[1].Pattern != "*bad" {
		t.Errorf("unexpected patterns: %q, %q", errs[0].Pattern, errs[1].Pattern)
	}
	if !strings.Contains(errs[0].Error(), "invalid pattern ([") {
		t.Errorf("Error() = %q", errs[0].Error())
	}
	if ValidatePatterns(nil) != nil {
		t.Error("nil patterns should produce no errors")
	}
}
