package studio

import (
	"context"
	"strings"
	"testing"
)

func TestBuildSRTChunksAndTimes(t *testing.T) {
	text := "one two three four five six seven eight nine ten"
	srt, cues := BuildSRT(text, 4, 2)

	if cues != 3 {
		t.Fatalf("cues = %d, want 3", cues)
	}
	want := "1\n00:00:00,000 --> 00:00:02,000\none two three four\n\n" +
		"2\n00:00:02,000 --> 00:00:04,000\nfive six seven eight\n\n" +
		"3\n00:00:04,000 --> 00:00:06,000\nnine ten\n\n"
	if srt != want {
		t.Errorf("BuildSRT() =\n%s\nwant:\n%s", srt, want)
	}
}

func TestBuildSRTDefaults(t *testing.T) {
	words := make([]string, 16)
	for i := range words {
		words[i] = "w"
	}
	srt, cues := BuildSRT(strings.Join(words, " "), 0, 0)
	if cues != 2 {
		t.Errorf("cues = %d, want 2 (8 words per line default)", cues)
	}
	if !strings.Contains(srt, "00:00:00,000 --> 00:00:03,000") {
		t.Errorf("default 3s timing missing:\n%s", srt)
	}
}

func TestBuildSRTCollapsesWhitespace(t *testing.T) {
	srt, cues := BuildSRT("  hello   world \n\n next  line ", 2, 1)
	if cues != 2 {
		t.Fatalf("cues = %d, want 2", cues)
	}
	if !strings.Contains(srt, "hello world") || !strings.Contains(srt, "next line") {
		t.Errorf("whitespace not collapsed:\n%s", srt)
	}
}

func TestFormatSRTTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{2.5, "00:00:02,500"},
		{61, "00:01:01,000"},
		{3661.25, "01:01:01,250"},
		// Accumulated float error must round into the seconds field,
		// never render as a 1000ms field.
		{0.9999999999999999, "00:00:01,000"},
	}
	for _, tt := range tests {
		if got := formatSRTTime(tt.seconds); got != tt.want {
			t.Errorf("formatSRTTime(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBuildSRTFractionalSecondsPerLine(t *testing.T) {
	words := make([]string, 12)
	for i := range words {
		words[i] = "w"
	}
	srt, cues := BuildSRT(strings.Join(words, " "), 1, 0.1)
	if cues != 12 {
		t.Fatalf("cues = %d, want 12", cues)
	}
	// Cue 10 crosses the 1-second boundary, where 10 additions of 0.1
	// land just below 1.0.
	if !strings.Contains(srt, "00:00:00,900 --> 00:00:01,000") {
		t.Errorf("cue 10 boundary missing:\n%s", srt)
	}
	if strings.Contains(srt, ",1000") {
		t.Errorf("malformed millisecond field:\n%s", srt)
	}
}

func TestGenerateSRTFromStoredScript(t *testing.T) {
	setupTest(t, `[{"format":"long","title":"Subs","hook":"h","script":"alpha beta gamma delta","cta":"c"}]`)
	ctx := context.Background()

	res, err := GenerateScripts(ctx, ScriptGenerateInput{Topic: "t", BatchSize: 1})
	if err != nil {
		t.Fatalf("GenerateScripts() error: %v", err)
	}

	out, err := GenerateSRT(ctx, SRTGenerateInput{ScriptID: res.IDs[0], WordsPerLine: 2, SecondsPerLine: 1})
	if err != nil {
		t.Fatalf("GenerateSRT() error: %v", err)
	}
	if out.Cues != 2 {
		t.Errorf("cues = %d, want 2", out.Cues)
	}
	if !strings.Contains(out.SRT, "alpha beta") {
		t.Errorf("SRT missing text:\n%s", out.SRT)
	}

	if _, err := GenerateSRT(ctx, SRTGenerateInput{ScriptID: 9999}); err == nil {
		t.Error("absent script accepted")
	}
}
