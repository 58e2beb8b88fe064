package studio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// SRTGenerateInput is the input for srt_generate.
type SRTGenerateInput struct {
	ScriptID       int64   `json:"script_id"`
	WordsPerLine   int     `json:"words_per_line,omitempty"`
	SecondsPerLine float64 `json:"seconds_per_line,omitempty"`
}

// SRTGenerateResult is the output for srt_generate.
type SRTGenerateResult struct {
	ScriptID int64  `json:"script_id"`
	Cues     int    `json:"cues"`
	SRT      string `json:"srt"`
}

// GenerateSRT builds a subtitle track from a stored script's text. Purely
// deterministic: words are chunked into fixed-size lines and timed at a
// constant rate, no model call.
func GenerateSRT(ctx context.Context, input SRTGenerateInput) (*SRTGenerateResult, error) {
	if input.ScriptID <= 0 {
		return nil, errors.New("srt_generate: script_id is required")
	}
	s, err := GetScript(ctx, input.ScriptID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("srt_generate: script #%d not found", input.ScriptID)
	}
	if strings.TrimSpace(s.Script) == "" {
		return nil, fmt.Errorf("srt_generate: script #%d has no text", input.ScriptID)
	}

	srt, cues := BuildSRT(s.Script, input.WordsPerLine, input.SecondsPerLine)
	return &SRTGenerateResult{ScriptID: input.ScriptID, Cues: cues, SRT: srt}, nil
}

// BuildSRT converts plain text into SRT cues. Defaults: 8 words per line,
// 3 seconds per line.
func BuildSRT(text string, wordsPerLine int, secondsPerLine float64) (string, int) {
	if wordsPerLine <= 0 {
		wordsPerLine = 8
	}
	if secondsPerLine <= 0 {
		secondsPerLine = 3
	}

	words := strings.Fields(text)
	var lines []string
	for i := 0; i < len(words); i += wordsPerLine {
		end := i + wordsPerLine
		if end > len(words) {
			end = len(words)
		}
		lines = append(lines, strings.Join(words[i:end], " "))
	}

	var sb strings.Builder
	elapsed := 0.0
	for i, line := range lines {
		start := formatSRTTime(elapsed)
		elapsed += secondsPerLine
		end := formatSRTTime(elapsed)
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", i+1, start, end, line)
	}
	return sb.String(), len(lines)
}

// formatSRTTime renders seconds as HH:MM:SS,mmm. All arithmetic happens in
// integer milliseconds after one rounding step, so accumulated float error
// in the input can never push the millisecond field to 1000.
func formatSRTTime(totalSeconds float64) string {
	totalMS := int64(math.Round(totalSeconds * 1000))
	h := totalMS / 3600000
	m := (totalMS % 3600000) / 60000
	s := (totalMS % 60000) / 1000
	ms := totalMS % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
