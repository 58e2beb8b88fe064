package studio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/anatolykoptev/go_factory/internal/engine"
)

// TitleScore is the model's CTR assessment of one candidate title.
type TitleScore struct {
	Title       string             `json:"title"`
	TotalScore  float64            `json:"total_score"`
	Breakdown   map[string]float64 `json:"breakdown,omitempty"`
	Improvement string             `json:"improvement,omitempty"`
	Reasoning   string             `json:"reasoning,omitempty"`
}

// CTRScoreInput is the input for title_ctr_score.
type CTRScoreInput struct {
	Titles    []string `json:"titles"`
	ChannelID int64    `json:"channel_id,omitempty"`
}

// CTRScoreResult is the output for title_ctr_score, best title first.
type CTRScoreResult struct {
	Scores []TitleScore `json:"scores"`
}

// ScoreTitles scores candidate titles for click-through potential and
// returns them ranked. Nothing is persisted.
func ScoreTitles(ctx context.Context, input CTRScoreInput) (*CTRScoreResult, error) {
	if len(input.Titles) == 0 {
		return nil, errors.New("title_ctr_score: at least one title is required")
	}

	channelCtx := "General YouTube content"
	if input.ChannelID > 0 {
		channelCtx = ChannelContext(ctx, input.ChannelID)
	}

	prompt := fmt.Sprintf(engine.CTRScorePrompt, channelCtx, strings.Join(input.Titles, "\n"))
	raw, err := engine.Cfg.Gateway.Generate(ctx, prompt, engine.SystemPrompt)
	if err != nil {
		return nil, err
	}

	var scores []TitleScore
	if err := engine.ExtractInto(raw, &scores); err != nil {
		// A single title sometimes comes back as a bare object.
		var one TitleScore
		if err2 := engine.ExtractInto(raw, &one); err2 != nil {
			return nil, err
		}
		scores = []TitleScore{one}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore > scores[j].TotalScore
	})
	return &CTRScoreResult{Scores: scores}, nil
}
