package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_factory/internal/engine"
	"github.com/anatolykoptev/go_factory/internal/store"
)

// Channel is a persisted channel profile. Its fields feed the prompt context
// block for every generation tied to the channel.
type Channel struct {
	ID               int64  `json:"id,omitempty"`
	Name             string `json:"name"`
	Niche            string `json:"niche"`
	Format           string `json:"format,omitempty"`
	Audience         string `json:"audience,omitempty"`
	Tone             string `json:"tone,omitempty"`
	AvgLength        string `json:"avgLength,omitempty"`
	MonetizationGoal string `json:"monetizationGoal,omitempty"`
	UploadFrequency  string `json:"uploadFrequency,omitempty"`
	TitlePattern     string `json:"titlePattern,omitempty"`
	CreatedAt        string `json:"createdAt,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// ChannelSaveInput is the input for channel_save. A non-zero ID updates the
// existing channel.
type ChannelSaveInput struct {
	ID               int64  `json:"id,omitempty"`
	Name             string `json:"name"`
	Niche            string `json:"niche"`
	Format           string `json:"format,omitempty"`
	Audience         string `json:"audience,omitempty"`
	Tone             string `json:"tone,omitempty"`
	AvgLength        string `json:"avg_length,omitempty"`
	MonetizationGoal string `json:"monetization_goal,omitempty"`
	UploadFrequency  string `json:"upload_frequency,omitempty"`
	TitlePattern     string `json:"title_pattern,omitempty"`
}

// ChannelResult is the output for channel mutations.
type ChannelResult struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// ChannelListResult is the output for channel_list.
type ChannelListResult struct {
	Channels []Channel `json:"channels"`
	Total    int       `json:"total"`
}

// ChannelDeleteInput is the input for channel_delete.
type ChannelDeleteInput struct {
	ID int64 `json:"id"`
}

// SaveChannel creates or updates a channel profile.
func SaveChannel(ctx context.Context, input ChannelSaveInput) (*ChannelResult, error) {
	if input.Name == "" || input.Niche == "" {
		return nil, errors.New("channel_save: name and niche are required")
	}

	ch := Channel{
		ID:               input.ID,
		Name:             input.Name,
		Niche:            input.Niche,
		Format:           input.Format,
		Audience:         input.Audience,
		Tone:             input.Tone,
		AvgLength:        input.AvgLength,
		MonetizationGoal: input.MonetizationGoal,
		UploadFrequency:  input.UploadFrequency,
		TitlePattern:     input.TitlePattern,
		UpdatedAt:        nowRFC3339(),
	}

	if input.ID > 0 {
		existing, err := GetChannel(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ch.CreatedAt = existing.CreatedAt
		}
		id, err := engine.Cfg.Store.Put(ctx, store.Channels, ch)
		if err != nil {
			engine.IncrStoreErrors()
			return nil, err
		}
		return &ChannelResult{ID: id, Message: fmt.Sprintf("Channel '%s' updated (id=%d)", ch.Name, id)}, nil
	}

	ch.CreatedAt = ch.UpdatedAt
	id, err := engine.Cfg.Store.Add(ctx, store.Channels, ch)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	return &ChannelResult{ID: id, Message: fmt.Sprintf("Channel '%s' added (id=%d)", ch.Name, id)}, nil
}

// GetChannel returns a channel by id, or nil when absent.
func GetChannel(ctx context.Context, id int64) (*Channel, error) {
	raw, err := engine.Cfg.Store.Get(ctx, store.Channels, id)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var ch Channel
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("channel_get: decode: %w", err)
	}
	return &ch, nil
}

// ListChannels returns all channel profiles.
func ListChannels(ctx context.Context) (*ChannelListResult, error) {
	raws, err := engine.Cfg.Store.GetAll(ctx, store.Channels)
	if err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	channels := make([]Channel, 0, len(raws))
	for _, raw := range raws {
		var ch Channel
		if err := json.Unmarshal(raw, &ch); err != nil {
			continue
		}
		channels = append(channels, ch)
	}
	return &ChannelListResult{Channels: channels, Total: len(channels)}, nil
}

// DeleteChannel removes a channel profile. Scripts that reference it keep
// their channelId; the reference just stops resolving.
func DeleteChannel(ctx context.Context, id int64) (*ChannelResult, error) {
	if id <= 0 {
		return nil, errors.New("channel_delete: id is required")
	}
	if err := engine.Cfg.Store.Remove(ctx, store.Channels, id); err != nil {
		engine.IncrStoreErrors()
		return nil, err
	}
	return &ChannelResult{ID: id, Message: fmt.Sprintf("Channel #%d deleted", id)}, nil
}

// ChannelContext builds the prompt context block for a channel. Unknown or
// unset channels yield a placeholder line rather than an error; references
// are soft.
func ChannelContext(ctx context.Context, id int64) string {
	if id <= 0 {
		return "No channel selected."
	}
	ch, err := GetChannel(ctx, id)
	if err != nil || ch == nil {
		return "Channel not found."
	}
	return fmt.Sprintf("Channel: %s\nNiche: %s\nAudience: %s\nTone: %s\nAvg Length: %s\nFormat: %s",
		ch.Name, ch.Niche, ch.Audience, ch.Tone, ch.AvgLength, ch.Format)
}
