package studio

import (
	"context"
	"testing"
	"time"

	"github.com/anatolykoptev/go_factory/internal/engine"
)

const hooksCompletion = `[
  {"type": "curiosity gap", "hook": "Nobody tells you this about Go.", "score": 8, "reasoning": "opens a loop"},
  {"type": "bold claim", "hook": "This one habit doubles your views.", "score": 7, "reasoning": "big promise"},
  {"type": "question", "hook": "", "score": 5, "reasoning": "empty, should be skipped"}
]`

func TestGenerateHooksSavesLibrary(t *testing.T) {
	setupTest(t, hooksCompletion)
	ctx := context.Background()

	res, err := GenerateHooks(ctx, HookGenerateInput{Topic: "go tips"})
	if err != nil {
		t.Fatalf("GenerateHooks() error: %v", err)
	}
	if res.Saved != 2 {
		t.Fatalf("saved = %d, want 2 (empty hook skipped)", res.Saved)
	}

	lib, err := HookLibrary(ctx, 20)
	if err != nil {
		t.Fatalf("HookLibrary() error: %v", err)
	}
	if len(lib) != 2 {
		t.Fatalf("library = %d, want 2", len(lib))
	}
	// Newest first.
	if lib[0].Hook != "This one habit doubles your views." {
		t.Errorf("library order: %+v", lib)
	}
	if lib[0].Topic != "go tips" {
		t.Errorf("topic = %q", lib[0].Topic)
	}
}

func TestGenerateHooksCachedRepeatDoesNotDuplicate(t *testing.T) {
	// One queued completion: a second network call would trip the server guard.
	setupTest(t, hooksCompletion)
	engine.InitCache("", time.Minute, 100, 5*time.Minute)
	ctx := context.Background()

	first, err := GenerateHooks(ctx, HookGenerateInput{Topic: "repeatable cache topic"})
	if err != nil {
		t.Fatalf("GenerateHooks() error: %v", err)
	}
	if first.Cached || first.Saved != 2 {
		t.Fatalf("first call = %+v, want 2 saved uncached", first)
	}

	second, err := GenerateHooks(ctx, HookGenerateInput{Topic: "repeatable cache topic"})
	if err != nil {
		t.Fatalf("GenerateHooks() repeat error: %v", err)
	}
	if !second.Cached {
		t.Error("repeat within TTL not served from cache")
	}
	if second.Saved != 0 {
		t.Errorf("repeat saved %d records, want 0", second.Saved)
	}
	if len(second.Hooks) != 2 {
		t.Errorf("repeat hooks = %d, want 2", len(second.Hooks))
	}

	lib, err := HookLibrary(ctx, 20)
	if err != nil {
		t.Fatalf("HookLibrary() error: %v", err)
	}
	if len(lib) != 2 {
		t.Errorf("library = %d records, want 2 (no duplicates)", len(lib))
	}
}

func TestGenerateHooksRequiresTopic(t *testing.T) {
	setupTest(t)
	if _, err := GenerateHooks(context.Background(), HookGenerateInput{}); err == nil {
		t.Error("GenerateHooks without topic succeeded")
	}
}

func TestAnalyzeHook(t *testing.T) {
	setupTest(t, `{"curiosity_trigger":8,"emotional_impact":6,"clarity":9,"spoken_length_seconds":4.5,"overall_score":7.5,"strengths":["short"],"weaknesses":["vague"],"improved_version":"Better hook.","reasoning":"solid base"}`)

	out, err := AnalyzeHook(context.Background(), HookAnalyzeInput{Hook: "Watch this before you code."})
	if err != nil {
		t.Fatalf("AnalyzeHook() error: %v", err)
	}
	if out.OverallScore != 7.5 || out.ImprovedVersion != "Better hook." {
		t.Errorf("analysis = %+v", out)
	}
}

func TestAnalyzeHookRequiresHook(t *testing.T) {
	setupTest(t)
	if _, err := AnalyzeHook(context.Background(), HookAnalyzeInput{}); err == nil {
		t.Error("AnalyzeHook without hook succeeded")
	}
}
