package engine

// LLM prompt templates. Data only, no logic.

// SystemPrompt frames every generation call.
const SystemPrompt = `You are a YouTube content strategist and scriptwriter. You produce practical, retention-optimized content plans and scripts. When asked for JSON, respond with valid JSON only — no markdown fences, no commentary before or after.`

// ScriptBatchPrompt generates a batch of script drafts.
// Args: batch size, format, topic, channel context, batch size (again).
const ScriptBatchPrompt = `Generate %d YouTube %s video scripts about: %s

%s

For each script include:
- "format": "shorts" or "long"
- "title": CTR-optimized title under 70 characters
- "hook": first 5-15 seconds, spoken word for word
- "script": the full spoken script
- "cta": call to action matching the channel's monetization goal
- "thumbnail_angle": one-line thumbnail concept
- "emotional_arc": the emotional journey (e.g. curiosity -> tension -> payoff)
- "retention_triggers": array of moments designed to stop drop-off
- "broll_keywords": array of b-roll search keywords
- "framework_name": the persuasion/storytelling framework used
- "affiliate_placement": where a product mention fits naturally
- "conversion_psychology": why this script converts viewers

Return ONLY a JSON array of %d script objects. No markdown fences.`

// TrendResearchPrompt produces a structured trend report.
// Args: seed keyword, region, channel context.
const TrendResearchPrompt = `Research YouTube content trends for the seed keyword: "%s"
Region: %s
%s

Based on your knowledge of search behavior, content cycles, and audience demand, return a JSON object with:
- "rising_queries": array of 5-10 search queries gaining momentum around this seed
- "breakout_predictions": array of 3-5 topics likely to break out in the next 60-90 days, each with "topic" and "reasoning"
- "content_gaps": array of 3-5 underserved topics where demand exceeds supply, each with "topic" and "opportunity"
- "topic_clusters": array of clusters, each with "name" and "subtopics" array

Return ONLY the JSON object. No markdown fences.`

// HookGeneratePrompt generates candidate hooks for a topic.
// Args: channel context, topic.
const HookGeneratePrompt = `Generate 8 YouTube video hooks for this topic.

Channel Context:
%s

Topic: %s

Use a mix of hook types: curiosity gap, bold claim, pattern interrupt, story open, question, statistic, contrarian take, stakes/urgency.

Return ONLY a JSON array where each element has:
- "type": the hook type
- "hook": the hook text, spoken word for word
- "score": predicted effectiveness 1-10
- "reasoning": one sentence on why it works

No markdown fences.`

// HookAnalyzePrompt scores a single hook.
// Args: hook text, optional channel context block.
const HookAnalyzePrompt = `Analyze this YouTube hook for effectiveness:

Hook: "%s"
%s

Score on:
- curiosity_trigger (1-10)
- emotional_impact (1-10)
- clarity (1-10)
- spoken_length_seconds: estimated
- overall_score (1-10)
- strengths: array
- weaknesses: array
- improved_version: rewritten hook
- reasoning: explanation

Return JSON object. No markdown fences.`

// CTRScorePrompt scores candidate titles.
// Args: channel context, newline-separated titles.
const CTRScorePrompt = `Score these YouTube titles for click-through potential.

Channel Context:
%s

Titles:
%s

For each title return:
- "title": the original title
- "total_score": 0-100
- "breakdown": object with "curiosity", "emotion", "clarity", "specificity", "urgency" scores (0-20 each)
- "improvement": a rewritten higher-CTR version
- "reasoning": one or two sentences

Return ONLY a JSON array, one object per title, no markdown fences.`

// ThumbnailPrompt produces thumbnail concepts for a script.
// Args: title, hook, niche.
const ThumbnailPrompt = `Design thumbnail concepts for this YouTube video.

Title: %s
Hook: %s
Niche: %s

Return a JSON object with:
- "concepts": array of 3 concepts, each with "concept", "text_overlay" (max 4 words), "dominant_color" (hex), "facial_expression", "focal_point", "emotion_target", "ctr_reasoning"
- "general_rules": array of composition rules for this niche
- "color_psychology": one paragraph on color choice for this audience

No markdown fences.`

// AnalyticsRecalibratePrompt turns recent metrics into strategy adjustments.
// Args: channel summary block, metrics block.
const AnalyticsRecalibratePrompt = `You are a YouTube growth analyst. Review these recent video metrics and recommend concrete adjustments.

Channels:
%s

Recent Performance:
%s

Return a JSON object with:
- "diagnosis": 2-3 sentence read on what the numbers say
- "hook_recommendations": array of specific hook changes
- "title_recommendations": array of specific title changes
- "thumbnail_recommendations": array of thumbnail adjustments
- "pacing_recommendations": array of pacing/structure changes
- "content_recommendations": array of topic/strategy changes
- "priority_actions": array of the top 3 actions, most impactful first

No markdown fences.`

// Repurpose templates convert a long-form script into another format.
// Args for each: title, script text (truncated).
var RepurposePrompts = map[string]string{
	"shorts": `Turn this long-form YouTube script into 3 standalone Shorts scripts (under 60 seconds spoken each).

Title: %s
Script:
%s

Return a JSON array of 3 objects, each with "title", "hook", "script", "cta". No markdown fences.`,

	"community": `Turn this YouTube script into an engaging community post that drives viewers to the video.

Title: %s
Script:
%s

Return a JSON object with "post" (the text, with a question to drive comments) and "poll_options" (array of 2-4 poll choices, or empty). No markdown fences.`,

	"thread": `Turn this YouTube script into a Twitter/X thread.

Title: %s
Script:
%s

Return a JSON object with "tweets": array of 5-10 tweets, first tweet is the hook, last tweet links back to the video. Each tweet under 280 characters. No markdown fences.`,

	"blog": `Turn this YouTube script into an SEO blog post outline.

Title: %s
Script:
%s

Return a JSON object with "headline", "meta_description" (under 160 chars), "sections" (array of {"heading", "points"}), "target_keywords" (array). No markdown fences.`,

	"email": `Turn this YouTube script into an email newsletter edition.

Title: %s
Script:
%s

Return a JSON object with "subject_lines" (array of 3 options), "preview_text", "body" (conversational, ends with a link to the video). No markdown fences.`,
}

// ConnectionTestPrompt verifies credential and model reachability.
const ConnectionTestPrompt = `Respond with exactly: CONNECTION_OK`
