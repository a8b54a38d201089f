package nodes

import (
	"context"
	"time"
)

// Node keys of the pipeline graph. Together with the two branch conditions
// they enumerate every reachable path: start → resolve_transcript →
// extract_intent → {enrich_context | skip} → generate_reply →
// {synthesize_speech | skip} → persist_run → done.
const (
	NodeResolveTranscript = "resolve_transcript"
	NodeExtractIntent     = "extract_intent"
	NodeEnrichContext     = "enrich_context"
	NodeGenerateReply     = "generate_reply"
	NodeSynthesizeSpeech  = "synthesize_speech"
	NodePersistRun        = "persist_run"
)

// stageContext bounds a collaborator call. A stage that exceeds the timeout
// degrades exactly like an explicit collaborator error.
func stageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
