package nodes

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"

	"github.com/krishibondhu/server/internal/assistant/graph/conversations"
	"github.com/krishibondhu/server/internal/assistant/graph/parsers"
	"github.com/krishibondhu/server/internal/assistant/graph/prompts"
	"github.com/krishibondhu/server/internal/assistant/lang"
	"github.com/krishibondhu/server/internal/assistant/model"
	logx "github.com/krishibondhu/server/pkg/logger"
)

// NewResolveTranscriptPreHandler seeds the run state from the pipeline input
// before the first node executes.
func NewResolveTranscriptPreHandler() func(ctx context.Context, in model.PipelineInput, state *model.RunState) (model.PipelineInput, error) {
	return func(ctx context.Context, in model.PipelineInput, state *model.RunState) (model.PipelineInput, error) {
		state.UserID = in.UserID
		state.ConversationID = in.ConversationID
		state.AudioPresent = in.Audio != nil
		state.Image = in.Image
		state.Location = in.Location
		return in, nil
	}
}

// NewResolveTranscriptNode resolves the request text: audio is transcribed,
// otherwise the raw text input is used as-is. A failing or silent
// transcription resolves to an empty transcript; the run continues either way.
func NewResolveTranscriptNode(transcriber model.SpeechTranscriber, timeout time.Duration) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.PipelineInput) (model.TranscriptResult, error) {
		if in.Audio != nil && transcriber != nil {
			tctx, cancel := stageContext(ctx, timeout)
			defer cancel()

			result, err := transcriber.Transcribe(tctx, *in.Audio)
			if err != nil {
				logx.Warn().Err(err).Str("user_id", in.UserID).Msg("transcription failed, continuing without transcript")
				return model.TranscriptResult{Language: lang.English}, nil
			}
			if !lang.Valid(result.Language) {
				result.Language = lang.Detect(result.Transcript)
			}
			return result, nil
		}

		transcript := strings.TrimSpace(in.Text)
		return model.TranscriptResult{
			Transcript: transcript,
			Language:   lang.Detect(transcript),
		}, nil
	})
}

// NewResolveTranscriptPostHandler records the resolved transcript in state.
func NewResolveTranscriptPostHandler() func(ctx context.Context, out model.TranscriptResult, state *model.RunState) (model.TranscriptResult, error) {
	return func(ctx context.Context, out model.TranscriptResult, state *model.RunState) (model.TranscriptResult, error) {
		state.Transcript = out.Transcript
		state.Language = out.Language
		return out, nil
	}
}

// NewExtractIntentNode derives structured intent from the transcript and
// appends the user turn to the conversation. An empty transcript skips the
// model call entirely; a failing call degrades to a transcript-only intent.
func NewExtractIntentNode(cm *ChatModels, messagesManager *conversations.MessagesManager, timeout time.Duration) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TranscriptResult) (model.ContextBundle, error) {
		bundle := model.ContextBundle{
			Transcript: in.Transcript,
			Language:   in.Language,
		}
		if in.Transcript == "" {
			return bundle, nil
		}

		var conversationID string
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.RunState) error {
			conversationID = state.ConversationID
			return nil
		}); err != nil {
			return bundle, err
		}

		if err := messagesManager.AppendUserTurn(ctx, conversationID, in.Transcript); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to append user turn")
		}

		systemPrompt, err := prompts.RenderIntentSystem(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("intent system prompt render failed, using degraded intent")
			bundle.Intent = parsers.DegradedIntent(in.Transcript)
			return bundle, nil
		}

		tctx, cancel := stageContext(ctx, timeout)
		defer cancel()

		output, err := cm.Intent.Generate(tctx, []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(in.Transcript),
		})
		if err != nil {
			logx.Warn().Err(err).Msg("intent extraction failed, using degraded intent")
			bundle.Intent = parsers.DegradedIntent(in.Transcript)
			return bundle, nil
		}

		bundle.Intent = parsers.ParseIntentResponse(output.Content, in.Transcript)
		return bundle, nil
	})
}

// NewExtractIntentPostHandler records the extracted intent in state.
func NewExtractIntentPostHandler() func(ctx context.Context, out model.ContextBundle, state *model.RunState) (model.ContextBundle, error) {
	return func(ctx context.Context, out model.ContextBundle, state *model.RunState) (model.ContextBundle, error) {
		intent := out.Intent
		state.Intent = &intent
		return out, nil
	}
}

// NewEnrichContextCondition routes to context enrichment only when the
// request carries an image or a usable GPS fix.
func NewEnrichContextCondition() func(ctx context.Context, in model.ContextBundle) (string, error) {
	return func(ctx context.Context, in model.ContextBundle) (string, error) {
		var enrich bool
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.RunState) error {
			enrich = state.Image != nil || state.Location.Valid()
			return nil
		}); err != nil {
			return "", err
		}
		if enrich {
			return NodeEnrichContext, nil
		}
		return NodeGenerateReply, nil
	}
}

// NewEnrichContextNode runs image analysis and the weather lookup
// concurrently and joins both results into the bundle. Each lookup is guarded
// by its own input being present; a failure in one never disturbs the other.
func NewEnrichContextNode(analyzer model.VisionAnalyzer, weather model.WeatherProvider, timeout time.Duration) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.ContextBundle) (model.ContextBundle, error) {
		var (
			image    *model.Image
			location *model.Location
		)
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.RunState) error {
			image = state.Image
			location = state.Location
			return nil
		}); err != nil {
			return in, err
		}

		var group errgroup.Group

		if image != nil && analyzer != nil {
			group.Go(func() error {
				tctx, cancel := stageContext(ctx, timeout)
				defer cancel()

				findings, err := analyzer.Analyze(tctx, *image)
				if err != nil {
					logx.Warn().Err(err).Msg("vision analysis failed, continuing without findings")
					in.Vision = &model.VisionFindings{Err: err.Error()}
					return nil
				}
				in.Vision = findings
				return nil
			})
		}

		if location.Valid() && weather != nil {
			group.Go(func() error {
				tctx, cancel := stageContext(ctx, timeout)
				defer cancel()

				snapshot, err := weather.Forecast(tctx, location.Latitude, location.Longitude)
				if err != nil {
					logx.Warn().Err(err).
						Float64("latitude", location.Latitude).
						Float64("longitude", location.Longitude).
						Msg("weather lookup failed, continuing without forecast")
					return nil
				}
				in.Weather = snapshot
				return nil
			})
		}

		// both goroutines swallow their errors; Wait is a pure barrier here
		_ = group.Wait()
		return in, nil
	})
}

// NewEnrichContextPostHandler records the enrichment results in state.
func NewEnrichContextPostHandler() func(ctx context.Context, out model.ContextBundle, state *model.RunState) (model.ContextBundle, error) {
	return func(ctx context.Context, out model.ContextBundle, state *model.RunState) (model.ContextBundle, error) {
		state.Vision = out.Vision
		state.Weather = out.Weather
		return out, nil
	}
}

// NewSynthesizeSpeechCondition routes to speech synthesis only for voice
// requests that produced a reply worth speaking.
func NewSynthesizeSpeechCondition() func(ctx context.Context, in *model.Reply) (string, error) {
	return func(ctx context.Context, in *model.Reply) (string, error) {
		var audioPresent bool
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.RunState) error {
			audioPresent = state.AudioPresent
			return nil
		}); err != nil {
			return "", err
		}
		if audioPresent && in != nil && strings.TrimSpace(in.Text) != "" {
			return NodeSynthesizeSpeech, nil
		}
		return NodePersistRun, nil
	}
}

// NewSynthesizeSpeechNode renders the reply as audio. Synthesis is strictly
// best effort; any failure leaves the reply text-only.
func NewSynthesizeSpeechNode(synthesizer model.SpeechSynthesizer, timeout time.Duration) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *model.Reply) (*model.Reply, error) {
		if synthesizer == nil {
			return in, nil
		}

		tctx, cancel := stageContext(ctx, timeout)
		defer cancel()

		audioPath, err := synthesizer.Synthesize(tctx, in.Text, in.Language)
		if err != nil {
			logx.Warn().Err(err).Str("language", in.Language).Msg("speech synthesis failed, reply stays text-only")
			return in, nil
		}
		in.AudioPath = audioPath
		return in, nil
	})
}

// NewSynthesizeSpeechPostHandler records the synthesized audio path in state.
func NewSynthesizeSpeechPostHandler() func(ctx context.Context, out *model.Reply, state *model.RunState) (*model.Reply, error) {
	return func(ctx context.Context, out *model.Reply, state *model.RunState) (*model.Reply, error) {
		state.AudioReplyPath = out.AudioPath
		return out, nil
	}
}

// NewPersistRunNode archives the completed run and produces the terminal
// output. Archive failures are logged and never surface to the caller.
func NewPersistRunNode(archive model.RunArchive) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *model.Reply) (*model.RunOutput, error) {
		var output *model.RunOutput
		var record *model.RunRecord
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.RunState) error {
			output = &model.RunOutput{
				UserID:         state.UserID,
				ConversationID: state.ConversationID,
				Transcript:     state.Transcript,
				Language:       in.Language,
				ReplyText:      in.Text,
				AudioReplyPath: in.AudioPath,
				Vision:         state.Vision,
				Weather:        state.Weather,
			}
			if state.Intent != nil {
				output.Crop = state.Intent.Crop
			}
			record = &model.RunRecord{
				UserID:         output.UserID,
				ConversationID: output.ConversationID,
				Transcript:     output.Transcript,
				Language:       output.Language,
				Crop:           output.Crop,
				ReplyText:      output.ReplyText,
				AudioReplyPath: output.AudioReplyPath,
				Vision:         output.Vision,
				Weather:        output.Weather,
				CreatedAt:      time.Now().UTC(),
			}
			return nil
		}); err != nil {
			return nil, err
		}

		if archive != nil {
			if err := archive.SaveRun(ctx, record); err != nil {
				logx.Error().Err(err).Str("user_id", record.UserID).Msg("failed to archive completed run")
			}
		}
		return output, nil
	})
}
