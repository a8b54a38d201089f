package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/krishibondhu/server/internal/assistant/graph/conversations"
	"github.com/krishibondhu/server/internal/assistant/graph/nodes"
	"github.com/krishibondhu/server/internal/assistant/graph/observers"
	"github.com/krishibondhu/server/internal/assistant/model"
	logx "github.com/krishibondhu/server/pkg/logger"
)

const defaultStageTimeout = 30 * time.Second

// Runner is a thin wrapper to execute the compiled graph with the public PipelineInput.
type Runner interface {
	Run(ctx context.Context, in model.PipelineInput) (*model.RunOutput, error)
}

// Config holds everything needed to compose the full pipeline graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs ChatModels and MessagesManager.
type Config struct {
	APIKey        string
	BaseURL       string
	IntentModel   model.IntentModelConfig
	ResponseModel model.ResponseModelConfig
	Pipeline      model.PipelineConfig
	Conversation  model.ConversationConfig

	ConversationRepo model.ConversationRepository
	Transcriber      model.SpeechTranscriber
	Vision           model.VisionAnalyzer
	Weather          model.WeatherProvider
	Synthesizer      model.SpeechSynthesizer
	Archive          model.RunArchive
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager

	Transcriber model.SpeechTranscriber
	Vision      model.VisionAnalyzer
	Weather     model.WeatherProvider
	Synthesizer model.SpeechSynthesizer
	Archive     model.RunArchive

	MaxLanguageRetries int
	StageTimeout       time.Duration
}

// GraphBuilder handles the construction of the request pipeline graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.PipelineInput, *model.RunOutput]
}

type graphRunner struct {
	runnable compose.Runnable[model.PipelineInput, *model.RunOutput]
}

func (r *graphRunner) Run(ctx context.Context, in model.PipelineInput) (*model.RunOutput, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuildPipelineGraph composes ChatModels, MessagesManager, builds the graph, and returns a Runner.
func BuildPipelineGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		IntentConfig: &cfg.IntentModel,
		RespConfig:   &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:         cms,
		MessagesManager:    mm,
		Transcriber:        cfg.Transcriber,
		Vision:             cfg.Vision,
		Weather:            cfg.Weather,
		Synthesizer:        cfg.Synthesizer,
		Archive:            cfg.Archive,
		MaxLanguageRetries: cfg.Pipeline.MaxLanguageRetries,
		StageTimeout:       parseStageTimeout(cfg.Pipeline.StageTimeout),
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Pipeline graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled pipeline graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.PipelineInput, *model.RunOutput], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Intent == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.StageTimeout <= 0 {
		config.StageTimeout = defaultStageTimeout
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.PipelineInput, *model.RunOutput](
			compose.WithGenLocalState(func(ctx context.Context) *model.RunState {
				return &model.RunState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeResolveTranscript,
		nodes.NewResolveTranscriptNode(b.config.Transcriber, b.config.StageTimeout),
		compose.WithStatePreHandler(nodes.NewResolveTranscriptPreHandler()),
		compose.WithStatePostHandler(nodes.NewResolveTranscriptPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeExtractIntent,
		nodes.NewExtractIntentNode(b.config.ChatModels, b.config.MessagesManager, b.config.StageTimeout),
		compose.WithStatePostHandler(nodes.NewExtractIntentPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeEnrichContext,
		nodes.NewEnrichContextNode(b.config.Vision, b.config.Weather, b.config.StageTimeout),
		compose.WithStatePostHandler(nodes.NewEnrichContextPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeGenerateReply,
		nodes.NewGenerateReplyNode(b.config.ChatModels, b.config.MessagesManager, b.config.MaxLanguageRetries, b.config.StageTimeout),
		compose.WithStatePostHandler(nodes.NewGenerateReplyPostHandler(b.config.MessagesManager)),
	)

	b.graph.AddLambdaNode(nodes.NodeSynthesizeSpeech,
		nodes.NewSynthesizeSpeechNode(b.config.Synthesizer, b.config.StageTimeout),
		compose.WithStatePostHandler(nodes.NewSynthesizeSpeechPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodePersistRun,
		nodes.NewPersistRunNode(b.config.Archive),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeResolveTranscript},
		{nodes.NodeResolveTranscript, nodes.NodeExtractIntent},
		{nodes.NodeEnrichContext, nodes.NodeGenerateReply},
		{nodes.NodeSynthesizeSpeech, nodes.NodePersistRun},
		{nodes.NodePersistRun, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	enrichBranch := compose.NewGraphBranch(
		nodes.NewEnrichContextCondition(),
		map[string]bool{
			nodes.NodeEnrichContext: true,
			nodes.NodeGenerateReply: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeExtractIntent, enrichBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding context enrichment branch")
		return fmt.Errorf("error adding context enrichment branch: %w", err)
	}

	speechBranch := compose.NewGraphBranch(
		nodes.NewSynthesizeSpeechCondition(),
		map[string]bool{
			nodes.NodeSynthesizeSpeech: true,
			nodes.NodePersistRun:       true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeGenerateReply, speechBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding speech synthesis branch")
		return fmt.Errorf("error adding speech synthesis branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.PipelineInput, *model.RunOutput], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

func parseStageTimeout(raw string) time.Duration {
	if raw == "" {
		return defaultStageTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logx.Warn().Str("stage_timeout", raw).Msg("invalid stage timeout, using default")
		return defaultStageTimeout
	}
	return d
}
