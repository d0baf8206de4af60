// Groq [MoodClassifier] implementation
//
// Groq exposes an OpenAI-compatible chat completion API, so the openai-go client is pointed at its base URL.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	oaishared "github.com/openai/openai-go/v3/shared"
	"golang.org/x/time/rate"
)

const (
	defaultGroqBaseURL  = "https://api.groq.com/openai/v1"
	defaultGroqModel    = "llama-3.1-8b-instant"
	defaultLyricsBudget = 4000
)

const moodSystemPrompt = `You classify the mood of song lyrics.
Reply with a single JSON object and nothing else:
{"mood": "<one or two word mood>", "confidence": <number between 0 and 1>, "genre": "<likely genre or null>"}`

// GroqService implements [MoodClassifier] with an OpenAI-compatible chat completion model.
type GroqService struct {
	client         openai.Client
	model          string
	maxLyricsChars int
	limiter        *rate.Limiter
}

// NewGroqService creates a classifier from cfg. Provider-side retries are disabled.
func NewGroqService(cfg shared.GroqConfig, client *http.Client) (*GroqService, error) {
	if !shared.Configured(cfg.APIKey) {
		return nil, fmt.Errorf("%w: groq api key", shared.ErrMissingCredentials)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGroqModel
	}
	budget := cfg.MaxLyricsChars
	if budget <= 0 {
		budget = defaultLyricsBudget
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if client != nil {
		opts = append(opts, option.WithHTTPClient(client))
	}

	return &GroqService{
		client:         openai.NewClient(opts...),
		model:          model,
		maxLyricsChars: budget,
		limiter:        newLimiter(cfg.RequestsPerSecond),
	}, nil
}

// Name returns the service name.
func (g *GroqService) Name() string {
	return "Groq"
}

// Classify asks the model for the mood of lyrics.
func (g *GroqService) Classify(ctx context.Context, lyrics string) (*models.MoodResult, error) {
	lyrics = strings.TrimSpace(lyrics)
	if lyrics == "" {
		return nil, fmt.Errorf("%w: empty lyrics", shared.ErrClassificationFailure)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model: oaishared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(moodSystemPrompt),
			openai.UserMessage(truncateRunes(lyrics, g.maxLyricsChars)),
		},
		Temperature: openai.Opt(0.0),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: model returned no choices", shared.ErrClassificationFailure)
	}

	return ParseMoodReply(resp.Choices[0].Message.Content)
}

// moodReply is the JSON object the model is instructed to return.
type moodReply struct {
	Mood       string   `json:"mood"`
	Confidence *float64 `json:"confidence"`
	Genre      *string  `json:"genre"`
}

// ParseMoodReply decodes the first JSON object found in a model reply.
//
// Empty replies, missing or blank moods, and confidences that are absent or outside [0, 1] are rejected.
func ParseMoodReply(content string) (*models.MoodResult, error) {
	content = stripThinking(strings.TrimSpace(content))
	if content == "" {
		return nil, fmt.Errorf("%w: empty model response", shared.ErrClassificationFailure)
	}

	start := strings.Index(content, "{")
	if start < 0 {
		return nil, fmt.Errorf("%w: no JSON object in model response", shared.ErrClassificationFailure)
	}

	// Anything after the first complete object is ignored.
	var reply moodReply
	if err := json.NewDecoder(strings.NewReader(content[start:])).Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: malformed model response: %v", shared.ErrClassificationFailure, err)
	}

	mood := strings.TrimSpace(reply.Mood)
	if mood == "" {
		return nil, fmt.Errorf("%w: model response has no mood", shared.ErrClassificationFailure)
	}
	if reply.Confidence == nil {
		return nil, fmt.Errorf("%w: model response has no confidence", shared.ErrClassificationFailure)
	}
	if c := *reply.Confidence; c < 0 || c > 1 {
		return nil, fmt.Errorf("%w: confidence %v out of range", shared.ErrClassificationFailure, c)
	}

	result := &models.MoodResult{Mood: mood, Confidence: *reply.Confidence}
	if reply.Genre != nil {
		if g := strings.TrimSpace(*reply.Genre); !strings.EqualFold(g, "null") {
			result.Genre = g
		}
	}

	return result, nil
}

// stripThinking drops a leading <think>...</think> block emitted by reasoning models.
func stripThinking(s string) string {
	if !strings.HasPrefix(s, "<think>") {
		return s
	}
	if i := strings.Index(s, "</think>"); i >= 0 {
		return strings.TrimSpace(s[i+len("</think>"):])
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
