package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"github.com/ppiankov/conceptmap/internal/model"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// RateLimiter gates outbound requests per endpoint
type RateLimiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// OpenAIConfig configures the OpenAI-backed source
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// OpenAISource asks a chat model to segment a transcript and list the noun
// phrases of each sentence. Output is normalized like any other source.
type OpenAISource struct {
	client  *openai.Client
	baseURL string
	config  OpenAIConfig
	norm    *Normalizer
	limiter RateLimiter
	breaker *gobreaker.CircuitBreaker
}

// NewOpenAISource creates an OpenAI source. limiter may be nil.
func NewOpenAISource(config OpenAIConfig, norm *Normalizer, limiter RateLimiter) (*OpenAISource, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4000
	}
	if norm == nil {
		norm = NewNormalizer(3)
	}

	return &OpenAISource{
		client:  openai.NewClientWithConfig(clientConfig),
		baseURL: clientConfig.BaseURL,
		config:  config,
		norm:    norm,
		limiter: limiter,
		breaker: newBreaker("openai"),
	}, nil
}

// newBreaker stops hammering an endpoint after consecutive failures.
// Cancellation is the caller's doing and does not count.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

func (s *OpenAISource) Name() string {
	return "openai:" + s.config.Model + ":" + s.norm.Fingerprint()
}

const conceptPrompt = `Split the transcript below into sentences. For every sentence, list the noun phrases it contains, exactly as written.
Respond with JSON only, in this shape:
{"sentences": [{"index": 0, "concepts": ["noun phrase", "another phrase"]}]}
Indexes are 0-based sentence positions. Omit sentences without noun phrases.

Transcript:
`

type conceptResponse struct {
	Sentences []struct {
		Index    int      `json:"index"`
		Concepts []string `json:"concepts"`
	} `json:"sentences"`
}

// Extract sends the whole document in one request
func (s *OpenAISource) Extract(ctx context.Context, doc model.Document) ([]model.SentenceConcepts, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.baseURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	content, err := s.complete(ctx, doc.Text)
	if err != nil {
		return nil, err
	}

	parsed, err := parseConceptResponse(content)
	if err != nil {
		return nil, err
	}

	out := make([]model.SentenceConcepts, 0, len(parsed.Sentences))
	for _, sent := range parsed.Sentences {
		concepts := s.norm.Set(sent.Concepts)
		if len(concepts) == 0 {
			continue
		}
		out = append(out, model.SentenceConcepts{
			Document: doc.ID,
			Sentence: sent.Index,
			Concepts: concepts,
		})
	}
	return out, nil
}

func (s *OpenAISource) complete(ctx context.Context, text string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	out, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
			Model: s.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a linguistic annotator that extracts noun phrases from transcripts.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: conceptPrompt + text,
				},
			},
			MaxTokens:   s.config.MaxTokens,
			Temperature: 0,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response from OpenAI")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	return out.(string), nil
}

// parseConceptResponse decodes the model output, repairing truncated or
// fenced JSON before giving up
func parseConceptResponse(content string) (*conceptResponse, error) {
	content = strings.TrimSpace(content)

	var parsed conceptResponse
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		return &parsed, nil
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, fmt.Errorf("parse concept response: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, fmt.Errorf("parse concept response after repair: %w", err)
	}
	return &parsed, nil
}
