// Package ai generates example sentences for words that arrive without
// one, so fill-word questions always have material to blank out. It is
// optional: without an API key the importer simply leaves examples
// empty.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

const systemPrompt = "You write one short, natural example sentence for a vocabulary word. " +
	"Reply with the sentence only: no quotes, no explanation. " +
	"The sentence must contain the word exactly as given."

// ExampleGenerator asks the Anthropic API for example sentences.
type ExampleGenerator struct {
	client *anthropic.Client
	model  string
}

// New builds a generator with the given API key and model.
func New(apiKey, model string) *ExampleGenerator {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &ExampleGenerator{client: &client, model: model}
}

// ExampleSentence produces one sentence in the given language using the
// word.
func (g *ExampleGenerator) ExampleSentence(ctx context.Context, word, definitions, language string) (string, error) {
	userPrompt := fmt.Sprintf("Word: %s\nLanguage: %s\nMeaning: %s", word, language, definitions)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   128,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := g.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in API response for %q", word)
}

func (g *ExampleGenerator) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt)) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		message, err := g.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}
