package summary // import "github.com/jimui/biblioteca/summary"

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jimui/biblioteca/config"
	"github.com/jimui/biblioteca/log"
	"go.uber.org/zap"
)

// FallbackSummary is returned whenever the collaborator cannot produce
// prose. Failures never propagate past this package.
const FallbackSummary = "Resumo não disponível no momento."

// Summarizer produces catalog prose for a book. Implementations fail
// safe: they always return usable text.
type Summarizer interface {
	Summarize(ctx context.Context, title, author string) string
	Recommend(ctx context.Context, favoriteTitles []string) []string
}

// OpenAI talks to an OpenAI-compatible completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// New builds the configured summarizer. Without an API key the
// disabled implementation is returned, which only serves the fallback.
func New(opts *config.Options) Summarizer {
	if opts.SummaryAPIKey == "" {
		return &Disabled{}
	}

	clientConfig := openai.DefaultConfig(opts.SummaryAPIKey)
	if opts.SummaryBaseURL != "" {
		clientConfig.BaseURL = opts.SummaryBaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  opts.SummaryModel,
	}
}

func (o *OpenAI) Summarize(ctx context.Context, title, author string) string {
	prompt := fmt.Sprintf(
		"Gere um resumo curto e instigante em português para o livro %q do autor %q.",
		title, author)

	text, err := o.complete(ctx, prompt)
	if err != nil {
		log.Warn("Summary collaborator failed", zap.Error(err))
		return FallbackSummary
	}
	if text == "" {
		return FallbackSummary
	}
	return text
}

func (o *OpenAI) Recommend(ctx context.Context, favoriteTitles []string) []string {
	if len(favoriteTitles) == 0 {
		return []string{}
	}

	prompt := fmt.Sprintf(
		"Com base nestes livros favoritos: %s, sugira 3 outros títulos que o usuário possa gostar. Retorne apenas os nomes dos livros separados por vírgula.",
		strings.Join(favoriteTitles, ", "))

	text, err := o.complete(ctx, prompt)
	if err != nil {
		log.Warn("Recommendation collaborator failed", zap.Error(err))
		return []string{}
	}

	titles := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if title := strings.TrimSpace(part); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Disabled serves the fallback text only.
type Disabled struct{}

func (d *Disabled) Summarize(ctx context.Context, title, author string) string {
	return FallbackSummary
}

func (d *Disabled) Recommend(ctx context.Context, favoriteTitles []string) []string {
	return []string{}
}
