package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/Philanthropists/newsletter-digest/internal/apperr"
	"github.com/Philanthropists/newsletter-digest/internal/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultModel = "gpt-4o"

	systemPrompt = "You are a highly knowledgeable AI assistant specializing in summarizing tech and AI news."
)

const promptTemplate = `Given the following newsletter emails from various providers, consolidate all of that content into one digest of the day's most important tech and AI news.
Pull together all the content across the emails about a specific news story and include it alongside the header so the reader can get as complete a picture of the story as possible. At the end of each section of news, include relevant links taken from the source content alone to explore and learn more.
Do not make up links, only use links from the content provided. Generate the response in the format of a beautiful but simple HTML email.

ONLY RETURN THE HTML CONTENT, DO NOT INCLUDE MARKDOWN (eg: "` + "```html" + `"). DO NOT INCLUDE ANY FAKE UNSUBSCRIBE LINKS. DO NOT INCLUDE ANY FAKE COPYRIGHTS OR ANYTHING IN THE FOOTER.

This report is intended for industry experts who have been consistently following the market. It must follow these guidelines:

- No Fluff or Generic Statements: only precise, relevant and insightful information.
- Assume Reader Expertise: the reader has a strong background in technology and AI, so do not explain basic concepts or state the obvious.
- Avoid Repetition: each piece of data or insight appears in exactly one section. The content below may carry the same news several times; consolidate overlapping articles into one piece of news.

%s
`

// Prompt embeds the aggregated newsletter text in the digest instructions.
func Prompt(content string) string {
	return fmt.Sprintf(promptTemplate, content)
}

type Option func(*Generator)

func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithRequestOptions passes extra options to the OpenAI client, e.g. a base URL.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(g *Generator) {
		g.requestOpts = append(g.requestOpts, opts...)
	}
}

// Generator turns newsletter text into an HTML digest with one chat
// completion call.
type Generator struct {
	client      openai.Client
	model       string
	requestOpts []option.RequestOption
}

func New(apiKey string, opts ...Option) *Generator {
	g := &Generator{model: DefaultModel}
	for _, opt := range opts {
		opt(g)
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, g.requestOpts...)
	g.client = openai.NewClient(clientOpts...)

	return g
}

// Summarize returns the model's HTML digest with surrounding whitespace
// trimmed. The HTML itself is not validated.
func (g *Generator) Summarize(ctx context.Context, content string) (string, error) {
	log := logger.GetLogger()
	log.Infow("Requesting digest",
		"model", g.model,
		"inputChars", len(content),
	)

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(Prompt(content)),
		},
	})
	if err != nil {
		return "", apperr.New(apperr.KindSummarization, "chat completion", err)
	}

	if len(completion.Choices) == 0 {
		return "", apperr.Errorf(apperr.KindSummarization, "chat completion", "no choices in response")
	}

	digest := strings.TrimSpace(completion.Choices[0].Message.Content)
	if digest == "" {
		return "", apperr.Errorf(apperr.KindSummarization, "chat completion", "empty content in response")
	}

	log.Debugw("Digest received",
		"outputChars", len(digest),
		"finishReason", completion.Choices[0].FinishReason,
	)
	return digest, nil
}
