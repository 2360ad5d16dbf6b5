package adapter

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the recognized OpenAI-client shape. *openai.Client
// from sashabaranov/go-openai satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClientAdapter drives a raw OpenAI chat-completion client. The
// model is required; an optional system prompt is prepended as a system
// turn on every call.
type OpenAIClientAdapter struct {
	client         ChatCompleter
	model          string
	systemPrompt   string
	requestTimeout time.Duration
}

// NewOpenAIClientAdapter creates an adapter for an OpenAI client
func NewOpenAIClientAdapter(client ChatCompleter, config Config) (*OpenAIClientAdapter, error) {
	if config.Model == "" {
		return nil, &InvalidConfigError{Type: TypeOpenAIClient, Reason: "Model is required"}
	}
	return &OpenAIClientAdapter{
		client:         client,
		model:          config.Model,
		systemPrompt:   config.SystemPrompt,
		requestTimeout: config.RequestTimeout,
	}, nil
}

func (a *OpenAIClientAdapter) Type() Type { return TypeOpenAIClient }

func (a *OpenAIClientAdapter) Invoke(ctx context.Context, input string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if a.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})

	if a.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.requestTimeout)
		defer cancel()
	}

	response, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return "", &InvocationError{AdapterType: TypeOpenAIClient, Err: err}
	}
	if len(response.Choices) == 0 {
		return "", &InvocationError{
			AdapterType: TypeOpenAIClient,
			Err:         errors.New("completion response has no choices"),
		}
	}
	return response.Choices[0].Message.Content, nil
}
