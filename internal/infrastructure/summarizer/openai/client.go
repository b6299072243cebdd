// Package openai はOpenAI互換APIによる変更要約バックエンドを提供します
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
	"github.com/Vladislavlhp7/data-lineage/pkg/config"
)

const defaultModel = "gpt-4o-mini"

// maxDiffChars はプロンプトに含める差分の上限文字数
const maxDiffChars = 12000

const summaryPrompt = `You summarize changes between two versions of a text document.
You receive a unified diff. Reply with one or two plain sentences describing what changed.
Do not quote the diff, do not use markdown, do not mention line numbers.`

// Client はSummaryBackendのOpenAI実装
type Client struct {
	client *openai.Client
	model  string
}

var _ service.SummaryBackend = (*Client)(nil)

// NewClient は新しいClientを作成します
// BaseURLを指定するとOpenAI互換の別エンドポイントに接続します
func NewClient(cfg config.SummarizerConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("summarizer API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := defaultModel
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Summarize は差分テキストの要約を返します
func (c *Client) Summarize(ctx context.Context, diffText string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summaryPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: truncateDiff(diffText),
			},
		},
		Temperature: 0.2,
		MaxTokens:   120,
	})
	if err != nil {
		return "", fmt.Errorf("calling summarizer: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from summarizer")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// truncateDiff は長すぎる差分を行境界で切り詰めます
func truncateDiff(diffText string) string {
	if len(diffText) <= maxDiffChars {
		return diffText
	}
	cut := diffText[:maxDiffChars]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	} else {
		// 改行がない場合も文字の途中では切らない
		n := maxDiffChars
		for n > 0 && !utf8.RuneStart(diffText[n]) {
			n--
		}
		cut = diffText[:n]
	}
	return cut + "\n... (diff truncated)"
}
