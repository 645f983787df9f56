package llm

import (
	"Daybook/internal/api/config"
	"context"
	"errors"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
)

// GenerateWeeklySummary 把整周报告文本交给模型生成管理层周报
func GenerateWeeklySummary(ctx context.Context, reportText string) (string, error) {
	if llmClient == nil {
		return "", errors.New("llm client not initialized")
	}

	resp, err := fetchModel(ctx, weeklySummaryPrompt, reportText, 0.7)
	if err != nil {
		log.ErrorContext(ctx, "AI大模型请求失败", "err", err)
		return "", err
	}

	if len(resp.Choices) > 0 {
		return resp.Choices[0].Content, nil
	}
	return "", nil
}

func fetchModel(ctx context.Context, systemPrompt string, userPrompt string, temp float64) (*llms.ContentResponse, error) {
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer TextSem.Release(1)

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	log.Info("正在请求AI大模型")
	return llmClient.GenerateContent(ctx, messages,
		llms.WithModel(config.Cfg.LLM.TextModel),
		llms.WithTemperature(temp),
		llms.WithMaxTokens(2000),
	)
}
