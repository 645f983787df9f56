package llm

import (
	"golang.org/x/sync/semaphore"
)

const TextWeight = 2

// TextSem 限制并发的文本生成请求数，周报批量生成时避免触发上游限流
var TextSem = semaphore.NewWeighted(TextWeight)
