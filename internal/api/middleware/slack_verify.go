package middleware

import (
	"Daybook/internal/pkg/response"
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	log "log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const signatureSkew = 5 * time.Minute

// SlackVerifyMiddleware 校验 Slack 请求签名，防重放窗口 5 分钟。
// 校验完成后回填请求体供后续 handler 解析。
func SlackVerifyMiddleware(signingSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		timestamp := c.GetHeader("X-Slack-Request-Timestamp")
		signature := c.GetHeader("X-Slack-Signature")
		if !verifySlackSignature(signingSecret, timestamp, signature, body, time.Now()) {
			log.WarnContext(c.Request.Context(), "slack signature verification failed",
				log.String("path", c.Request.URL.Path))
			response.Fail(c, response.Unauthorized, "签名校验失败")
			c.Abort()
			return
		}

		c.Next()
	}
}

func verifySlackSignature(secret, timestamp, signature string, body []byte, now time.Time) bool {
	if timestamp == "" || signature == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	if d := now.Sub(time.Unix(ts, 0)); d > signatureSkew || d < -signatureSkew {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
