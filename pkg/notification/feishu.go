package notification

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"agentconsole/pkg/logger"

	"github.com/go-resty/resty/v2"
)

// FeishuNotifier sends agent form notifications to a Feishu (Lark) webhook
type FeishuNotifier struct {
	webhookURL string
	client     *resty.Client
	wg         sync.WaitGroup
}

// NewFeishuNotifier creates a new Feishu notifier, disabled when webhookURL is empty
func NewFeishuNotifier(webhookURL string) *FeishuNotifier {
	if webhookURL == "" {
		logger.Warn("Feishu webhook URL not configured (check config file or FEISHU_WEBHOOK_URL env), Feishu notifications will be disabled")
	}

	return &FeishuNotifier{
		webhookURL: webhookURL,
		client:     resty.New().SetTimeout(10 * time.Second),
	}
}

// Enabled reports whether a webhook URL is configured
func (f *FeishuNotifier) Enabled() bool {
	return f.webhookURL != ""
}

func (f *FeishuNotifier) NotifySuccess(ctx context.Context, message string) {
	f.dispatch(ctx, "green", "Agent created", message)
}

func (f *FeishuNotifier) NotifyFailure(ctx context.Context, message string) {
	f.dispatch(ctx, "red", "Agent creation failed", message)
}

// dispatch sends in the background; notifications never block the caller
func (f *FeishuNotifier) dispatch(ctx context.Context, color, title, message string) {
	if !f.Enabled() {
		return
	}
	traceID := logger.TraceID(ctx)
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		sendCtx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), traceID), 10*time.Second)
		defer cancel()
		if err := f.Send(sendCtx, color, title, message); err != nil {
			logger.ErrorCtx(sendCtx, "[Feishu] failed to send notification: %v", err)
		}
	}()
}

// Wait blocks until in-flight notifications finish
func (f *FeishuNotifier) Wait() {
	f.wg.Wait()
}

// Send posts one message card synchronously
func (f *FeishuNotifier) Send(ctx context.Context, color, title, message string) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(buildCard(color, title, message)).
		Post(f.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to send Feishu notification: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("Feishu API returned status code: %d", resp.StatusCode())
	}

	logger.InfoCtx(ctx, "[Feishu] notification sent: %s", message)
	return nil
}

// buildCard builds a Feishu interactive message card
func buildCard(color, title, message string) map[string]interface{} {
	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"template": color,
				"title": map[string]interface{}{
					"content": title,
					"tag":     "plain_text",
				},
			},
			"elements": []interface{}{
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"content": message,
						"tag":     "lark_md",
					},
				},
				map[string]interface{}{
					"tag": "note",
					"elements": []interface{}{
						map[string]interface{}{
							"content": time.Now().Format("2006-01-02 15:04:05"),
							"tag":     "plain_text",
						},
					},
				},
			},
		},
	}
}
