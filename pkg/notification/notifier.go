package notification

import (
	"context"
	"fmt"
	"io"

	"agentconsole/pkg/interfaces"
	"agentconsole/pkg/logger"
)

// LogNotifier writes notifications to the application log
type LogNotifier struct{}

var _ interfaces.Notifier = LogNotifier{}

func (LogNotifier) NotifySuccess(ctx context.Context, message string) {
	logger.InfoCtx(ctx, "[Notification] success: %s", message)
}

func (LogNotifier) NotifyFailure(ctx context.Context, message string) {
	logger.WarnCtx(ctx, "[Notification] failure: %s", message)
}

// Multi fans notifications out to every notifier
type Multi []interfaces.Notifier

func (m Multi) NotifySuccess(ctx context.Context, message string) {
	for _, n := range m {
		if n != nil {
			n.NotifySuccess(ctx, message)
		}
	}
}

func (m Multi) NotifyFailure(ctx context.Context, message string) {
	for _, n := range m {
		if n != nil {
			n.NotifyFailure(ctx, message)
		}
	}
}

// WriterNotifier prints notifications, one per line
type WriterNotifier struct {
	w io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) NotifySuccess(_ context.Context, message string) {
	fmt.Fprintf(n.w, "✔ %s\n", message)
}

func (n *WriterNotifier) NotifyFailure(_ context.Context, message string) {
	fmt.Fprintf(n.w, "✖ %s\n", message)
}
