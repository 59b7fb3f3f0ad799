package events

import (
	"context"
	"errors"

	"inbound-wms-api-server/internal/models"

	"go.uber.org/zap"
)

// Notifier nhận các sự kiện thay đổi của yêu cầu nhập hàng.
type Notifier interface {
	Notify(ctx context.Context, event models.InboundEvent) error
}

// Fanout gửi một sự kiện tới nhiều Notifier; lỗi của một đích không chặn các đích còn lại.
type Fanout struct {
	targets []Notifier
	logger  *zap.Logger
}

func NewFanout(logger *zap.Logger, targets ...Notifier) *Fanout {
	f := &Fanout{logger: logger}
	for _, t := range targets {
		if t != nil {
			f.targets = append(f.targets, t)
		}
	}
	return f
}

func (f *Fanout) Notify(ctx context.Context, event models.InboundEvent) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Notify(ctx, event); err != nil {
			f.logger.Warn("notify failed",
				zap.String("event", event.Event),
				zap.String("requestID", event.RequestID),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
