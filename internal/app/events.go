package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/internal/orders"
	"github.com/comandero/comandero/pkg/common"
)

// registerAuditSubscribers wires synchronous bus subscribers that record
// order mutations in the operation log. Subscribers run inline on the
// request path so the request either completes or fails synchronously.
func (a *Application) registerAuditSubscribers() {
	a.recordSubscriber(orders.EventOrderCreated, func(args []interface{}) string {
		return fmt.Sprintf("order %v created for %v, total %v", args[0], args[1], args[2])
	})
	a.recordSubscriber(orders.EventOrderCancelled, func(args []interface{}) string {
		return fmt.Sprintf("order %v cancelled for %v", args[0], args[1])
	})
	a.recordSubscriber(orders.EventOrderDeleted, func(args []interface{}) string {
		return fmt.Sprintf("order %v deleted for %v", args[0], args[1])
	})
}

func (a *Application) recordSubscriber(topic string, describe func(args []interface{}) string) {
	err := a.bus.Subscribe(topic, func(args ...interface{}) {
		a.WriteOprLog(topic, describe(args))
	})
	if err != nil {
		zap.L().Error("failed to subscribe audit handler", zap.String("topic", topic), zap.Error(err))
	}
}

// WriteOprLog appends an operation log entry. Failures are logged and
// swallowed so audit recording never fails the originating request.
func (a *Application) WriteOprLog(action, desc string) {
	entry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := a.gormDB.Create(&entry).Error; err != nil {
		zap.L().Error("failed to write operation log", zap.String("action", action), zap.Error(err))
	}
}
