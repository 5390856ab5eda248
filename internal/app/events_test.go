package app

import (
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/comandero/internal/domain"
	"github.com/comandero/comandero/internal/orders"
)

func TestAuditSubscribers_RecordOrderEvents(t *testing.T) {
	a := setupApp(t)
	a.bus = EventBus.New()
	a.registerAuditSubscribers()

	a.bus.Publish(orders.EventOrderCreated, int64(7), "Alice", "32.97")
	a.bus.Publish(orders.EventOrderCancelled, int64(7), "Alice")

	var logs []domain.SysOprLog
	require.NoError(t, a.gormDB.Order("opt_time ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, orders.EventOrderCreated, logs[0].OptAction)
	assert.Contains(t, logs[0].OptDesc, "Alice")
	assert.Contains(t, logs[0].OptDesc, "32.97")
	assert.Equal(t, orders.EventOrderCancelled, logs[1].OptAction)
}
