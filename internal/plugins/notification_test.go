package plugins

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationSend(t *testing.T) {
	var (
		gotEvent string
		gotData  []interface{}
	)
	n := NewNotification(func(_ context.Context, event string, data ...interface{}) {
		gotEvent = event
		gotData = data
	})
	n.now = func() time.Time { return time.UnixMilli(1700000000000) }
	require.NoError(t, n.Init(context.Background()))

	notice, err := n.Send("提醒", "计算完成")
	require.NoError(t, err)

	_, err = uuid.Parse(notice.ID)
	assert.NoError(t, err)
	assert.Equal(t, "info", notice.Level)
	assert.Equal(t, int64(1700000000000), notice.Timestamp)

	assert.Equal(t, EventNotification, gotEvent)
	require.Len(t, gotData, 1)
	assert.Equal(t, notice, gotData[0])
}

func TestNotificationValidation(t *testing.T) {
	n := NewNotification(func(context.Context, string, ...interface{}) {})
	_, err := n.Send("t", "b")
	assert.Error(t, err, "未初始化")

	require.NoError(t, n.Init(context.Background()))
	_, err = n.Send("", "b")
	assert.Error(t, err)
}

func TestNotificationPermission(t *testing.T) {
	n := NewNotification(func(context.Context, string, ...interface{}) {})
	assert.True(t, n.IsPermissionGranted())
	assert.Equal(t, PermissionGranted, n.RequestPermission())
}
