package commands

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{
		"calculate",
		"get_system_info",
		"get_timestamp",
		"greet",
		"process_numbers",
		"safe_divide",
	}, r.Names())
}

func TestRegistry_InvokeNamedArgs(t *testing.T) {
	now := time.Unix(1700000000, 0)
	r := NewRegistry(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	got, err := r.Invoke(ctx, "calculate", json.RawMessage(`{"operation":"multiply","a":6,"b":7}`))
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)

	got, err = r.Invoke(ctx, "process_numbers", json.RawMessage(`{"numbers":[3,1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, Statistics{Sum: 6, Average: 2, Max: 3, Min: 1}, got)

	got, err = r.Invoke(ctx, "get_timestamp", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), got)

	got, err = r.Invoke(ctx, "greet", json.RawMessage(`{"name":"Lin"}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Lin! You've been greeted from Go!", got)
}

func TestRegistry_InvokeErrors(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	_, err := r.Invoke(ctx, "safe_divide", json.RawMessage(`{"a":1,"b":0}`))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = r.Invoke(ctx, "calculate", json.RawMessage(`{"operation":"mod","a":1,"b":2}`))
	assert.ErrorContains(t, err, "mod")

	_, err = r.Invoke(ctx, "calculate", json.RawMessage(`{"a":`))
	assert.ErrorContains(t, err, "参数解析失败")

	_, err = r.Invoke(ctx, "rm_rf", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRegistry_ObserverSeesEveryInvocation(t *testing.T) {
	var seen []string
	r := NewRegistry(WithObserver(func(_ context.Context, name string, _ json.RawMessage, _ any, err error) {
		if err != nil {
			seen = append(seen, name+":err")
			return
		}
		seen = append(seen, name)
	}))

	_, _ = r.Invoke(context.Background(), "get_system_info", nil)
	_, _ = r.Invoke(context.Background(), "safe_divide", json.RawMessage(`{"a":1,"b":0}`))
	_, _ = r.Invoke(context.Background(), "missing", nil)

	assert.Equal(t, []string{"get_system_info", "safe_divide:err"}, seen)
}
