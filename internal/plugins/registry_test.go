package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	name    string
	initErr error
	inited  bool
}

func (p *stubPlugin) Name() string { return p.name }

func (p *stubPlugin) Init(context.Context) error {
	p.inited = true
	return p.initErr
}

func TestRegistryRegisterAndNames(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewFS(nil)))
	require.NoError(t, r.Register(NewDialog(&fakeDialogs{})))
	require.NoError(t, r.Register(NewNotification(func(context.Context, string, ...interface{}) {})))
	require.NoError(t, r.Register(NewOpener([]string{"https"}, func(context.Context, string) {})))

	assert.Equal(t, []string{"fs", "dialog", "notification", "opener"}, r.Names())

	p, ok := r.Get("dialog")
	require.True(t, ok)
	assert.Equal(t, "dialog", p.Name())
	_, ok = r.Get("shell")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubPlugin{name: "fs"}))

	err := r.Register(&stubPlugin{name: "fs"})
	assert.ErrorIs(t, err, ErrDuplicatePlugin)
	assert.Error(t, r.Register(&stubPlugin{name: ""}))
	assert.Equal(t, []string{"fs"}, r.Names())
}

func TestRegistryInitStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	first := &stubPlugin{name: "a"}
	second := &stubPlugin{name: "b", initErr: boom}
	third := &stubPlugin{name: "c"}

	r := NewRegistry()
	for _, p := range []*stubPlugin{first, second, third} {
		require.NoError(t, r.Register(p))
	}

	err := r.Init(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, first.inited)
	assert.True(t, second.inited)
	assert.False(t, third.inited)
}
