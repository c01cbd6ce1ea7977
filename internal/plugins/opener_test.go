package plugins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenerAllowedSchemes(t *testing.T) {
	var opened []string
	o := NewOpener([]string{"https", "MAILTO"}, func(_ context.Context, url string) {
		opened = append(opened, url)
	})
	require.NoError(t, o.Init(context.Background()))

	require.NoError(t, o.OpenURL("https://wails.io"))
	require.NoError(t, o.OpenURL("mailto:dev@example.com"))
	assert.ErrorIs(t, o.OpenURL("file:///etc/passwd"), ErrSchemeNotAllowed)
	assert.ErrorIs(t, o.OpenURL("javascript:alert(1)"), ErrSchemeNotAllowed)
	assert.ErrorIs(t, o.OpenURL("relative/path"), ErrSchemeNotAllowed)
	assert.Error(t, o.OpenURL("http://[::1"))

	assert.Equal(t, []string{"https://wails.io", "mailto:dev@example.com"}, opened)
}

func TestOpenerRequiresInit(t *testing.T) {
	o := NewOpener([]string{"https"}, func(context.Context, string) {})
	assert.Error(t, o.OpenURL("https://example.com"))
}

func TestOpenerSetAllowedSchemes(t *testing.T) {
	o := NewOpener([]string{"https"}, func(context.Context, string) {})
	require.NoError(t, o.Init(context.Background()))

	o.SetAllowedSchemes([]string{"http"})
	assert.ErrorIs(t, o.OpenURL("https://example.com"), ErrSchemeNotAllowed)
	assert.NoError(t, o.OpenURL("http://example.com"))
}
