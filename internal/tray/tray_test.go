package tray

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntries(t *testing.T) {
	entries := Entries()
	require.Len(t, entries, 3)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID.String())
		assert.NotEmpty(t, e.Label)
	}
	assert.Equal(t, []string{"show", "hide", "quit"}, ids)
}

func TestDispatch(t *testing.T) {
	var calls []string
	opts := Options{
		OnShow: func() { calls = append(calls, "show") },
		OnHide: func() { calls = append(calls, "hide") },
		OnQuit: func() { calls = append(calls, "quit") },
	}

	Dispatch(Hide, opts)
	Dispatch(Show, opts)
	Dispatch(EntryID(42), opts)
	Dispatch(Quit, opts)

	assert.Equal(t, []string{"hide", "show", "quit"}, calls)
}

func TestDispatch_NilCallbacks(t *testing.T) {
	assert.NotPanics(t, func() {
		Dispatch(Show, Options{})
		Dispatch(Quit, Options{})
	})
}

// TestDispatch_QuitTerminatesProcess 在子进程中触发 “退出”，观察进程以 0 退出
func TestDispatch_QuitTerminatesProcess(t *testing.T) {
	if os.Getenv("TRAY_QUIT_HELPER") == "1" {
		Dispatch(Quit, Options{OnQuit: func() { os.Exit(0) }})
		t.Fatal("进程应已退出")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestDispatch_QuitTerminatesProcess$")
	cmd.Env = append(os.Environ(), "TRAY_QUIT_HELPER=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.NotContains(t, string(out), "进程应已退出")
}
