package hook

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/cruciblehq/fxpack/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestSubprocessReplacesManifest(t *testing.T) {
	requireShell(t)

	script := `#!/bin/sh
cat > /dev/null
printf '{"ctx":{"manifest":{"files":["%s.lua"]}},"returned":"%s"}' "$MODE" "$FXPACK_HOOK"
`
	res := newTestResource(t, "hooks:\n  preManifest: hook.sh\n", map[string]string{"hook.sh": script})

	got := NewInvoker(&Subprocess{}, 0).Invoke(context.Background(), res, PreManifest, nil)

	assert.JSONEq(t, `"preManifest"`, string(got))
	assert.Equal(t, []manifest.FileEntry{{Src: "dev.lua"}}, res.Manifest().Files)
}

func TestSubprocessReceivesContext(t *testing.T) {
	requireShell(t)

	// Echo the resource name from the stdin payload back as the return value.
	script := `#!/bin/sh
name=$(sed -n 's/.*"resourceName":"\([^"]*\)".*/\1/p')
printf '{"ctx":{},"returned":"%s:%s"}' "$name" "$(basename "$(pwd)")"
`
	res := newTestResource(t, "hooks:\n  postBuild: hook.sh\n", map[string]string{"hook.sh": script})

	got := NewInvoker(&Subprocess{}, 0).Invoke(context.Background(), res, PostBuild, nil)

	assert.JSONEq(t, `"res:res"`, string(got))
}

func TestSubprocessFailures(t *testing.T) {
	requireShell(t)

	tests := []struct {
		name   string
		script string
	}{
		{"exit status", "#!/bin/sh\necho nope >&2\nexit 3\n"},
		{"invalid output", "#!/bin/sh\necho not json\n"},
		{"empty output", "#!/bin/sh\ntrue\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestResource(t, "hooks:\n  preBuild: hook.sh\nfiles: [a.lua]\n", map[string]string{"hook.sh": tt.script})
			before := res.Manifest()

			got := NewInvoker(&Subprocess{}, 0).Invoke(context.Background(), res, PreBuild, nil)

			assert.Nil(t, got)
			assert.Same(t, before, res.Manifest())
		})
	}
}

func TestSubprocessExitError(t *testing.T) {
	requireShell(t)

	res := newTestResource(t, "{}\n", map[string]string{"hook.sh": "#!/bin/sh\necho broken >&2\nexit 2\n"})
	fn, err := (&Subprocess{}).Load(filepath.Join(res.Root, "hook.sh"), nil)
	require.NoError(t, err)

	_, err = fn(context.Background(), &Context{ResourcePath: res.Root})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHookFailed))
	assert.Contains(t, err.Error(), "exit code 2")
	assert.Contains(t, err.Error(), "broken")
}

func TestDecodeResult(t *testing.T) {
	r, err := decodeResult([]byte("  \n"))
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = decodeResult([]byte(`{"ctx":{"manifest":null},"returned":[1,2]}`))
	require.NoError(t, err)
	assert.Nil(t, r.Ctx.Manifest)
	assert.JSONEq(t, `[1,2]`, string(r.Returned))

	_, err = decodeResult([]byte("{"))
	assert.ErrorIs(t, err, ErrHookFailed)
}
