package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Interpreters used for scripts by file extension. Other files are executed
// directly.
var interpreters = map[string][]string{
	".js":  {"node"},
	".mjs": {"node"},
	".cjs": {"node"},
	".py":  {"python3"},
	".sh":  {"sh"},
	".lua": {"lua"},
}

// Runs hook scripts as child processes.
//
// The child receives the JSON-encoded [Context] on stdin, runs in the
// resource root with the resource environment added to its own, and must
// print a JSON-encoded [Result] on stdout. An empty stdout means no result.
// A non-zero exit status fails the hook.
type Subprocess struct{}

// Output of a hook process.
type execResult struct {
	exitCode int
	stdout   []byte
	stderr   string
}

// Returns a function running the script at path with args.
func (s *Subprocess) Load(path string, args []string) (Func, error) {
	argv := append(append([]string{}, interpreters[strings.ToLower(filepath.Ext(path))]...), path)
	argv = append(argv, args...)

	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, err
	}

	return func(ctx context.Context, hc *Context) (*Result, error) {
		input, err := json.Marshal(hc)
		if err != nil {
			return nil, err
		}

		out, err := s.run(ctx, argv, hc, input)
		if err != nil {
			return nil, err
		}
		if out.exitCode != 0 {
			return nil, fmt.Errorf("%w: exit code %d: %s", ErrHookFailed, out.exitCode, strings.TrimSpace(out.stderr))
		}

		return decodeResult(out.stdout)
	}, nil
}

// Starts the process and waits for it. A non-zero exit code is reported in
// the result, not as an error.
func (s *Subprocess) run(ctx context.Context, argv []string, hc *Context, stdin []byte) (*execResult, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = hc.ResourcePath
	cmd.Env = s.environ(hc)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrHookFailed, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &execResult{exitCode: exitErr.ExitCode(), stdout: stdout.Bytes(), stderr: stderr.String()}, nil
	}
	if err != nil {
		return nil, err
	}

	return &execResult{stdout: stdout.Bytes(), stderr: stderr.String()}, nil
}

// Builds the child environment: the current process environment, the
// resource environment, then the hook identity.
func (s *Subprocess) environ(hc *Context) []string {
	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(hc.Env)) {
		env = append(env, k+"="+hc.Env[k])
	}
	return append(env,
		"FXPACK_HOOK="+hc.Hook,
		"FXPACK_RESOURCE="+hc.ResourceName,
		"FXPACK_RESOURCE_PATH="+hc.ResourcePath,
		"FXPACK_OUTPUT="+hc.OutputTarget,
	)
}

// Decodes the hook output. Empty output is no result.
func decodeResult(stdout []byte) (*Result, error) {
	stdout = bytes.TrimSpace(stdout)
	if len(stdout) == 0 {
		return nil, nil
	}

	var r Result
	if err := json.Unmarshal(stdout, &r); err != nil {
		return nil, fmt.Errorf("%w: invalid output: %w", ErrHookFailed, err)
	}
	return &r, nil
}
