package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	m "github.com/droidmod/gatepatch/internal/model"
)

// ToolRunner abstracts the external decompile/recompile/sign
// executables. Both steps are blocking calls with a bounded wait and a
// hard cap on captured output; the rebuild independently validates that
// every rewrite left the tree structurally sound.
type ToolRunner interface {
	// Decompile disassembles the packaged artifact into outDir.
	Decompile(ctx context.Context, apk, outDir m.Path) error

	// Build reassembles a mutated tree into a packaged artifact. A
	// build failure is the primary correctness feedback loop: any
	// structural invalidity in a rewritten method resurfaces here.
	Build(ctx context.Context, dir, outApk m.Path) error

	// Sign signs the rebuilt artifact with the given certificate and
	// PKCS#8 key.
	Sign(ctx context.Context, apk, cert, key m.Path) error
}

const (
	defaultToolTimeout = 10 * time.Minute
	maxToolOutput      = 1 << 20 // captured tool output cap, per step
)

// ExecToolRunner shells out to apktool and apksigner.
type ExecToolRunner struct {
	Apktool   string
	Apksigner string
	Timeout   time.Duration
}

// NewExecToolRunner constructs a runner using the given executable
// paths, falling back to PATH lookup names when empty.
func NewExecToolRunner(apktool, apksigner string, timeout time.Duration) *ExecToolRunner {
	if apktool == "" {
		apktool = "apktool"
	}

	if apksigner == "" {
		apksigner = "apksigner"
	}

	if timeout <= 0 {
		timeout = defaultToolTimeout
	}

	return &ExecToolRunner{Apktool: apktool, Apksigner: apksigner, Timeout: timeout}
}

// Decompile runs `apktool d`.
func (r *ExecToolRunner) Decompile(ctx context.Context, apk, outDir m.Path) error {
	return r.run(ctx, r.Apktool, "d", string(apk), "-o", string(outDir), "-f")
}

// Build runs `apktool b`.
func (r *ExecToolRunner) Build(ctx context.Context, dir, outApk m.Path) error {
	return r.run(ctx, r.Apktool, "b", string(dir), "-o", string(outApk))
}

// Sign runs `apksigner sign` with a PEM certificate and PKCS#8 key.
func (r *ExecToolRunner) Sign(ctx context.Context, apk, cert, key m.Path) error {
	return r.run(ctx, r.Apksigner, "sign", "--cert", string(cert), "--key", string(key), string(apk))
}

func (r *ExecToolRunner) run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var out cappedBuffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w\n%s", name, args[0], err, out.String())
	}

	return nil
}

// cappedBuffer keeps at most maxToolOutput bytes of tool output so a
// chatty or runaway tool cannot balloon memory.
type cappedBuffer struct {
	buf bytes.Buffer
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := maxToolOutput - b.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}

	// Report full consumption so the child process never blocks.
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
