// Package testutil содержит общие утилиты для тестирования.
package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// CaptureOutput выполняет fn, перехватывая stdout и stderr.
func CaptureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	oldStdout, oldStderr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe для stdout")
	errR, errW, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe для stderr")

	os.Stdout, os.Stderr = outW, errW
	defer func() { os.Stdout, os.Stderr = oldStdout, oldStderr }()

	outCh := drain(outR)
	errCh := drain(errR)

	fn()

	_ = outW.Close() //nolint:errcheck // test helper pipe close
	_ = errW.Close() //nolint:errcheck // test helper pipe close
	return <-outCh, <-errCh
}

func drain(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r) //nolint:errcheck // test helper
		_ = r.Close()          //nolint:errcheck // test helper
		ch <- buf.String()
	}()
	return ch
}
