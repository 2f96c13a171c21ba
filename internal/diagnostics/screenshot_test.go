package diagnostics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

type fakeScreenshotter struct {
	png   []byte
	err   error
	calls int
}

func (f *fakeScreenshotter) Screenshot(ctx context.Context) ([]byte, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.png, f.err
}

func TestScreenshotCapturer_WritesFileNamedFromLabel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screenshots")
	source := &fakeScreenshotter{png: []byte("\x89PNG")}
	capturer := NewScreenshotCapturer(source, dir, true, arbor.NewLogger())

	capturer.Capture(context.Background(), "verificacion_busqueda_'Ana María'")

	path := capturer.LastPath()
	require.NotEmpty(t, path)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "01_verificacion_busqueda_ana_maría-"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data)

	capturer.Capture(context.Background(), "second")
	assert.True(t, strings.HasPrefix(filepath.Base(capturer.LastPath()), "02_second-"))
}

func TestScreenshotCapturer_SurvivesExpiredContext(t *testing.T) {
	source := &fakeScreenshotter{png: []byte("png")}
	capturer := NewScreenshotCapturer(source, t.TempDir(), true, arbor.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	capturer.Capture(ctx, "after_timeout")
	assert.NotEmpty(t, capturer.LastPath(), "capture runs on a detached context")
}

func TestScreenshotCapturer_FailuresAreSwallowed(t *testing.T) {
	source := &fakeScreenshotter{err: errors.New("target closed")}
	capturer := NewScreenshotCapturer(source, t.TempDir(), true, arbor.NewLogger())

	assert.NotPanics(t, func() { capturer.Capture(context.Background(), "boom") })
	assert.Empty(t, capturer.LastPath())
	assert.Equal(t, 1, source.calls)
}

func TestScreenshotCapturer_Disabled(t *testing.T) {
	source := &fakeScreenshotter{png: []byte("png")}
	capturer := NewScreenshotCapturer(source, t.TempDir(), false, arbor.NewLogger())

	capturer.Capture(context.Background(), "skip")
	assert.Equal(t, 0, source.calls)
}

func TestSanitizeLabel(t *testing.T) {
	tests := map[string]string{
		"rellenar_nombre_fila_2":      "rellenar_nombre_fila_2",
		"Click Add Record":            "click_add_record",
		"botón cerrar/modal":          "botón_cerrar_modal",
		"  ":                          "capture",
		"verificacion_busqueda_'Ana'": "verificacion_busqueda_ana",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeLabel(in), in)
	}
}
