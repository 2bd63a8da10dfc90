package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStos(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "pipe.svg")
	pdfPath := filepath.Join(dir, "pipe.pdf")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"stos", "-d", "100", "-angle", "45", "-svg", svg, "-pdf", pdfPath}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Equal(t, "stos: stos 157.1 x 100.0 mm, 1 page(s) A4 portrait, rotation 0°\n", stdout.String())
	for _, p := range []string{svg, pdfPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestRunKonaAuto(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-log-level", "debug",
		"kona", "-top", "50", "-bottom", "70", "-angle", "30", "-full", "-rot", "auto", "-step", "5",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "(auto)")
	assert.Contains(t, stderr.String(), "rotation optimized")
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ctx := context.Background()
	assert.Error(t, run(ctx, nil, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"cube"}, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"stos", "-d", "-3", "-angle", "45"}, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"kona", "-top", "70", "-bottom", "50", "-angle", "30"}, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"kona", "-top", "50", "-bottom", "70", "-angle", "30", "-strategy", "best"}, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"-log-level", "loud", "stos"}, &stdout, &stderr))
	assert.Error(t, run(ctx, []string{"batch"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	jobs := filepath.Join(dir, "jobs.yaml")
	dxf := filepath.Join(dir, "flashing.dxf")
	require.NoError(t, os.WriteFile(jobs, []byte(`
jobs:
  - name: pipe
    shape: stos
    diameter: 60
    angle: 30
  - name: flashing
    shape: kona
    top: 50
    bottom: 70
    angle: 30
    outputs:
      dxf: `+dxf+`
`), 0o644))
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"batch", jobs}, &stdout, &stderr), stderr.String())
	lines := bytes.Split(bytes.TrimSpace(stdout.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.True(t, bytes.HasPrefix(lines[0], []byte("pipe: stos")))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("flashing: kona")))
	_, err := os.Stat(dxf)
	assert.NoError(t, err)
}
