package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0644))
	return fn
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	labels := writeFile(t, dir, "labels", "1 1\n0 0\n")
	p0 := writeFile(t, dir, "p0", "0 0:0.9 1:0.1\n1 0:0.2 1:0.8\n")
	p1 := writeFile(t, dir, "p1", "0 0:0.4 1:0.6\nbroken\n1 0:0.7 1:0.3\n")

	data := &Dataset{}
	require.NoError(t, data.Load(labels, []string{p0, p1}, 0))

	assert.Equal(t, uint32(2), data.ExampleNum)
	assert.Equal(t, uint32(2), data.ClassNum)
	assert.Equal(t, []uint32{0, 1}, data.Labels)
	require.Len(t, data.Predictions, 2)
	assert.Equal(t, []float64{0.9, 0.1, 0.2, 0.8}, data.Predictions[0].RawData())
	assert.Equal(t, []float64{0.4, 0.6, 0.7, 0.3}, data.Predictions[1].RawData())
}

func TestLoadClassNum(t *testing.T) {
	dir := t.TempDir()
	labels := writeFile(t, dir, "labels", "0 1\n")
	p0 := writeFile(t, dir, "p0", "0 1:1\n")

	data := &Dataset{}
	require.NoError(t, data.Load(labels, []string{p0}, 4))
	assert.Equal(t, uint32(4), data.ClassNum)
	assert.Equal(t, []float64{0, 1, 0, 0}, data.Predictions[0].RawData())

	assert.Error(t, (&Dataset{}).Load(labels, []string{p0}, 1))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	labels := writeFile(t, dir, "labels", "0 0\n2 1\n")
	p0 := writeFile(t, dir, "p0", "0 0:1\n")
	assert.Error(t, (&Dataset{}).Load(labels, []string{p0}, 0))

	good := writeFile(t, dir, "good", "0 0\n")
	unknown := writeFile(t, dir, "unknown", "3 0:1\n")
	assert.Error(t, (&Dataset{}).Load(good, []string{unknown}, 0))

	negative := writeFile(t, dir, "negative", "0 0:-0.5\n")
	assert.Error(t, (&Dataset{}).Load(good, []string{negative}, 0))

	assert.Error(t, (&Dataset{}).Load(good, nil, 0))
}
