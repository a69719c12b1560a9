package sstable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobonovski/gomcl/matrix"
)

func TestSerializeSparseGradient(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "grad")

	m := matrix.NewMatrix(3, 2)
	m.Set(0, 1, -1.25)
	m.Set(2, 0, 1.0/3.0)
	require.NoError(t, Serialize(m, fn))

	raw, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "3,2\n0,1,-1.25\n2,0,0.3333333333333333\n", string(raw))

	got, err := Deserialize(fn)
	require.NoError(t, err)
	assert.Equal(t, m.RawData(), got.RawData())
}

func TestDeserializeCorrupted(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("3\n"), 0644))
	_, err := Deserialize(bad)
	assert.Error(t, err)

	outside := filepath.Join(dir, "outside")
	require.NoError(t, os.WriteFile(outside, []byte("2,2\n5,0,1\n"), 0644))
	_, err = Deserialize(outside)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = Deserialize(empty)
	assert.Error(t, err)

	// malformed element lines are skipped
	skip := filepath.Join(dir, "skip")
	require.NoError(t, os.WriteFile(skip, []byte("1,2\nbogus\n0,1,2\n"), 0644))
	m, err := Deserialize(skip)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, m.RawData())
}

func TestVectorRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "weights")

	require.NoError(t, SerializeVector([]float64{0.25, 0, 0.75}, fn))
	v, err := DeserializeVector(fn)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0, 0.75}, v)
}
