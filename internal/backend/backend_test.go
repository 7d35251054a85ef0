package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	cases := map[string]Kind{
		"cpu":        CPU,
		" Vulkan ":   Vulkan,
		"OPENCL":     OpenCL,
		"opengl":     OpenGL,
		"OPENGL_ES3": OpenGL,
		"opengl_es":  OpenGL,
	}
	for in, want := range cases {
		got, err := Parse(in, CPU)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseBlankUsesDefault(t *testing.T) {
	got, err := Parse("  ", CPU)
	require.NoError(t, err)
	assert.Equal(t, CPU, got)
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, in := range []string{"AUTO", "METAL", "CUDA", "NN", "gpu"} {
		_, err := Parse(in, CPU)
		assert.Error(t, err, in)
	}
}

func TestKindPredicates(t *testing.T) {
	assert.False(t, CPU.GPU())
	assert.True(t, OpenGL.GPU())
	assert.True(t, Vulkan.Cacheable())
	assert.True(t, OpenCL.Cacheable())
	assert.False(t, OpenGL.Cacheable())
	assert.False(t, CPU.Cacheable())
	assert.False(t, Kind("METAL").Valid())
}

func TestModeDefaultsAndErrors(t *testing.T) {
	m, err := ParseMemory("")
	require.NoError(t, err)
	assert.Equal(t, MemoryBalanced, m)

	p, err := ParsePrecision("high")
	require.NoError(t, err)
	assert.Equal(t, PrecisionHigh, p)

	pw, err := ParsePower("")
	require.NoError(t, err)
	assert.Equal(t, PowerNormal, pw)

	f, err := ParseFill("uniform")
	require.NoError(t, err)
	assert.Equal(t, FillUniform, f)

	_, err = ParseMemory("HUGE")
	assert.ErrorContains(t, err, "memoryMode")
	_, err = ParseFill("RANDOM")
	assert.ErrorContains(t, err, "inputFill")
}
