package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mnnrunner/internal/backend"
)

type panicLoader struct{}

func (panicLoader) TryLoad(string) (string, bool) { panic("linker exploded") }

func TestProbeNothingLoadable(t *testing.T) {
	r := New(Static{}, Modules{}).Probe()
	assert.True(t, r.CPU.Available)
	assert.False(t, r.Vulkan.Available)
	assert.False(t, r.OpenCL.Available)
	assert.False(t, r.OpenGL.Available)
	assert.Empty(t, r.Vulkan.Source)
}

func TestProbeVulkanNeedsLoaderAndPlugin(t *testing.T) {
	r := New(Static{"MNN_Vulkan": SourceBundled}, Modules{}).Probe()
	assert.False(t, r.Vulkan.Available)
	assert.False(t, r.Vulkan.LoaderPresent)
	assert.True(t, r.Vulkan.PluginPresent)

	r = New(Static{"vulkan": SourceSystem}, Modules{}).Probe()
	assert.False(t, r.Vulkan.Available)
	assert.True(t, r.Vulkan.LoaderPresent)
	assert.False(t, r.Vulkan.PluginPresent)

	r = New(Static{"vulkan": SourceSystem, "MNN_Vulkan": SourceBundled}, Modules{}).Probe()
	assert.True(t, r.Vulkan.Available)
	assert.Equal(t, SourceBundled, r.Vulkan.Source)
}

func TestProbeOpenCLPluginOnly(t *testing.T) {
	r := New(Static{"MNN_CL": SourceBundled}, Modules{}).Probe()
	assert.True(t, r.OpenCL.Available)
	assert.True(t, r.OpenCL.LoaderPresent, "lib mirrors plugin")
	assert.Equal(t, SourceBundled, r.OpenCL.Source)
	assert.True(t, r.Available(backend.OpenCL))
	assert.False(t, r.Available(backend.Vulkan))
}

func TestProbePanicIsUnavailable(t *testing.T) {
	p := New(panicLoader{}, Modules{})
	var r Report
	assert.NotPanics(t, func() { r = p.Probe() })
	assert.True(t, r.CPU.Available)
	assert.False(t, r.Vulkan.Available)
	assert.False(t, r.OpenCL.Available)
	assert.False(t, p.VulkanRuntime())
}

func TestProbeIdempotent(t *testing.T) {
	p := New(Static{"vulkan": SourceSystem, "MNN_Vulkan": SourceBundled, "MNN_GL": SourceSystem}, Modules{})
	first := p.Probe()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, p.Probe())
	}
}

func TestCustomModuleNames(t *testing.T) {
	p := New(Static{"OpenCL_Custom": SourceSystem}, Modules{OpenCLPlugin: "OpenCL_Custom"})
	assert.True(t, p.Probe().OpenCL.Available)
	assert.Equal(t, "vulkan", p.Modules().VulkanLoader)
	assert.Equal(t, "OpenCL_Custom", p.Modules().Plugin(backend.OpenCL))
	assert.Equal(t, "", p.Modules().Plugin(backend.CPU))
}

func TestUnknownKindUnavailable(t *testing.T) {
	var r Report
	assert.False(t, r.Available(backend.Kind("METAL")))
}
