// Package probe answers "could this backend's native pieces be loaded in this
// process right now?" without creating any backend context. Results are
// computed fresh on every call.
package probe

import (
	"mnnrunner/internal/backend"
)

// Modules names the native modules each optional backend depends on.
type Modules struct {
	VulkanLoader string `json:"vulkan_loader" yaml:"vulkan_loader" toml:"vulkan_loader"`
	VulkanPlugin string `json:"vulkan_plugin" yaml:"vulkan_plugin" toml:"vulkan_plugin"`
	OpenCLPlugin string `json:"opencl_plugin" yaml:"opencl_plugin" toml:"opencl_plugin"`
	OpenGLPlugin string `json:"opengl_plugin" yaml:"opengl_plugin" toml:"opengl_plugin"`
}

// DefaultModules returns the module names shipped with MNN.
func DefaultModules() Modules {
	return Modules{
		VulkanLoader: "vulkan",
		VulkanPlugin: "MNN_Vulkan",
		OpenCLPlugin: "MNN_CL",
		OpenGLPlugin: "MNN_GL",
	}
}

func (m Modules) withDefaults() Modules {
	d := DefaultModules()
	if m.VulkanLoader == "" {
		m.VulkanLoader = d.VulkanLoader
	}
	if m.VulkanPlugin == "" {
		m.VulkanPlugin = d.VulkanPlugin
	}
	if m.OpenCLPlugin == "" {
		m.OpenCLPlugin = d.OpenCLPlugin
	}
	if m.OpenGLPlugin == "" {
		m.OpenGLPlugin = d.OpenGLPlugin
	}
	return m
}

// Plugin returns the plugin module for kind, or "" for CPU.
func (m Modules) Plugin(kind backend.Kind) string {
	switch kind {
	case backend.Vulkan:
		return m.VulkanPlugin
	case backend.OpenCL:
		return m.OpenCLPlugin
	case backend.OpenGL:
		return m.OpenGLPlugin
	}
	return ""
}

// Capability is the probe result for one backend. Source is empty when
// nothing was loaded.
type Capability struct {
	Available     bool
	LoaderPresent bool
	PluginPresent bool
	Source        string
}

// Report is a point-in-time view of every backend.
type Report struct {
	CPU    Capability
	Vulkan Capability
	OpenCL Capability
	OpenGL Capability
}

// Get returns the capability for kind. Unknown kinds are unavailable.
func (r Report) Get(kind backend.Kind) Capability {
	switch kind {
	case backend.CPU:
		return r.CPU
	case backend.Vulkan:
		return r.Vulkan
	case backend.OpenCL:
		return r.OpenCL
	case backend.OpenGL:
		return r.OpenGL
	}
	return Capability{}
}

// Available reports whether kind can run according to r.
func (r Report) Available(kind backend.Kind) bool { return r.Get(kind).Available }

// Prober probes backend capabilities through a Loader.
type Prober struct {
	loader Loader
	mods   Modules
}

// New returns a Prober. Empty module names fall back to DefaultModules.
func New(loader Loader, mods Modules) *Prober {
	if loader == nil {
		loader = Static{}
	}
	return &Prober{loader: loader, mods: mods.withDefaults()}
}

func (p *Prober) Modules() Modules { return p.mods }

// Probe checks every optional backend. Both Vulkan modules are attempted so
// the report shows which half is missing.
func (p *Prober) Probe() Report {
	r := Report{CPU: Capability{Available: true}}

	_, loader := p.tryLoad(p.mods.VulkanLoader)
	vsrc, plugin := p.tryLoad(p.mods.VulkanPlugin)
	r.Vulkan = Capability{
		Available:     loader && plugin,
		LoaderPresent: loader,
		PluginPresent: plugin,
		Source:        vsrc,
	}

	// The vendor OpenCL driver is resolved by the plugin itself.
	csrc, cl := p.tryLoad(p.mods.OpenCLPlugin)
	r.OpenCL = Capability{Available: cl, LoaderPresent: cl, PluginPresent: cl, Source: csrc}

	gsrc, gl := p.tryLoad(p.mods.OpenGLPlugin)
	r.OpenGL = Capability{Available: gl, LoaderPresent: gl, PluginPresent: gl, Source: gsrc}
	return r
}

// VulkanRuntime is the dispatch-time check: both the loader and the plugin
// must load.
func (p *Prober) VulkanRuntime() bool {
	_, loader := p.tryLoad(p.mods.VulkanLoader)
	_, plugin := p.tryLoad(p.mods.VulkanPlugin)
	return loader && plugin
}

// Ensure loads the plugin modules for kinds ahead of a run. Failures are
// ignored; resolution decides what to do with a missing plugin.
func (p *Prober) Ensure(kinds ...backend.Kind) {
	for _, k := range kinds {
		if name := p.mods.Plugin(k); name != "" {
			p.tryLoad(name)
		}
	}
}

func (p *Prober) tryLoad(name string) (src string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			src, ok = "", false
		}
	}()
	src, ok = p.loader.TryLoad(name)
	if !ok {
		src = ""
	}
	return src, ok
}
