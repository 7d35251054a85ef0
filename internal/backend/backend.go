// Package backend defines the closed set of compute backends and the run
// mode enums accepted by the runner. Values are parsed once at the request
// boundary and are never re-read from strings afterwards.
package backend

import (
	"fmt"
	"strings"
)

// Kind is a compute backend. CPU is always runnable.
type Kind string

const (
	CPU    Kind = "CPU"
	Vulkan Kind = "VULKAN"
	OpenCL Kind = "OPENCL"
	OpenGL Kind = "OPENGL"
)

// Kinds lists every supported backend in probe order.
var Kinds = []Kind{CPU, Vulkan, OpenCL, OpenGL}

var kindAliases = map[string]Kind{
	"CPU":        CPU,
	"VULKAN":     Vulkan,
	"OPENCL":     OpenCL,
	"OPENGL":     OpenGL,
	"OPENGL_ES":  OpenGL,
	"OPENGL_ES3": OpenGL,
}

// Parse maps a backend name to a Kind. Matching is case-insensitive and
// ignores surrounding whitespace. A blank name yields def.
func Parse(name string, def Kind) (Kind, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return def, nil
	}
	if k, ok := kindAliases[n]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown backend %q (expected CPU, VULKAN, OPENCL or OPENGL)", name)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case CPU, Vulkan, OpenCL, OpenGL:
		return true
	}
	return false
}

// GPU reports whether k needs an optional native plugin.
func (k Kind) GPU() bool { return k != CPU && k.Valid() }

// Cacheable reports whether k compiles kernels that can be persisted.
func (k Kind) Cacheable() bool { return k == Vulkan || k == OpenCL }

func (k Kind) String() string { return string(k) }
