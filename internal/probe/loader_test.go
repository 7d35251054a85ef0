package probe

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnnrunner/internal/backend"
)

func newTestLoader(dirs []string, open func(string) error) *NativeLoader {
	l := NewNativeLoader(dirs...)
	l.open = open
	return l
}

func TestNativeLoaderPrefersBundledDir(t *testing.T) {
	dir := t.TempDir()
	bundled := filepath.Join(dir, LibraryFile("MNN_CL"))
	require.NoError(t, os.WriteFile(bundled, nil, 0o644))

	var opened []string
	l := newTestLoader([]string{dir}, func(p string) error {
		opened = append(opened, p)
		return nil
	})
	src, ok := l.TryLoad("MNN_CL")
	require.True(t, ok)
	assert.Equal(t, SourceBundled, src)
	assert.Equal(t, []string{bundled}, opened)
}

func TestNativeLoaderFallsBackToSystem(t *testing.T) {
	l := newTestLoader([]string{t.TempDir()}, func(p string) error {
		if p == LibraryFile("vulkan") {
			return nil
		}
		return errors.New("not found")
	})
	src, ok := l.TryLoad("vulkan")
	require.True(t, ok)
	assert.Equal(t, SourceSystem, src)

	_, ok = l.TryLoad("MNN_Vulkan")
	assert.False(t, ok)
}

func TestNativeLoaderMemoizesSuccessRetriesFailure(t *testing.T) {
	var calls atomic.Int32
	fail := atomic.Bool{}
	fail.Store(true)
	l := newTestLoader(nil, func(string) error {
		calls.Add(1)
		if fail.Load() {
			return errors.New("missing")
		}
		return nil
	})

	_, ok := l.TryLoad("MNN_GL")
	assert.False(t, ok)
	_, ok = l.TryLoad("MNN_GL")
	assert.False(t, ok)
	assert.Equal(t, int32(2), calls.Load(), "failed loads are retried")

	fail.Store(false)
	_, ok = l.TryLoad("MNN_GL")
	assert.True(t, ok)
	_, ok = l.TryLoad("MNN_GL")
	assert.True(t, ok)
	assert.Equal(t, int32(3), calls.Load(), "resident modules are not reopened")
	assert.Equal(t, map[string]string{"MNN_GL": SourceSystem}, l.Resident())
}

func TestNativeLoaderPanicIsFailure(t *testing.T) {
	l := newTestLoader(nil, func(string) error { panic("bad elf") })
	_, ok := l.TryLoad("MNN_CL")
	assert.False(t, ok)
}

func TestNativeLoaderConcurrentSameModule(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	l := newTestLoader(nil, func(string) error {
		calls.Add(1)
		<-release
		return nil
	})

	const n = 16
	var wg sync.WaitGroup
	results := make([]bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = l.TryLoad("MNN_Vulkan")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, ok := range results {
		assert.True(t, ok)
	}
	assert.LessOrEqual(t, calls.Load(), int32(n))
	assert.Contains(t, l.Resident(), "MNN_Vulkan")
}

func TestProberEnsureLoadsPlugins(t *testing.T) {
	var loaded []string
	var mu sync.Mutex
	l := newTestLoader(nil, func(p string) error {
		mu.Lock()
		loaded = append(loaded, p)
		mu.Unlock()
		return nil
	})
	p := New(l, Modules{})
	p.Ensure(backend.OpenGL, backend.CPU, backend.OpenCL)
	assert.ElementsMatch(t, []string{LibraryFile("MNN_GL"), LibraryFile("MNN_CL")}, loaded)
}
