package origin

import (
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
)

// Registry maps a code unit (a package import path) to a plugin identity.
type Registry interface {
	Lookup(unit string) (*logline.Origin, bool)
}

// RegistryFunc adapts an ordinary function to the Registry interface.
type RegistryFunc func(unit string) (*logline.Origin, bool)

// Lookup calls f(unit).
func (f RegistryFunc) Lookup(unit string) (*logline.Origin, bool) {
	return f(unit)
}

// PackageRegistry is a Registry keyed by import path.
// A registered path also covers every package below it.
type PackageRegistry struct {
	// entries maps a registered import path to its identity.
	entries map[string]logline.Origin
	// mu protects entries.
	mu sync.RWMutex
}

// NewPackageRegistry creates an empty registry.
func NewPackageRegistry() *PackageRegistry {
	return &PackageRegistry{
		entries: make(map[string]logline.Origin),
	}
}

// Register attributes pkgPath and its subpackages to the given identity.
// A missing color falls back to logline.DefaultOriginColor.
func (r *PackageRegistry) Register(pkgPath string, identity logline.Origin) {
	if identity.Color == "" {
		identity.Color = logline.DefaultOriginColor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[strings.TrimSuffix(pkgPath, "/")] = identity
}

// Unregister removes a previously registered import path.
func (r *PackageRegistry) Unregister(pkgPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, strings.TrimSuffix(pkgPath, "/"))
}

// Len returns the number of registered paths.
func (r *PackageRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Lookup returns the identity registered for unit or its closest registered parent path.
func (r *PackageRegistry) Lookup(unit string) (*logline.Origin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for path := unit; path != ""; {
		if identity, ok := r.entries[path]; ok {
			return &identity, true
		}

		i := strings.LastIndexByte(path, '/')
		if i < 0 {
			break
		}

		path = path[:i]
	}

	return nil, false
}

// PackagePath extracts the import path from a fully qualified runtime function name,
// e.g. "example.com/mod/pkg.(*T).Method" becomes "example.com/mod/pkg".
func PackagePath(funcName string) string {
	slash := strings.LastIndexByte(funcName, '/')

	dot := strings.IndexByte(funcName[slash+1:], '.')
	if dot < 0 {
		return funcName
	}

	return funcName[:slash+1+dot]
}

// PackagePathOf returns the import path of the package declaring fn.
// It returns an empty string when fn is not a function.
func PackagePathOf(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}

	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}

	return PackagePath(f.Name())
}
