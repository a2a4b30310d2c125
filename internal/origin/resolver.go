package origin

import (
	"runtime"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
)

// DefaultMaxDepth bounds how many stack frames a resolution inspects.
const DefaultMaxDepth = 64

// Resolver finds the plugin responsible for the current call.
type Resolver struct {
	// registry answers whether a package belongs to a plugin.
	registry Registry
	// maxDepth is the number of frames inspected per resolution.
	maxDepth int
}

// NewResolver creates a resolver backed by the given registry.
// A nil registry resolves every call as unattributed.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{
		registry: registry,
		maxDepth: DefaultMaxDepth,
	}
}

// Resolve walks the stack outward, starting skip frames above its own caller,
// and returns the identity of the first frame owned by a registered plugin.
// It returns nil when no frame maps to a plugin or the walk fails.
func (r *Resolver) Resolve(skip int) (identity *logline.Origin) {
	if r == nil || r.registry == nil {
		return nil
	}

	defer func() {
		if recover() != nil {
			identity = nil
		}
	}()

	// 0 is runtime.Callers, 1 is Resolve.
	pcs := make([]uintptr, r.maxDepth)

	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()

		if frame.Function != "" {
			if found, ok := r.registry.Lookup(PackagePath(frame.Function)); ok && found != nil {
				return found
			}
		}

		if !more {
			return nil
		}
	}
}
