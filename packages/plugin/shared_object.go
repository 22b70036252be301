package plugin

import (
	"context"
	"fmt"
	goplugin "plugin"
	"strings"
)

const (
	// ExportSymbol is the symbol a shared object plugin exports its module value under
	ExportSymbol = "Export"
	// VersionSymbol optionally carries the protocol version the plugin was built for
	VersionSymbol = "ProtocolVersion"
)

// SharedObjects imports Go plugins (-buildmode=plugin) addressed by file URL
// or absolute path. The Go runtime caches opened plugins per path.
type SharedObjects struct {
	// Version is compared with the plugin's ProtocolVersion symbol when present
	Version int
}

func (s SharedObjects) Import(_ context.Context, ref string) (any, error) {
	path, ok := PathFromRef(ref)
	if !ok || !strings.HasSuffix(path, ".so") {
		return nil, fmt.Errorf("%s is not a shared object: %w", ref, ErrUnsupported)
	}

	p, err := goplugin.Open(path)
	if err != nil {
		return nil, err
	}

	if s.Version > 0 {
		if sym, err := p.Lookup(VersionSymbol); err == nil {
			if v, ok := sym.(*int); ok && *v != s.Version {
				return nil, fmt.Errorf("plugin %s was built for protocol version %d, host speaks %d", path, *v, s.Version)
			}
		}
	}

	sym, err := p.Lookup(ExportSymbol)
	if err != nil {
		// the module loaded but exports nothing under the well-known name
		return nil, nil
	}
	return sym, nil
}
