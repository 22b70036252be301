// Package external runs formatters implemented as standalone executables.
//
// The executable is started once per build with the working directory of
// the build. It receives every envelope of the run as an NDJSON line on
// stdin; whatever it writes to stdout goes to the formatter's stream and
// each stderr line goes to the log sink.
package external

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/abdul-hamid-achik/cukefmt/packages/formatter"
	"github.com/abdul-hamid-achik/cukefmt/packages/plugin"
)

// Importer imports executable files as formatter modules. Shared objects
// are left to the Go plugin importer.
type Importer struct{}

func (Importer) Import(_ context.Context, ref string) (any, error) {
	path, ok := plugin.PathFromRef(ref)
	if !ok || strings.HasSuffix(path, ".so") {
		return nil, fmt.Errorf("%s is not an executable reference: %w", ref, plugin.ErrUnsupported)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !isExecutable(info) {
		// present but nothing to run
		return nil, nil
	}

	return formatter.Constructor(func(opts formatter.Options) (formatter.Formatter, error) {
		return Start(path, opts)
	}), nil
}

func isExecutable(info os.FileInfo) bool {
	if !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
