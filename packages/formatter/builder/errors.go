package builder

import (
	"errors"
	"fmt"
)

// ErrNoExportedFunction is matched by every ExportError
var ErrNoExportedFunction = errors.New("module does not export a function")

// ExportKind names what a module was loaded for
type ExportKind string

const (
	KindFormatter     ExportKind = "formatter"
	KindSnippetSyntax ExportKind = "snippet syntax"
)

// ExportError reports a module that loaded but exposes no usable constructor
type ExportError struct {
	Kind      ExportKind
	Specifier string
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("Custom %s (%s) does not export a function", e.Kind, e.Specifier)
}

func (e *ExportError) Is(target error) bool {
	return target == ErrNoExportedFunction
}
