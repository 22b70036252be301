package formatter

import (
	"fmt"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/fatih/color"
)

// StyleFunc styles a piece of text
type StyleFunc func(s string) string

// ColorFns are the styling functions formatters render with
type ColorFns struct {
	status      map[events.Status]StyleFunc
	Location    StyleFunc
	Tag         StyleFunc
	DiffAdded   StyleFunc
	DiffRemoved StyleFunc
	ErrorStack  StyleFunc
	Bold        StyleFunc
}

// ForStatus returns the style for a step status
func (c ColorFns) ForStatus(s events.Status) StyleFunc {
	if fn, ok := c.status[s]; ok {
		return fn
	}
	return plain
}

func plain(s string) string { return s }

// GetColorFns derives the styling functions from the enablement flag. Each
// call builds its own color instances, so concurrent builds with different
// settings never share state.
func GetColorFns(enabled bool) ColorFns {
	style := func(attrs ...color.Attribute) StyleFunc {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return func(s string) string {
			return c.Sprint(s)
		}
	}

	return ColorFns{
		status: map[events.Status]StyleFunc{
			events.StatusAmbiguous: style(color.FgRed),
			events.StatusFailed:    style(color.FgRed),
			events.StatusPassed:    style(color.FgGreen),
			events.StatusPending:   style(color.FgYellow),
			events.StatusSkipped:   style(color.FgCyan),
			events.StatusUndefined: style(color.FgYellow),
			events.StatusUnknown:   style(color.FgWhite),
		},
		Location:    style(color.FgHiBlack),
		Tag:         style(color.FgCyan),
		DiffAdded:   style(color.FgGreen),
		DiffRemoved: style(color.FgRed),
		ErrorStack:  style(color.FgHiBlack),
		Bold:        style(color.Bold),
	}
}

// Sprintf is a convenience for styling formatted text
func (f StyleFunc) Sprintf(format string, args ...any) string {
	return f(fmt.Sprintf(format, args...))
}
