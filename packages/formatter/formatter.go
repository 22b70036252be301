package formatter

import (
	"errors"
	"io"
	"sync"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/collector"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/support"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/snippet"
)

// ProtocolVersion is the plugin contract version this package implements.
// External formatters built against another version are rejected.
const ProtocolVersion = 1

// Formatter renders a run. Formatters subscribe to the event broadcaster
// when constructed; Finished is called once the run is over.
type Formatter interface {
	Finished() error
}

// Constructor builds a formatter from its dependencies. Custom formatter
// plugins export a function of this shape.
type Constructor func(opts Options) (Formatter, error)

// LogFunc writes diagnostic text for the user
type LogFunc func(s string)

// CleanupFunc releases resources held for the formatter's stream
type CleanupFunc func() error

// RerunOptions configures the rerun formatter
type RerunOptions struct {
	Separator string `json:"separator,omitempty"`
}

// FormatOptions are the user-facing formatter settings
type FormatOptions struct {
	ColorsEnabled    bool              `json:"colorsEnabled"`
	SnippetInterface snippet.Interface `json:"snippetInterface,omitempty"`
	SnippetSyntax    string            `json:"snippetSyntax,omitempty"`
	Rerun            RerunOptions      `json:"rerun,omitempty"`
	PrintAttachments *bool             `json:"printAttachments,omitempty"`
}

// GetPrintAttachments returns whether attachments are printed, defaulting to true
func (o FormatOptions) GetPrintAttachments() bool {
	if o.PrintAttachments == nil {
		return true
	}
	return *o.PrintAttachments
}

// BuildOptions is everything the caller supplies to build a formatter
type BuildOptions struct {
	Cwd                string
	EventBroadcaster   events.Bus
	EventDataCollector *collector.Collector
	Log                LogFunc
	ParsedOptions      FormatOptions
	Stream             io.Writer
	Cleanup            CleanupFunc
	SupportCodeLibrary *support.Library
}

// Options is the dependency set handed to a Constructor: the caller's
// BuildOptions plus what the builder derives from them.
type Options struct {
	BuildOptions
	ColorFns       ColorFns
	SnippetBuilder *snippet.Builder
}

// Base carries the shared dependencies of the built-in formatters
type Base struct {
	Options

	mu            sync.Mutex
	unsubscribe   func()
	ownsCollector bool
	finished      bool
	writeErr      error
}

// NewBase copies opts into a Base, filling in no-op collaborators
func NewBase(opts Options) *Base {
	if opts.Stream == nil {
		opts.Stream = io.Discard
	}
	if opts.Log == nil {
		opts.Log = func(string) {}
	}
	owns := false
	if opts.EventDataCollector == nil {
		opts.EventDataCollector = collector.New(opts.EventBroadcaster)
		owns = true
	}
	if opts.SupportCodeLibrary == nil {
		opts.SupportCodeLibrary = support.NewLibrary()
	}
	if opts.ColorFns.Location == nil {
		opts.ColorFns = GetColorFns(opts.ParsedOptions.ColorsEnabled)
	}
	return &Base{Options: opts, ownsCollector: owns}
}

// Listen subscribes h to the broadcaster until Finished
func (b *Base) Listen(h events.Handler) {
	if b.EventBroadcaster == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubscribe = b.EventBroadcaster.Subscribe(h)
}

// Write sends s to the stream, keeping the first write error for Finished
func (b *Base) Write(s string) {
	if _, err := io.WriteString(b.Stream, s); err != nil {
		b.Fail(err)
	}
}

// Fail records err to be reported by Finished
func (b *Base) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writeErr == nil {
		b.writeErr = err
	}
}

// Finished unsubscribes and runs the cleanup callback once. A collector
// created by NewBase is closed as well. It reports the first write error
// together with any cleanup error.
func (b *Base) Finished() error {
	b.mu.Lock()
	if b.finished {
		b.mu.Unlock()
		return nil
	}
	b.finished = true
	unsubscribe := b.unsubscribe
	writeErr := b.writeErr
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if b.ownsCollector {
		b.EventDataCollector.Close()
	}
	var cleanupErr error
	if b.Cleanup != nil {
		cleanupErr = b.Cleanup()
	}
	return errors.Join(writeErr, cleanupErr)
}
