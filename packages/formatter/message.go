package formatter

import (
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// MessageFormatter writes every envelope as a line of NDJSON
type MessageFormatter struct {
	*Base
}

func NewMessageFormatter(opts Options) (Formatter, error) {
	f := &MessageFormatter{Base: NewBase(opts)}
	f.Listen(f.onEnvelope)
	return f, nil
}

func (f *MessageFormatter) onEnvelope(env *events.Envelope) {
	if err := events.Encode(f.Stream, env); err != nil {
		f.Fail(err)
	}
}
