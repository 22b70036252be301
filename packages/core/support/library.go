// Package support holds the user-supplied support code of a run: step
// definitions and the parameter types their expressions use.
package support

import (
	"fmt"
	"sync"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// Library is the support code collected for a run
type Library struct {
	mu              sync.RWMutex
	stepDefinitions []*events.StepDefinition

	ParameterTypes *ParameterTypeRegistry
}

// NewLibrary creates a library with only the built-in parameter types
func NewLibrary() *Library {
	return &Library{ParameterTypes: NewParameterTypeRegistry()}
}

// AddStepDefinition records a step definition
func (l *Library) AddStepDefinition(sd *events.StepDefinition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stepDefinitions = append(l.stepDefinitions, sd)
}

// StepDefinitions returns the step definitions in registration order
func (l *Library) StepDefinitions() []*events.StepDefinition {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*events.StepDefinition(nil), l.stepDefinitions...)
}

// FromEnvelopes rebuilds a library from the stepDefinition and
// parameterType messages of a recorded run.
func FromEnvelopes(envs []*events.Envelope) (*Library, error) {
	lib := NewLibrary()
	for _, env := range envs {
		switch {
		case env.StepDefinition != nil:
			lib.AddStepDefinition(env.StepDefinition)
		case env.ParameterType != nil:
			msg := env.ParameterType
			pt, err := NewParameterType(msg.Name, msg.RegularExpressions, "", msg.UseForSnippets)
			if err != nil {
				return nil, err
			}
			pt.PreferForRegexpMatch = msg.PreferForRegexpMatch
			if err := lib.ParameterTypes.Define(pt); err != nil {
				return nil, fmt.Errorf("parameter type %q: %w", msg.Name, err)
			}
		}
	}
	return lib, nil
}
