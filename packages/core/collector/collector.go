// Package collector aggregates run envelopes into per-attempt test case
// data that formatters can query while or after a run executes.
package collector

import (
	"sync"
	"time"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
)

// TestCaseAttempt is one execution of a test case
type TestCaseAttempt struct {
	ID            string
	Attempt       int
	Pickle        *events.Pickle
	TestCase      *events.TestCase
	StepResults   map[string]events.TestStepResult
	Attachments   map[string][]*events.Attachment
	WillBeRetried bool
	Finished      bool
	Started       time.Time
	Ended         time.Time
}

// WorstResult returns the most severe step result of the attempt, summing
// the durations of all steps.
func (a *TestCaseAttempt) WorstResult() events.TestStepResult {
	worst := events.TestStepResult{Status: events.StatusUnknown}
	var total time.Duration
	for _, step := range a.TestCase.TestSteps {
		r, ok := a.StepResults[step.ID]
		if !ok {
			continue
		}
		total += r.Duration.Std()
		if r.Status.Severity() > worst.Status.Severity() {
			worst = r
		}
	}
	worst.Duration = events.NewDuration(total)
	return worst
}

// RunResult summarizes the run once testRunFinished arrived
type RunResult struct {
	Finished bool
	Success  bool
	Started  time.Time
	Ended    time.Time
}

// Duration returns the wall-clock duration of the run
func (r RunResult) Duration() time.Duration {
	if r.Started.IsZero() || r.Ended.IsZero() {
		return 0
	}
	return r.Ended.Sub(r.Started)
}

// Collector records envelopes published on a bus
type Collector struct {
	mu              sync.RWMutex
	pickles         map[string]*events.Pickle
	testCases       map[string]*events.TestCase
	stepDefinitions map[string]*events.StepDefinition
	attempts        map[string]*TestCaseAttempt
	order           []string
	result          RunResult
	unsubscribe     func()
}

// New creates a collector subscribed to bus
func New(bus events.Bus) *Collector {
	c := &Collector{
		pickles:         make(map[string]*events.Pickle),
		testCases:       make(map[string]*events.TestCase),
		stepDefinitions: make(map[string]*events.StepDefinition),
		attempts:        make(map[string]*TestCaseAttempt),
	}
	if bus != nil {
		c.unsubscribe = bus.Subscribe(c.Record)
	}
	return c
}

// Close stops listening to the bus
func (c *Collector) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Record processes a single envelope
func (c *Collector) Record(env *events.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case env.Pickle != nil:
		c.pickles[env.Pickle.ID] = env.Pickle
	case env.StepDefinition != nil:
		c.stepDefinitions[env.StepDefinition.ID] = env.StepDefinition
	case env.TestCase != nil:
		c.testCases[env.TestCase.ID] = env.TestCase
	case env.TestRunStarted != nil:
		c.result.Started = env.TestRunStarted.Timestamp.Time()
	case env.TestCaseStarted != nil:
		c.startAttempt(env.TestCaseStarted)
	case env.TestStepFinished != nil:
		if a, ok := c.attempts[env.TestStepFinished.TestCaseStartedID]; ok {
			a.StepResults[env.TestStepFinished.TestStepID] = env.TestStepFinished.Result
		}
	case env.Attachment != nil:
		if a, ok := c.attempts[env.Attachment.TestCaseStartedID]; ok {
			stepID := env.Attachment.TestStepID
			a.Attachments[stepID] = append(a.Attachments[stepID], env.Attachment)
		}
	case env.TestCaseFinished != nil:
		if a, ok := c.attempts[env.TestCaseFinished.TestCaseStartedID]; ok {
			a.Finished = true
			a.WillBeRetried = env.TestCaseFinished.WillBeRetried
			a.Ended = env.TestCaseFinished.Timestamp.Time()
		}
	case env.TestRunFinished != nil:
		c.result.Finished = true
		c.result.Success = env.TestRunFinished.Success
		c.result.Ended = env.TestRunFinished.Timestamp.Time()
	}
}

func (c *Collector) startAttempt(started *events.TestCaseStarted) {
	tc := c.testCases[started.TestCaseID]
	if tc == nil {
		tc = &events.TestCase{ID: started.TestCaseID}
	}
	pickle := c.pickles[tc.PickleID]
	if pickle == nil {
		pickle = &events.Pickle{ID: tc.PickleID}
	}
	c.attempts[started.ID] = &TestCaseAttempt{
		ID:          started.ID,
		Attempt:     started.Attempt,
		Pickle:      pickle,
		TestCase:    tc,
		StepResults: make(map[string]events.TestStepResult),
		Attachments: make(map[string][]*events.Attachment),
		Started:     started.Timestamp.Time(),
	}
	c.order = append(c.order, started.ID)
}

// TestCaseAttempt returns the attempt started with the given id
func (c *Collector) TestCaseAttempt(testCaseStartedID string) (*TestCaseAttempt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.attempts[testCaseStartedID]
	return a, ok
}

// TestCaseAttempts returns all attempts in the order they started
func (c *Collector) TestCaseAttempts() []*TestCaseAttempt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*TestCaseAttempt, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.attempts[id])
	}
	return out
}

// Pickle returns the pickle with the given id
func (c *Collector) Pickle(id string) (*events.Pickle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pickles[id]
	return p, ok
}

// StepDefinition returns the step definition with the given id
func (c *Collector) StepDefinition(id string) (*events.StepDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sd, ok := c.stepDefinitions[id]
	return sd, ok
}

// Result returns the run summary seen so far
func (c *Collector) Result() RunResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}
