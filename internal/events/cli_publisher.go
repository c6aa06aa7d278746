package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Formatter renders a notification line. The default prints
// "[level] message".
type Formatter func(level Level, msg string) string

// CLIPublisher writes notifications for published events to an io.Writer
// (typically stderr) and fans events out to an inner publisher.
type CLIPublisher struct {
	inner    Publisher
	out      io.Writer
	mu       sync.Mutex
	format   Formatter
	jsonMode bool
	types    []EventType
}

// CLIPublisherOption configures a CLIPublisher.
type CLIPublisherOption func(*CLIPublisher)

// WithInnerPublisher sets an inner publisher to fan out events to.
func WithInnerPublisher(p Publisher) CLIPublisherOption {
	return func(c *CLIPublisher) {
		c.inner = p
	}
}

// WithFormatter sets how notification lines are rendered.
func WithFormatter(f Formatter) CLIPublisherOption {
	return func(c *CLIPublisher) {
		c.format = f
	}
}

// WithJSONLines writes each event as one JSON object per line instead of a
// notification.
func WithJSONLines(enabled bool) CLIPublisherOption {
	return func(c *CLIPublisher) {
		c.jsonMode = enabled
	}
}

// WithOnly restricts output to the given event types. Fan-out is unaffected.
func WithOnly(types ...EventType) CLIPublisherOption {
	return func(c *CLIPublisher) {
		c.types = types
	}
}

// NewCLIPublisher creates a publisher that writes events to the given writer.
func NewCLIPublisher(out io.Writer, opts ...CLIPublisherOption) *CLIPublisher {
	p := &CLIPublisher{
		out: out,
		format: func(level Level, msg string) string {
			return fmt.Sprintf("[%s] %s", level, msg)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes the event's notification and fans out to the inner
// publisher.
func (p *CLIPublisher) Publish(event Event) {
	if p.inner != nil {
		p.inner.Publish(event)
	}

	if len(p.types) > 0 && !(subscription{types: p.types}).wants(event.Type) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.jsonMode {
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintln(p.out, string(data))
		return
	}

	level, msg, ok := event.Notification()
	if !ok {
		return
	}
	fmt.Fprintln(p.out, p.format(level, msg))
}

// Subscribe delegates to inner publisher or returns closed channel.
func (p *CLIPublisher) Subscribe(taskID string, types ...EventType) <-chan Event {
	if p.inner != nil {
		return p.inner.Subscribe(taskID, types...)
	}
	ch := make(chan Event)
	close(ch)
	return ch
}

// Unsubscribe delegates to inner publisher.
func (p *CLIPublisher) Unsubscribe(taskID string, ch <-chan Event) {
	if p.inner != nil {
		p.inner.Unsubscribe(taskID, ch)
	}
}

// Close delegates to inner publisher.
func (p *CLIPublisher) Close() {
	if p.inner != nil {
		p.inner.Close()
	}
}
