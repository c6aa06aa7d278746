package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertEmpty(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event %s", ev.Type)
		}
	default:
	}
}

func TestMemoryPublisher_TaskAndGlobalDelivery(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	taskCh := p.Subscribe("t1")
	otherCh := p.Subscribe("t2")
	globalCh := p.Subscribe(GlobalTaskID)

	p.Publish(NewEvent(EventTaskAdded, "t1", TaskData{Text: "Buy milk"}))

	ev := receive(t, taskCh)
	assert.Equal(t, EventTaskAdded, ev.Type)
	assert.Equal(t, "t1", ev.TaskID)

	ev = receive(t, globalCh)
	assert.Equal(t, EventTaskAdded, ev.Type)

	assertEmpty(t, otherCh)
}

func TestMemoryPublisher_CollectionEventsOnlyGlobal(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	taskCh := p.Subscribe("t1")
	globalCh := p.Subscribe(GlobalTaskID)

	p.Publish(NewEvent(EventTasksCleared, "", ClearedData{Removed: 3}))

	ev := receive(t, globalCh)
	assert.Equal(t, ClearedData{Removed: 3}, ev.Data)
	assertEmpty(t, taskCh)
}

func TestMemoryPublisher_TypeFilter(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	ch := p.Subscribe(GlobalTaskID, EventOverdueReminder)

	p.Publish(NewEvent(EventTaskAdded, "t1", nil))
	p.Publish(NewEvent(EventOverdueReminder, "", ReminderData{Count: 1}))

	ev := receive(t, ch)
	assert.Equal(t, EventOverdueReminder, ev.Type)
	assertEmpty(t, ch)
}

func TestMemoryPublisher_FullBufferDoesNotBlock(t *testing.T) {
	p := NewMemoryPublisher(WithBufferSize(1))
	defer p.Close()

	ch := p.Subscribe(GlobalTaskID)
	done := make(chan struct{})
	go func() {
		for range 5 {
			p.Publish(NewEvent(EventTaskUpdated, "t1", nil))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestMemoryPublisher_Unsubscribe(t *testing.T) {
	p := NewMemoryPublisher()
	defer p.Close()

	ch := p.Subscribe("t1")
	require.Equal(t, 1, p.SubscriberCount("t1"))

	p.Unsubscribe("t1", ch)
	assert.Equal(t, 0, p.SubscriberCount("t1"))

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestMemoryPublisher_Close(t *testing.T) {
	p := NewMemoryPublisher()
	ch := p.Subscribe(GlobalTaskID)

	p.Close()
	p.Close()

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing and subscribing after close are harmless.
	p.Publish(NewEvent(EventTaskAdded, "t1", nil))
	late := p.Subscribe("t1")
	_, ok = <-late
	assert.False(t, ok)
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()
	p.Publish(NewEvent(EventTaskAdded, "t1", nil))

	ch := p.Subscribe(GlobalTaskID)
	_, ok := <-ch
	assert.False(t, ok)

	p.Unsubscribe(GlobalTaskID, ch)
	p.Close()
}
