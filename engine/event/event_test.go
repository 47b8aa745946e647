package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/event"
)

func TestEmitDeliversInSubscriptionOrder(t *testing.T) {
	d := event.NewDispatcher()

	var got []string
	d.Subscribe(func(e event.Event) { got = append(got, "first:"+string(e.Type)) })
	d.Subscribe(func(e event.Event) { got = append(got, "second:"+string(e.Type)) })

	d.Emit(event.Event{Type: event.StateAdded})

	assert.Equal(t, []string{"first:state_added", "second:state_added"}, got)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	d := event.NewDispatcher()

	var count int
	id := d.Subscribe(func(event.Event) { count++ })
	require.NotEmpty(t, id)

	d.Emit(event.Event{Type: event.ParameterChanged})
	require.True(t, d.Unsubscribe(id))
	d.Emit(event.Event{Type: event.ParameterChanged})

	assert.Equal(t, 1, count)
	assert.False(t, d.Unsubscribe(id))
	assert.False(t, d.Unsubscribe("bogus"))
}

func TestSubscribeNilListenerRejected(t *testing.T) {
	d := event.NewDispatcher()
	assert.Empty(t, d.Subscribe(nil))
	assert.NotPanics(t, func() { d.Emit(event.Event{Type: event.StateAdded}) })
}

func TestNilDispatcherIsNoOp(t *testing.T) {
	var d *event.Dispatcher
	assert.NotPanics(t, func() { d.Emit(event.Event{Type: event.StateAdded}) })
	assert.Empty(t, d.Subscribe(func(event.Event) {}))
	assert.False(t, d.Unsubscribe("any"))
}

func TestEventPayloadPassesThrough(t *testing.T) {
	d := event.NewDispatcher()

	var got event.Event
	d.Subscribe(func(e event.Event) { got = e })

	d.Emit(event.Event{
		Type:   event.ParameterChanged,
		Source: "legs",
		Name:   "Speed",
		Data:   3.2,
	})

	assert.Equal(t, event.ParameterChanged, got.Type)
	assert.Equal(t, "legs", got.Source)
	assert.Equal(t, "Speed", got.Name)
	assert.Equal(t, 3.2, got.Data)
}
