package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToTopicSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TopicRentCreated, func(e Event) {
		got = append(got, e)
	})

	bus.Publish(Event{Topic: TopicRentCreated, Entity: "rent", EntityID: 42})
	bus.Publish(Event{Topic: TopicRentDeleted, Entity: "rent", EntityID: 42})

	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].EntityID)
	assert.False(t, got[0].At.IsZero())
}

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.SubscribeAll(func(Event) { count++ })

	bus.Publish(Event{Topic: TopicRentCreated})
	bus.Publish(Event{Topic: TopicUnitUpdated})
	bus.Publish(Event{Topic: TopicPaymentDeleted})

	assert.Equal(t, 3, count)
}

func TestBusMultipleSubscribersSameTopic(t *testing.T) {
	bus := NewBus()

	first, second := 0, 0
	bus.Subscribe(TopicUnitCreated, func(Event) { first++ })
	bus.Subscribe(TopicUnitCreated, func(Event) { second++ })

	bus.Publish(Event{Topic: TopicUnitCreated})

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestBusSurvivesPanickingSubscriber(t *testing.T) {
	bus := NewBus()

	delivered := false
	bus.Subscribe(TopicRentUpdated, func(Event) { panic("boom") })
	bus.Subscribe(TopicRentUpdated, func(Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(Event{Topic: TopicRentUpdated})
	})
	assert.True(t, delivered)
}

func TestBusNoSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Topic: TopicPaymentCreated})
	})
}
