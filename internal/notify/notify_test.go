package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct {
	publishErr error
	closeErr   error
	published  []WakeEvent
	closed     bool
}

func (s *stubSink) Publish(_ context.Context, event WakeEvent) error {
	s.published = append(s.published, event)
	return s.publishErr
}

func (s *stubSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestNewWakeEvent(t *testing.T) {
	t.Parallel()

	before := time.Now()
	event := NewWakeEvent("energy", 0.75)
	after := time.Now()

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "energy", event.Detector)
	assert.Equal(t, float32(0.75), event.Confidence)
	assert.False(t, event.Timestamp.Before(before))
	assert.False(t, event.Timestamp.After(after))

	other := NewWakeEvent("energy", 0.75)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestWakeEventJSONShape(t *testing.T) {
	t.Parallel()

	event := NewWakeEvent("energy", 0.5)
	event.ClipPath = "/tmp/clip.wav"

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"id", "timestamp", "detector", "confidence", "clip_path"} {
		assert.Contains(t, fields, key)
	}
}

func TestMultiSinkFanOut(t *testing.T) {
	t.Parallel()

	first := &stubSink{}
	second := &stubSink{}
	sink := NewMultiSink(first, second)

	event := NewWakeEvent("energy", 1)
	require.NoError(t, sink.Publish(context.Background(), event))

	require.Len(t, first.published, 1)
	require.Len(t, second.published, 1)
	assert.Equal(t, event.ID, first.published[0].ID)
}

func TestMultiSinkCollectsErrors(t *testing.T) {
	t.Parallel()

	failure := errors.New("broker unreachable")
	first := &stubSink{publishErr: failure}
	second := &stubSink{}
	sink := NewMultiSink(first, second)

	err := sink.Publish(context.Background(), NewWakeEvent("energy", 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)

	// a failing sink must not stop delivery to the others
	assert.Len(t, second.published, 1)
}

func TestMultiSinkClose(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("close failed")
	first := &stubSink{closeErr: closeErr}
	second := &stubSink{}
	sink := NewMultiSink(first, second)

	err := sink.Close()
	assert.ErrorIs(t, err, closeErr)
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestLogSinkPublish(t *testing.T) {
	t.Parallel()

	sink := NewLogSink()
	assert.NoError(t, sink.Publish(context.Background(), NewWakeEvent("energy", 0.9)))
	assert.NoError(t, sink.Close())
}
