package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilderBasic(t *testing.T) {
	t.Parallel()

	err := New(NewStd("device open failed")).
		Component("capture").
		Category(CategoryHardwareInit).
		Context("device", "default").
		Build()

	require.NotNil(t, err)
	assert.Equal(t, "device open failed", err.Error())
	assert.Equal(t, "capture", err.GetComponent())
	assert.Equal(t, string(CategoryHardwareInit), err.GetCategory())
	assert.Equal(t, "default", err.GetContext()["device"])
}

func TestErrorBuilderDefaults(t *testing.T) {
	t.Parallel()

	err := New(nil).Build()
	require.NotNil(t, err)
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.NotEmpty(t, err.GetComponent())
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("no frames")
	wrapped := New(fmt.Errorf("read: %w", sentinel)).
		Category(CategoryBuffer).
		Build()

	assert.True(t, Is(wrapped, sentinel))
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	hw := HardwareInitError(NewStd("init failed"), "hw:1,0")
	assert.True(t, IsCategory(hw, CategoryHardwareInit))
	assert.False(t, IsCategory(hw, CategoryBuffer))
	assert.False(t, IsCategory(NewStd("plain"), CategoryHardwareInit))
}

func TestPriorityValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		priority string
		want     string
	}{
		{"valid critical", PriorityCritical, PriorityCritical},
		{"valid low", PriorityLow, PriorityLow},
		{"invalid falls back to medium", "urgent", PriorityMedium},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := New(NewStd("x")).Priority(tt.priority).Build()
			assert.Equal(t, tt.want, err.Priority)
		})
	}
}
