package guard_test

import (
	"errors"
	"testing"

	"tracking/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	notConstructed := errors.New("order must be created via NewOrder")

	t.Run("constructed guard passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(notConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		assert.Equal(t, notConstructed, g.Validate(notConstructed))
	})

	t.Run("zero value falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard
		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})

	t.Run("copies keep the constructed flag", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		cp := g
		require.NoError(t, cp.Validate(notConstructed))
	})
}

func TestConstructorGuard_EmbeddedInEntity(t *testing.T) {
	type parcel struct {
		guard.ConstructorGuard
		weight int
	}
	errParcel := errors.New("parcel must be created via newParcel")
	newParcel := func(w int) parcel {
		return parcel{ConstructorGuard: guard.NewConstructorGuard(), weight: w}
	}

	p := newParcel(3)
	require.NoError(t, p.Validate(errParcel))
	assert.Equal(t, 3, p.weight)

	var zero parcel
	assert.Equal(t, errParcel, zero.Validate(errParcel))
}

func TestConstructorGuard_Concurrent(t *testing.T) {
	g := guard.NewConstructorGuard()
	done := make(chan struct{})
	for range 20 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				assert.NoError(t, g.Validate(nil))
			}
		}()
	}
	for range 20 {
		<-done
	}
}
