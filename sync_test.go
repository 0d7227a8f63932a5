package climatehkb

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestClimate() *Climate {
	return NewClimate(accessory.Info{Name: "Office AC", SerialNumber: SerialNumber(testEntity)})
}

func TestPoller_Sync(t *testing.T) {
	hub := new(MockHub)
	hub.On("State", mock.Anything, testEntity).Return(coolSnapshot(), nil)

	c := newTestClimate()
	p := NewPoller(hub, testEntity, c, time.Hour)
	require.NoError(t, p.Sync(context.Background()))

	assert.Equal(t, AccessoryState{
		TargetHeatingCooling:  characteristic.TargetHeatingCoolingStateCool,
		CurrentHeatingCooling: characteristic.CurrentHeatingCoolingStateCool,
		CurrentTemperature:    24,
		TargetTemperature:     22,
		FanActive:             true,
		FanSpeed:              60,
		FanRunning:            true,
		EcoOn:                 true,
		FanOnlyOn:             false,
	}, c.State())

	assert.Equal(t, characteristic.TargetHeatingCoolingStateCool, c.Thermostat.TargetHeatingCoolingState.Value())
	assert.Equal(t, 24.0, c.Thermostat.CurrentTemperature.Value())
	assert.Equal(t, 22.0, c.Thermostat.TargetTemperature.Value())
	assert.Equal(t, 60.0, c.Fan.RotationSpeed.Value())
	assert.Equal(t, characteristic.CurrentFanStateBlowingAir, c.Fan.CurrentState.Value())
	assert.Equal(t, characteristic.ActiveActive, c.Fan.Active.Value())
	assert.True(t, c.Eco.On.Value())
	assert.False(t, c.FanOnly.On.Value())

	last, err := p.LastSync()
	assert.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestPoller_FailedSyncKeepsState(t *testing.T) {
	hub := new(MockHub)
	hub.On("State", mock.Anything, testEntity).Return(coolSnapshot(), nil).Once()
	hub.On("State", mock.Anything, testEntity).Return(nil, errors.New("dial tcp: connection refused")).Once()

	c := newTestClimate()
	p := NewPoller(hub, testEntity, c, time.Hour)
	require.NoError(t, p.Sync(context.Background()))
	before := c.State()
	firstSync, _ := p.LastSync()

	err := p.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, c.State())
	assert.Equal(t, 60.0, c.Fan.RotationSpeed.Value())
	assert.True(t, c.Eco.On.Value())

	last, lastErr := p.LastSync()
	assert.Equal(t, firstSync, last)
	assert.ErrorContains(t, lastErr, "connection refused")
	hub.AssertExpectations(t)
}

func TestPoller_RunSyncsImmediately(t *testing.T) {
	hub := new(MockHub)
	hub.On("State", mock.Anything, testEntity).Return(coolSnapshot(), nil)

	c := newTestClimate()
	p := NewPoller(hub, testEntity, c, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.State().FanSpeed == 60 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
	p.Wait()
}

func TestPoller_RunKeepsTickingThroughFailures(t *testing.T) {
	var polls atomic.Int32
	hub := new(MockHub)
	hub.On("State", mock.Anything, testEntity).
		Return(nil, errors.New("HA API error: 502")).
		Run(func(mock.Arguments) { polls.Add(1) })

	c := newTestClimate()
	p := NewPoller(hub, testEntity, c, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return polls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
	p.Wait()

	assert.Equal(t, DefaultState(), c.State())
}

func TestPoller_NoPollAfterShutdown(t *testing.T) {
	hub := new(MockHub)
	p := NewPoller(hub, testEntity, newTestClimate(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Trigger(ctx)
	p.Wait()

	hub.AssertNotCalled(t, "State", mock.Anything, mock.Anything)
	last, err := p.LastSync()
	assert.True(t, last.IsZero())
	assert.NoError(t, err)
}

func TestPoller_PanicIsContained(t *testing.T) {
	hub := new(MockHub)
	hub.On("State", mock.Anything, testEntity).
		Return(coolSnapshot(), nil).
		Run(func(mock.Arguments) { panic("boom") })

	p := NewPoller(hub, testEntity, newTestClimate(), time.Hour)
	assert.NotPanics(t, func() {
		p.Trigger(context.Background())
		p.Wait()
	})
}
