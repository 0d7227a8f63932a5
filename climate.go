package climatehkb

import (
	"sync"

	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/log"
	"github.com/brutella/hap/service"
)

// Climate is the HomeKit face of the climate entity: a thermostat, a fan that
// is always active and two switches for the eco preset and fan-only mode.
type Climate struct {
	*accessory.A

	Thermostat *service.Thermostat
	Fan        *climateFan
	Eco        *climateSwitch
	FanOnly    *climateSwitch

	mu    sync.Mutex
	state AccessoryState
}

func NewClimate(info accessory.Info) *Climate {
	c := Climate{}
	c.A = accessory.New(info, accessory.TypeThermostat)

	c.Thermostat = service.NewThermostat()
	c.Thermostat.TargetTemperature.SetMinValue(7)
	c.Thermostat.TargetTemperature.SetMaxValue(35)
	c.Thermostat.TargetTemperature.SetStepValue(0.5)
	c.Thermostat.CurrentTemperature.SetMinValue(-20)
	c.Thermostat.Primary = true
	c.AddS(c.Thermostat.S)

	c.Fan = newClimateFan("Fan Speed")
	c.AddS(c.Fan.S)

	c.Eco = newClimateSwitch("Eco Mode")
	c.AddS(c.Eco.S)

	c.FanOnly = newClimateSwitch("Fan Only")
	c.AddS(c.FanOnly.S)

	c.Apply(DefaultState())
	return &c
}

// OnCommand routes every user-settable characteristic to dispatch.
// dispatch must not block; HomeKit is waiting on the response.
func (c *Climate) OnCommand(dispatch func(cmd Command, v any)) {
	c.Thermostat.TargetTemperature.OnValueRemoteUpdate(func(v float64) {
		log.Info.Printf("HC requested target temperature %.1f", v)
		dispatch(SetTargetTemperature, v)
	})

	c.Thermostat.TargetHeatingCoolingState.OnValueRemoteUpdate(func(v int) {
		log.Info.Printf("HC requested heating/cooling state %d", v)
		dispatch(SetHeatingCoolingState, v)
	})

	c.Fan.RotationSpeed.OnValueRemoteUpdate(func(v float64) {
		log.Info.Printf("HC requested rotation speed %.0f", v)
		dispatch(SetRotationSpeed, v)
	})

	c.Eco.On.OnValueRemoteUpdate(func(on bool) {
		log.Info.Printf("HC requested eco %t", on)
		dispatch(SetEco, on)
	})

	c.FanOnly.On.OnValueRemoteUpdate(func(on bool) {
		log.Info.Printf("HC requested fan only %t", on)
		dispatch(SetFanOnly, on)
	})

	// the fan cannot be switched off
	c.Fan.Active.OnValueRemoteUpdate(func(v int) {
		log.Debug.Printf("ignoring fan active %d", v)
		if v != characteristic.ActiveActive {
			c.Fan.Active.SetValue(characteristic.ActiveActive)
		}
	})
}

// Apply overwrites every tracked characteristic with s. Values outside a
// characteristic's range are clamped and recorded as clamped.
func (c *Climate) Apply(s AccessoryState) {
	s.FanActive = true

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Thermostat.CurrentTemperature.SetValue(s.CurrentTemperature)
	c.Thermostat.TargetTemperature.SetValue(s.TargetTemperature)
	c.Thermostat.TargetHeatingCoolingState.SetValue(s.TargetHeatingCooling)
	c.Thermostat.CurrentHeatingCoolingState.SetValue(s.CurrentHeatingCooling)

	c.Fan.Active.SetValue(characteristic.ActiveActive)
	c.Fan.TargetState.SetValue(characteristic.TargetFanStateManual)
	fanState := characteristic.CurrentFanStateIdle
	if s.FanRunning {
		fanState = characteristic.CurrentFanStateBlowingAir
	}
	c.Fan.CurrentState.SetValue(fanState)
	c.Fan.RotationSpeed.SetValue(s.FanSpeed)

	s.CurrentTemperature = c.Thermostat.CurrentTemperature.Value()
	s.TargetTemperature = c.Thermostat.TargetTemperature.Value()
	s.FanSpeed = c.Fan.RotationSpeed.Value()

	c.Eco.On.SetValue(s.EcoOn)
	c.FanOnly.On.SetValue(s.FanOnlyOn)

	c.state = s
}

// State returns the last applied state.
func (c *Climate) State() AccessoryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
