package climatehkb

import (
	"github.com/brutella/hap/characteristic"

	"github.com/cloudkucooland/HomeKitBridges/ClimateHKBridge/hass"
)

// Home Assistant climate vocabulary.
const (
	modeOff     = "off"
	modeHeat    = "heat"
	modeCool    = "cool"
	modeAuto    = "auto"
	modeDry     = "dry"
	modeFanOnly = "fan_only"

	fanSilent = "silent"
	fanLow    = "low"
	fanMedium = "medium"
	fanHigh   = "high"
	fanFull   = "full"
	fanAuto   = "auto"

	presetEco  = "eco"
	presetNone = "none"

	speedAuto = 100.0
)

var hvacToHK = map[string]int{
	modeOff:  characteristic.TargetHeatingCoolingStateOff,
	modeHeat: characteristic.TargetHeatingCoolingStateHeat,
	modeCool: characteristic.TargetHeatingCoolingStateCool,
	modeAuto: characteristic.TargetHeatingCoolingStateAuto,
	modeDry:  characteristic.TargetHeatingCoolingStateAuto, // lossy: HomeKit has no dry mode
}

// indexed by TargetHeatingCoolingState
var hkToHVAC = [...]string{modeOff, modeHeat, modeCool, modeAuto}

var fanToSpeed = map[string]float64{
	fanSilent: 15,
	fanLow:    30,
	fanMedium: 45,
	fanHigh:   60,
	fanFull:   75,
	fanAuto:   speedAuto,
}

// fan speed bands, upper bound inclusive, checked in order
var speedBands = []struct {
	max  float64
	mode string
}{
	{16, fanSilent},
	{33, fanLow},
	{50, fanMedium},
	{66, fanHigh},
	{83, fanFull},
}

// HeatingCoolingState maps an HA hvac state onto TargetHeatingCoolingState.
// Unknown states read as off.
func HeatingCoolingState(state string) int {
	if s, ok := hvacToHK[state]; ok {
		return s
	}
	return characteristic.TargetHeatingCoolingStateOff
}

// CurrentHeatingCooling fills CurrentHeatingCoolingState, preferring the
// hvac_action attribute when the entity reports one.
func CurrentHeatingCooling(state, hvacAction string) int {
	switch hvacAction {
	case "heating":
		return characteristic.CurrentHeatingCoolingStateHeat
	case "cooling":
		return characteristic.CurrentHeatingCoolingStateCool
	case "":
	default:
		return characteristic.CurrentHeatingCoolingStateOff
	}

	switch state {
	case modeHeat:
		return characteristic.CurrentHeatingCoolingStateHeat
	case modeCool:
		return characteristic.CurrentHeatingCoolingStateCool
	default:
		return characteristic.CurrentHeatingCoolingStateOff
	}
}

// FanSpeed maps an HA fan mode to a rotation speed; unknown or missing is auto (100).
func FanSpeed(fanMode string) float64 {
	if v, ok := fanToSpeed[fanMode]; ok {
		return v
	}
	return speedAuto
}

// FanRunning reports whether the fan is blowing: anything but off with an auto fan.
func FanRunning(state, fanMode string) bool {
	if fanMode == "" {
		fanMode = fanAuto
	}
	return state != modeOff || fanMode != fanAuto
}

func EcoOn(preset string) bool {
	return preset == presetEco
}

func FanOnlyOn(state string) bool {
	return state == modeFanOnly
}

// Translate turns a hub snapshot into accessory state. Temperatures the hub
// does not report keep their values from prev.
func Translate(s *hass.State, prev AccessoryState) AccessoryState {
	a := s.Attributes
	fanMode := hass.Str(a.FanMode)

	next := AccessoryState{
		TargetHeatingCooling:  HeatingCoolingState(s.State),
		CurrentHeatingCooling: CurrentHeatingCooling(s.State, hass.Str(a.HVACAction)),
		CurrentTemperature:    prev.CurrentTemperature,
		TargetTemperature:     prev.TargetTemperature,
		FanActive:             true,
		FanSpeed:              FanSpeed(fanMode),
		FanRunning:            FanRunning(s.State, fanMode),
		EcoOn:                 EcoOn(hass.Str(a.PresetMode)),
		FanOnlyOn:             FanOnlyOn(s.State),
	}
	if a.CurrentTemperature != nil {
		next.CurrentTemperature = *a.CurrentTemperature
	}
	if a.Temperature != nil {
		next.TargetTemperature = *a.Temperature
	}
	return next
}

// HVACMode maps a TargetHeatingCoolingState index to an HA hvac mode,
// clamping out of range indexes.
func HVACMode(index int) string {
	if index < 0 {
		index = 0
	}
	if index >= len(hkToHVAC) {
		index = len(hkToHVAC) - 1
	}
	return hkToHVAC[index]
}

// FanMode bands a rotation speed into one of six HA fan modes. This is lossy:
// FanSpeed(FanMode(v)) is generally not v.
func FanMode(speed float64) string {
	for _, b := range speedBands {
		if speed <= b.max {
			return b.mode
		}
	}
	return fanAuto
}

func PresetMode(eco bool) string {
	if eco {
		return presetEco
	}
	return presetNone
}

func FanOnlyMode(on bool) string {
	if on {
		return modeFanOnly
	}
	return modeOff
}
