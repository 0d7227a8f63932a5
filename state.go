package climatehkb

import (
	"github.com/brutella/hap/characteristic"
)

// AccessoryState is every characteristic value the bridge tracks.
// FanActive is always true: the fan surface is permanently present.
type AccessoryState struct {
	TargetHeatingCooling  int     `json:"target_heating_cooling"`
	CurrentHeatingCooling int     `json:"current_heating_cooling"`
	CurrentTemperature    float64 `json:"current_temperature"`
	TargetTemperature     float64 `json:"target_temperature"`
	FanActive             bool    `json:"fan_active"`
	FanSpeed              float64 `json:"fan_speed"`
	FanRunning            bool    `json:"fan_running"`
	EcoOn                 bool    `json:"eco"`
	FanOnlyOn             bool    `json:"fan_only"`
}

const defaultTemperature = 20.0

// DefaultState is what the accessory shows before the first successful poll.
func DefaultState() AccessoryState {
	return AccessoryState{
		TargetHeatingCooling:  characteristic.TargetHeatingCoolingStateOff,
		CurrentHeatingCooling: characteristic.CurrentHeatingCoolingStateOff,
		CurrentTemperature:    defaultTemperature,
		TargetTemperature:     defaultTemperature,
		FanActive:             true,
		FanSpeed:              speedAuto,
	}
}
