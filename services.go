package climatehkb

import (
	"github.com/brutella/hap/characteristic"
	"github.com/brutella/hap/service"
)

type climateFan struct {
	*service.S

	Active        *characteristic.Active
	CurrentState  *characteristic.CurrentFanState
	TargetState   *characteristic.TargetFanState
	RotationSpeed *characteristic.RotationSpeed
	Name          *characteristic.Name
}

func newClimateFan(name string) *climateFan {
	s := climateFan{}
	s.S = service.New(service.TypeFanV2)

	s.Active = characteristic.NewActive()
	s.Active.SetValue(characteristic.ActiveActive)
	s.AddC(s.Active.C)

	s.CurrentState = characteristic.NewCurrentFanState()
	s.CurrentState.SetValue(characteristic.CurrentFanStateIdle)
	s.AddC(s.CurrentState.C)

	s.TargetState = characteristic.NewTargetFanState()
	s.TargetState.SetValue(characteristic.TargetFanStateManual)
	s.AddC(s.TargetState.C)

	s.RotationSpeed = characteristic.NewRotationSpeed()
	s.RotationSpeed.SetMinValue(0)
	s.RotationSpeed.SetMaxValue(100)
	s.RotationSpeed.SetStepValue(1)
	s.AddC(s.RotationSpeed.C)

	s.Name = characteristic.NewName()
	s.Name.SetValue(name)
	s.AddC(s.Name.C)

	return &s
}

type climateSwitch struct {
	*service.S

	On   *characteristic.On
	Name *characteristic.Name
}

func newClimateSwitch(name string) *climateSwitch {
	s := climateSwitch{}
	s.S = service.New(service.TypeSwitch)

	s.On = characteristic.NewOn()
	s.On.SetValue(false)
	s.AddC(s.On.C)

	s.Name = characteristic.NewName()
	s.Name.SetValue(name)
	s.AddC(s.Name.C)

	return &s
}
