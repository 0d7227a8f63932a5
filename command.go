package climatehkb

import (
	"context"
	"fmt"
	"sync"

	"github.com/brutella/hap/log"
)

const climateDomain = "climate"

// Command identifies a user-settable characteristic.
type Command int

const (
	SetTargetTemperature Command = iota
	SetHeatingCoolingState
	SetRotationSpeed
	SetEco
	SetFanOnly
)

func (c Command) String() string {
	if r, ok := commands[c]; ok {
		return r.name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ServiceCall is one Home Assistant service invocation, minus the entity id.
type ServiceCall struct {
	Service string
	Data    map[string]any
}

type route struct {
	name      string
	translate func(v any) (ServiceCall, error)
}

var commands = map[Command]route{
	SetTargetTemperature: {"target temperature", func(v any) (ServiceCall, error) {
		t, err := asFloat(v)
		if err != nil {
			return ServiceCall{}, err
		}
		return ServiceCall{"set_temperature", map[string]any{"temperature": t}}, nil
	}},
	SetHeatingCoolingState: {"heating/cooling state", func(v any) (ServiceCall, error) {
		i, err := asInt(v)
		if err != nil {
			return ServiceCall{}, err
		}
		return ServiceCall{"set_hvac_mode", map[string]any{"hvac_mode": HVACMode(i)}}, nil
	}},
	SetRotationSpeed: {"rotation speed", func(v any) (ServiceCall, error) {
		f, err := asFloat(v)
		if err != nil {
			return ServiceCall{}, err
		}
		return ServiceCall{"set_fan_mode", map[string]any{"fan_mode": FanMode(f)}}, nil
	}},
	SetEco: {"eco", func(v any) (ServiceCall, error) {
		b, ok := v.(bool)
		if !ok {
			return ServiceCall{}, fmt.Errorf("want bool, got %T", v)
		}
		return ServiceCall{"set_preset_mode", map[string]any{"preset_mode": PresetMode(b)}}, nil
	}},
	SetFanOnly: {"fan only", func(v any) (ServiceCall, error) {
		b, ok := v.(bool)
		if !ok {
			return ServiceCall{}, fmt.Errorf("want bool, got %T", v)
		}
		return ServiceCall{"set_hvac_mode", map[string]any{"hvac_mode": FanOnlyMode(b)}}, nil
	}},
}

// Translate builds the service call for cmd with value v.
func (c Command) Translate(v any) (ServiceCall, error) {
	r, ok := commands[c]
	if !ok {
		return ServiceCall{}, fmt.Errorf("unknown command %d", int(c))
	}
	call, err := r.translate(v)
	if err != nil {
		return ServiceCall{}, fmt.Errorf("%s: %w", r.name, err)
	}
	return call, nil
}

// Router turns HomeKit commands into hub service calls. It keeps no state:
// the accessory shows whatever the last poll said until the next one.
type Router struct {
	hub      Hub
	entityID string
	inflight sync.WaitGroup
}

func NewRouter(hub Hub, entityID string) *Router {
	return &Router{hub: hub, entityID: entityID}
}

// Dispatch starts the hub call for cmd and returns without waiting for it.
// Errors are logged; there is no way to report them back to HomeKit.
func (r *Router) Dispatch(cmd Command, v any) {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		defer recoverTo(fmt.Sprintf("command %s", cmd))

		if err := r.Call(context.Background(), cmd, v); err != nil {
			log.Info.Println(err.Error())
		}
	}()
}

// Call translates cmd and performs the hub call synchronously.
func (r *Router) Call(ctx context.Context, cmd Command, v any) error {
	call, err := cmd.Translate(v)
	if err != nil {
		return err
	}

	data := map[string]any{"entity_id": r.entityID}
	for k, val := range call.Data {
		data[k] = val
	}

	log.Debug.Printf("%s/%s %+v", climateDomain, call.Service, data)
	if err := r.hub.CallService(ctx, climateDomain, call.Service, data); err != nil {
		return fmt.Errorf("%s/%s: %w", climateDomain, call.Service, err)
	}
	return nil
}

// Wait blocks until every dispatched command has finished.
func (r *Router) Wait() {
	r.inflight.Wait()
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("want number, got %T", v)
	}
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("want integer, got %T", v)
	}
}
