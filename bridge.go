package climatehkb

import (
	"context"
	"runtime/debug"

	"github.com/brutella/hap/accessory"
	"github.com/brutella/hap/log"

	"github.com/cloudkucooland/HomeKitBridges/ClimateHKBridge/hass"
)

const firmware = "0.1.0"

// Hub is the part of the Home Assistant API the bridge uses.
type Hub interface {
	State(ctx context.Context, entityID string) (*hass.State, error)
	CallService(ctx context.Context, domain, service string, data map[string]any) error
}

// Bridge owns everything for one climate entity: the accessory, the poller
// feeding it and the router taking commands from it.
type Bridge struct {
	Config  *Config
	Climate *Climate
	Poller  *Poller
	Router  *Router
}

func New(conf *Config, hub Hub) *Bridge {
	info := accessory.Info{
		Name:         conf.Name,
		SerialNumber: SerialNumber(conf.Climate),
		Manufacturer: "Home Assistant",
		Model:        "Climate Wrapper",
		Firmware:     firmware,
	}

	b := Bridge{Config: conf}
	b.Climate = NewClimate(info)
	b.Router = NewRouter(hub, conf.Climate)
	b.Poller = NewPoller(hub, conf.Climate, b.Climate, conf.PollInterval())
	b.Climate.OnCommand(b.Router.Dispatch)

	log.Info.Printf("bridging %s as %q (%s)", conf.Climate, conf.Name, info.SerialNumber)
	return &b
}

// Run polls until ctx is done, then waits for outstanding polls.
func (b *Bridge) Run(ctx context.Context) {
	b.Poller.Run(ctx)
	b.Poller.Wait()
}

// recoverTo keeps a panic in a background call from taking down the HAP server.
func recoverTo(what string) {
	if r := recover(); r != nil {
		log.Info.Printf("%s: recovered from panic: %v\n%s", what, r, debug.Stack())
	}
}

var _ Hub = (*hass.Client)(nil)
