package climatehkb

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cloudkucooland/HomeKitBridges/ClimateHKBridge/hass"
)

type MockHub struct {
	mock.Mock
}

func (m *MockHub) State(ctx context.Context, entityID string) (*hass.State, error) {
	args := m.Called(ctx, entityID)
	s, _ := args.Get(0).(*hass.State)
	return s, args.Error(1)
}

func (m *MockHub) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	args := m.Called(ctx, domain, service, data)
	return args.Error(0)
}

const testEntity = "climate.office"

func coolSnapshot() *hass.State {
	return &hass.State{
		State: "cool",
		Attributes: hass.Attributes{
			CurrentTemperature: fltp(24),
			Temperature:        fltp(22),
			FanMode:            strp("high"),
			PresetMode:         strp("eco"),
		},
	}
}

func testConfig() *Config {
	return &Config{
		HAURL:   "http://hass.local:8123",
		Climate: testEntity,
		Name:    "Office AC",
		Poll:    defaultPollInterval,
		Pin:     defaultPin,
		Port:    defaultPort,
	}
}
