package hass

// State is the body of GET /api/states/{entity_id} for a climate entity.
// Attributes the hub leaves out, or sends as null, decode as nil.
type State struct {
	State      string     `json:"state"`
	Attributes Attributes `json:"attributes"`
}

type Attributes struct {
	CurrentTemperature *float64 `json:"current_temperature"`
	Temperature        *float64 `json:"temperature"`
	FanMode            *string  `json:"fan_mode"`
	PresetMode         *string  `json:"preset_mode"`
	HVACAction         *string  `json:"hvac_action"`
}

// Str dereferences an optional string attribute, "" when unset.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
