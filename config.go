package climatehkb

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/brutella/hap/log"
	"github.com/spf13/viper"
)

const (
	defaultName         = "Air Conditioner"
	defaultPollInterval = 5000 // ms
	defaultPin          = "03145154"
	defaultPort         = 51826
)

// Config is the add-on options file. Any key can be overridden from the
// environment as CLIMATEHKB_<KEY>, e.g. CLIMATEHKB_HA_URL.
type Config struct {
	HAURL   string `mapstructure:"ha_url"`        // Home Assistant base URL (required)
	Token   string `mapstructure:"token"`         // long-lived access token
	Climate string `mapstructure:"climate"`       // entity id, climate.living_room (required)
	Name    string `mapstructure:"name"`          // HomeKit display name
	Poll    int    `mapstructure:"poll_interval"` // ms between polls
	Pin     string `mapstructure:"pin"`           // HomeKit setup code
	Port    int    `mapstructure:"port"`          // HAP port
	Timeout int    `mapstructure:"timeout"`       // seconds per hub request, 0 for none
	Listen  string `mapstructure:"listen"`        // status endpoint ip:port, "" disables
}

func LoadConfig(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("json")

	v.SetDefault("ha_url", "")
	v.SetDefault("token", "")
	v.SetDefault("climate", "")
	v.SetDefault("name", defaultName)
	v.SetDefault("poll_interval", defaultPollInterval)
	v.SetDefault("pin", defaultPin)
	v.SetDefault("port", defaultPort)
	v.SetDefault("timeout", 0)
	v.SetDefault("listen", "")

	v.SetEnvPrefix("climatehkb")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", filename, err)
		}
		log.Info.Printf("unable to open config %s: using defaults and environment", filename)
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", filename, err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	log.Info.Printf("using config: %s", conf)

	return &conf, nil
}

func (c *Config) validate() error {
	if c.HAURL == "" {
		return errors.New("config: ha_url is required")
	}
	if c.Climate == "" {
		return errors.New("config: climate entity is required")
	}
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Poll <= 0 {
		c.Poll = defaultPollInterval
	}
	// accept the printed 031-45-154 form
	c.Pin = strings.ReplaceAll(c.Pin, "-", "")
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll) * time.Millisecond
}

func (c *Config) HubTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Addr is the HAP listen address.
func (c *Config) Addr() string {
	if c.Port == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", c.Port)
}

// String leaves the token out.
func (c Config) String() string {
	return fmt.Sprintf("{HAURL:%s Climate:%s Name:%q Poll:%dms Port:%d Timeout:%ds Listen:%q}",
		c.HAURL, c.Climate, c.Name, c.Poll, c.Port, c.Timeout, c.Listen)
}
