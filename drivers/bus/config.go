package bus

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config configures a Driver's connection to the accessibility bus.
type Config struct {
	// Address is the D-Bus address to dial, e.g. "unix:path=/run/user/1000/at-spi/bus".
	// An empty Address dials the session bus.
	Address string `mapstructure:"address"`

	// Timeout bounds every round trip issued by the driver.
	Timeout time.Duration `mapstructure:"timeout"`

	// DestinationAllowList, when non-empty, restricts which bus names the
	// driver will address a call to; a call to any other destination fails
	// before it is ever sent.
	DestinationAllowList []string `mapstructure:"destination_allow_list"`
}

// DefaultConfig returns a Config with a five-second timeout and no
// destination restriction.
func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second}
}

// DecodeConfig decodes a raw options map (as read from a config file or
// environment-derived map) into a Config.
func DecodeConfig(options map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		TagName:    "mapstructure",
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(options); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) allowed(dest string) bool {
	if len(c.DestinationAllowList) == 0 {
		return true
	}
	for _, d := range c.DestinationAllowList {
		if d == dest {
			return true
		}
	}
	return false
}
