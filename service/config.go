// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package service

import (
	"context"
	"fmt"
	"time"

	"cloudeng.io/cmdutil/cmdyaml"
	"github.com/autohcloud/wtime/dst"
	"github.com/autohcloud/wtime/sensors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDSTRecalcInterval = 5 * time.Minute
	DefaultAutoPurgeInterval = 60 * time.Second
	MinAutoPurgeInterval     = 15 * time.Second
)

// DefaultAutoPurgeEntities are the high churn clock entities whose
// recorded history is purged when auto purge is enabled but no explicit
// entity list is configured.
var DefaultAutoPurgeEntities = []string{
	"sensor.wtime_12hr_clock",
	"sensor.wtime_24hr_clock",
	"sensor.wtime_12hr_clock_with_seconds",
	"sensor.wtime_24hr_clock_with_seconds",
}

func locationFromValue(value string) (*time.Location, error) {
	if len(value) == 0 {
		return time.Now().Location(), nil
	}
	location, err := time.LoadLocation(value)
	if err != nil {
		return nil, err
	}
	return location, nil
}

type TimeZone struct {
	*time.Location
}

func (tz *TimeZone) UnmarshalYAML(node *yaml.Node) error {
	l, err := locationFromValue(node.Value)
	if err != nil {
		return err
	}
	tz.Location = l
	return nil
}

type seasonScheme sensors.Scheme

func (ss *seasonScheme) UnmarshalYAML(node *yaml.Node) error {
	switch node.Value {
	case "", "meteorological":
		*ss = seasonScheme(sensors.Meteorological)
	case "astronomical":
		*ss = seasonScheme(sensors.Astronomical)
	default:
		return fmt.Errorf("unrecognised season scheme: %q", node.Value)
	}
	return nil
}

type LocationConfig struct {
	TZ        *TimeZone `yaml:"time_zone" cmd:"the timezone all sensor states are computed in, in time.Location format"`
	Latitude  float64   `yaml:"latitude" cmd:"the latitude for the location"`
	Longitude float64   `yaml:"longitude" cmd:"the longitude for the location"`
}

type HomeAssistantConfig struct {
	Endpoint  string `yaml:"endpoint" cmd:"the http/https endpoint of the Home Assistant instance"`
	TokenFile string `yaml:"token_file" cmd:"file containing a long-lived access token, WTIME_HA_TOKEN is used when unset"`
}

type SensorsConfig struct {
	Enable  []string     `yaml:"enable,flow" cmd:"sensors to enable in addition to the defaults"`
	Disable []string     `yaml:"disable,flow" cmd:"sensors to disable"`
	Seasons seasonScheme `yaml:"seasons" cmd:"season boundary scheme, meteorological or astronomical"`
}

type DSTConfig struct {
	RecalcInterval time.Duration `yaml:"recalc_interval" cmd:"how often the daylight saving state is recomputed"`
	HorizonDays    int           `yaml:"horizon_days" cmd:"how many days to search for daylight saving transitions"`
}

type AutoPurgeConfig struct {
	Enabled  bool          `yaml:"enabled" cmd:"periodically purge the recorded history of high churn entities"`
	Entities []string      `yaml:"entities,flow" cmd:"the entities to purge, the clock sensors when unset"`
	Interval time.Duration `yaml:"interval" cmd:"how often to purge"`
	Repack   bool          `yaml:"repack" cmd:"ask the recorder to repack the database after purging"`
}

type Config struct {
	Location      LocationConfig      `yaml:",inline"`
	HomeAssistant HomeAssistantConfig `yaml:"home_assistant" cmd:"the Home Assistant instance to publish to"`
	Sensors       SensorsConfig       `yaml:"sensors" cmd:"sensor selection"`
	DST           DSTConfig           `yaml:"dst" cmd:"daylight saving sensor tuning"`
	AutoPurge     AutoPurgeConfig     `yaml:"auto_purge" cmd:"recorder history auto purge"`
}

// Scheme returns the configured season boundary scheme.
func (c Config) Scheme() sensors.Scheme {
	return sensors.Scheme(c.Sensors.Seasons)
}

func (c *Config) setDefaults() error {
	if c.Location.TZ == nil {
		c.Location.TZ = &TimeZone{time.Now().Location()}
	}
	if c.DST.RecalcInterval == 0 {
		c.DST.RecalcInterval = DefaultDSTRecalcInterval
	}
	if c.DST.HorizonDays == 0 {
		c.DST.HorizonDays = dst.DefaultHorizonDays
	}
	if c.DST.HorizonDays < 0 {
		return fmt.Errorf("dst horizon must be positive: %v", c.DST.HorizonDays)
	}
	if c.AutoPurge.Interval == 0 {
		c.AutoPurge.Interval = DefaultAutoPurgeInterval
	}
	if c.AutoPurge.Interval < MinAutoPurgeInterval {
		return fmt.Errorf("auto purge interval %v is below the minimum of %v",
			c.AutoPurge.Interval, MinAutoPurgeInterval)
	}
	if len(c.AutoPurge.Entities) == 0 {
		c.AutoPurge.Entities = DefaultAutoPurgeEntities
	}
	return nil
}

func (c Config) validateSensorKeys() error {
	defs := sensors.Catalog(c.Scheme())
	for _, list := range [][]string{c.Sensors.Enable, c.Sensors.Disable} {
		for _, key := range list {
			if _, ok := sensors.Lookup(defs, key); !ok {
				return fmt.Errorf("unknown sensor: %v", key)
			}
		}
	}
	return nil
}

func ParseConfigFile(ctx context.Context, cfgFile string) (Config, error) {
	var cfg Config
	if err := cmdyaml.ParseConfigFile(ctx, cfgFile, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.setDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validateSensorKeys()
}

func ParseConfig(cfgData []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.setDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validateSensorKeys()
}

// ActiveSensors returns the catalog entries that the configuration
// selects: those enabled by default, plus the enable list, minus the
// disable list. Disable wins when a key appears in both.
func (c Config) ActiveSensors() []sensors.Definition {
	enabled := map[string]bool{}
	for _, key := range c.Sensors.Enable {
		enabled[key] = true
	}
	for _, key := range c.Sensors.Disable {
		enabled[key] = false
	}
	var active []sensors.Definition
	for _, def := range sensors.Catalog(c.Scheme()) {
		on := def.EnabledByDefault
		if v, ok := enabled[def.Key]; ok {
			on = v
		}
		if on {
			active = append(active, def)
		}
	}
	return active
}
