// Package config loads the daemon configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/fitodd-23707/adc-display/internal/gpio"
)

// Config represents the daemon configuration.
type Config struct {
	GPIO   GPIOConfig   `yaml:"gpio"`
	ADC    ADCConfig    `yaml:"adc"`
	Timing TimingConfig `yaml:"timing"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	HTTP   HTTPConfig   `yaml:"http"`
}

// GPIOConfig contains the chip name and line offsets.
type GPIOConfig struct {
	Chip     string `yaml:"chip"`
	Segments []int  `yaml:"segments"` // a..g, dp
	Digits   []int  `yaml:"digits"`   // digit 0 (counter), 1 (low nibble), 2 (high nibble)
	LEDs     []int  `yaml:"leds"`
	Alarm    int    `yaml:"alarm"`
	Inc      int    `yaml:"inc"`
	Dec      int    `yaml:"dec"`
}

// ADCConfig contains the MCP3008 connection.
type ADCConfig struct {
	Port     string        `yaml:"port"` // empty = first SPI port
	Channel  int           `yaml:"channel"`
	SpeedHz  int64         `yaml:"speed_hz"`
	Interval time.Duration `yaml:"interval"` // 0 = back to back
}

// TimingConfig contains loop periods.
type TimingConfig struct {
	Refresh   time.Duration `yaml:"refresh"`   // per digit
	Settle    time.Duration `yaml:"settle"`    // button debounce
	Poll      time.Duration `yaml:"poll"`      // main loop
	Heartbeat time.Duration `yaml:"heartbeat"` // 0 disables
}

// MQTTConfig contains broker settings. An empty broker disables publishing.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// HTTPConfig contains the status server address. Empty disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a default configuration matching the reference wiring.
func Default() *Config {
	p := gpio.DefaultPins
	return &Config{
		GPIO: GPIOConfig{
			Chip:     gpio.DefaultChip,
			Segments: append([]int(nil), p.Segments[:]...),
			Digits:   append([]int(nil), p.Digits[:]...),
			LEDs:     append([]int(nil), p.LEDs[:]...),
			Alarm:    p.Alarm,
			Inc:      p.Inc,
			Dec:      p.Dec,
		},
		ADC: ADCConfig{
			Channel: 7,
			SpeedHz: 1000000,
		},
		Timing: TimingConfig{
			Refresh:   time.Millisecond,
			Settle:    20 * time.Millisecond,
			Poll:      5 * time.Millisecond,
			Heartbeat: 15 * time.Minute,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "adc-display",
			TopicPrefix: "lab/adc-display",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ensureDefaults fills zero-valued fields from Default.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.GPIO.Chip == "" {
		c.GPIO.Chip = def.GPIO.Chip
	}
	if len(c.GPIO.Segments) == 0 {
		c.GPIO.Segments = def.GPIO.Segments
	}
	if len(c.GPIO.Digits) == 0 {
		c.GPIO.Digits = def.GPIO.Digits
	}
	if len(c.GPIO.LEDs) == 0 {
		c.GPIO.LEDs = def.GPIO.LEDs
	}

	if c.ADC.SpeedHz == 0 {
		c.ADC.SpeedHz = def.ADC.SpeedHz
	}

	if c.Timing.Refresh == 0 {
		c.Timing.Refresh = def.Timing.Refresh
	}
	if c.Timing.Settle == 0 {
		c.Timing.Settle = def.Timing.Settle
	}
	if c.Timing.Poll == 0 {
		c.Timing.Poll = def.Timing.Poll
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = def.MQTT.TopicPrefix
	}
}

// Validate checks line counts, line uniqueness and ranges.
func (c *Config) Validate() error {
	var errs []error
	if len(c.GPIO.Segments) != 8 {
		errs = append(errs, fmt.Errorf("gpio.segments: want 8 lines, got %d", len(c.GPIO.Segments)))
	}
	if len(c.GPIO.Digits) != gpio.NumDigits {
		errs = append(errs, fmt.Errorf("gpio.digits: want %d lines, got %d", gpio.NumDigits, len(c.GPIO.Digits)))
	}
	if len(c.GPIO.LEDs) != 2 {
		errs = append(errs, fmt.Errorf("gpio.leds: want 2 lines, got %d", len(c.GPIO.LEDs)))
	}

	seen := map[int]bool{}
	all := append(append(append([]int{}, c.GPIO.Segments...), c.GPIO.Digits...), c.GPIO.LEDs...)
	all = append(all, c.GPIO.Alarm, c.GPIO.Inc, c.GPIO.Dec)
	for _, p := range all {
		if p < 0 {
			errs = append(errs, fmt.Errorf("gpio: negative line %d", p))
			continue
		}
		if seen[p] {
			errs = append(errs, fmt.Errorf("gpio: line %d used twice", p))
		}
		seen[p] = true
	}

	if c.ADC.Channel < 0 || c.ADC.Channel > 7 {
		errs = append(errs, fmt.Errorf("adc.channel: %d out of range 0-7", c.ADC.Channel))
	}
	if c.ADC.Interval < 0 {
		errs = append(errs, errors.New("adc.interval: must not be negative"))
	}
	if c.Timing.Refresh < 0 || c.Timing.Settle < 0 || c.Timing.Poll < 0 {
		errs = append(errs, errors.New("timing: durations must not be negative"))
	}
	return multierr.Combine(errs...)
}

// Pins converts the GPIO section into the board's pin map.
// Call only on a validated config.
func (c *Config) Pins() gpio.Pins {
	var p gpio.Pins
	copy(p.Segments[:], c.GPIO.Segments)
	copy(p.Digits[:], c.GPIO.Digits)
	copy(p.LEDs[:], c.GPIO.LEDs)
	p.Alarm = c.GPIO.Alarm
	p.Inc = c.GPIO.Inc
	p.Dec = c.GPIO.Dec
	return p
}
