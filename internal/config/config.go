package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/framestep/framestep/internal/core/observability/log"
)

// Config describes a full simulation runtime: the fixed-step engine
// settings, the object pools to pre-allocate and the spawn rules that
// feed them.
type Config struct {
	Engine EngineConfig  `yaml:"engine"`
	Pools  []PoolConfig  `yaml:"pools"`
	Spawns []SpawnConfig `yaml:"spawns"`
}

// EngineConfig holds the fixed-step loop settings.
type EngineConfig struct {
	TickRate      int           `yaml:"tick_rate"`
	MaxFrames     uint64        `yaml:"max_frames"`
	StatsInterval time.Duration `yaml:"stats_interval"`
	Seed          int64         `yaml:"seed"`
	SpawnBuckets  int           `yaml:"spawn_buckets"`
	LogLevel      string        `yaml:"log_level"`
}

// PoolConfig describes one pre-allocated object pool.
type PoolConfig struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// SpawnConfig describes one spawn rule: which pool it draws from, how
// often it fires and how many units it may place per activation.
type SpawnConfig struct {
	ID       string       `yaml:"id"`
	Pool     string       `yaml:"pool"`
	Interval float64      `yaml:"interval"`
	Amount   AmountConfig `yaml:"amount"`
	Reserve  int          `yaml:"reserve"`
	Bounds   BoundsConfig `yaml:"bounds"`
	Lifetime float64      `yaml:"lifetime,omitempty"`
	Speed    float64      `yaml:"speed,omitempty"`
	Script   string       `yaml:"script,omitempty"`
}

// AmountConfig bounds how many units a rule places per activation. When
// Max is zero or equal to Min the amount is fixed at Min.
type AmountConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max,omitempty"`
}

// BoundsConfig is the rectangle random placements are drawn from.
type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// Default returns a runnable configuration: one enemy pool fed by a
// single timed rule.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			TickRate:      60,
			StatsInterval: 10 * time.Second,
			Seed:          1,
			LogLevel:      "info",
		},
		Pools: []PoolConfig{
			{Name: "enemies", Capacity: 64},
		},
		Spawns: []SpawnConfig{
			{
				ID:       "enemy-wave",
				Pool:     "enemies",
				Interval: 2,
				Amount:   AmountConfig{Min: 1, Max: 3},
				Bounds:   BoundsConfig{MaxX: 100, MaxY: 100},
				Lifetime: 10,
				Speed:    5,
			},
		},
	}
}

// LoadYAML decodes a configuration from a YAML reader on top of the
// defaults, so omitted engine fields keep their default values.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	c.Pools = nil
	c.Spawns = nil
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads and decodes a YAML configuration file.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return LoadYAML(f)
}

// Validate checks cross-field consistency.
func (c Config) Validate() error {
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("engine.tick_rate must be positive, got %d", c.Engine.TickRate)
	}
	if c.Engine.SpawnBuckets < 0 {
		return fmt.Errorf("engine.spawn_buckets must not be negative, got %d", c.Engine.SpawnBuckets)
	}
	if _, err := c.Engine.Level(); err != nil {
		return err
	}
	pools := make(map[string]bool, len(c.Pools))
	for _, p := range c.Pools {
		if p.Name == "" {
			return fmt.Errorf("pool with empty name")
		}
		if p.Capacity <= 0 {
			return fmt.Errorf("pool %s: capacity must be positive, got %d", p.Name, p.Capacity)
		}
		if pools[p.Name] {
			return fmt.Errorf("duplicate pool %s", p.Name)
		}
		pools[p.Name] = true
	}
	for _, s := range c.Spawns {
		if s.ID == "" {
			return fmt.Errorf("spawn rule with empty id")
		}
		if !pools[s.Pool] {
			return fmt.Errorf("spawn rule %s references unknown pool %q", s.ID, s.Pool)
		}
		if s.Interval < 0 {
			return fmt.Errorf("spawn rule %s: interval must not be negative", s.ID)
		}
		if s.Amount.Min < 0 || (s.Amount.Max != 0 && s.Amount.Max < s.Amount.Min) {
			return fmt.Errorf("spawn rule %s: invalid amount range [%d, %d]", s.ID, s.Amount.Min, s.Amount.Max)
		}
	}
	return nil
}

// Level parses the configured log level.
func (e EngineConfig) Level() (log.Level, error) {
	switch e.LogLevel {
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level %q", e.LogLevel)
	}
}

// Step returns the fixed timestep implied by the tick rate.
func (e EngineConfig) Step() time.Duration {
	return time.Duration(float64(time.Second) / float64(e.TickRate))
}
