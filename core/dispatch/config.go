package dispatch

import "fmt"

// DefaultMaxIterations is the iteration ceiling of a simulation.
const DefaultMaxIterations = 100

// Config defines engine settings.
type Config struct {
	// MaxIterations aborts the loop once reached. Items not delivered by then
	// are reported as undelivered.
	MaxIterations int `json:"max_iterations"`
	// SplitGroups lets a passenger group board in several portions when it
	// does not fit whole.
	SplitGroups bool `json:"split_groups"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	return nil
}

type options struct {
	cfg    Config
	planID string
}

// Option customises a simulation.
type Option func(*options)

// WithConfig applies every engine setting at once.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithMaxIterations overrides the iteration ceiling.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.cfg.MaxIterations = n }
}

// WithSplitGroups enables partial boarding of passenger groups.
func WithSplitGroups(split bool) Option {
	return func(o *options) { o.cfg.SplitGroups = split }
}

// WithPlanID sets the plan id instead of deriving it from the inputs.
func WithPlanID(id string) Option {
	return func(o *options) { o.planID = id }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg.SetDefaults()
	return o
}
