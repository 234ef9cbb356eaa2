package nbbuddy

import "github.com/joeycumines/logiface"

// config holds the resolved settings used by New.
type config struct {
	minAllocableBytes uint32
	maxAllocableByte  uint32
	numberOfProcesses uint32
	logger            Logger
}

// Option configures an Allocator constructed by New.
type Option interface {
	applyConfig(*config) error
}

type optionImpl struct {
	applyFunc func(*config) error
}

func (o *optionImpl) applyConfig(c *config) error {
	return o.applyFunc(c)
}

// WithMinAllocableBytes sets the smallest block size the allocator will ever
// hand out, i.e. the size of a leaf. Must be a power of two. Defaults to 8.
func WithMinAllocableBytes(n uint32) Option {
	return &optionImpl{func(c *config) error {
		c.minAllocableBytes = n
		return nil
	}}
}

// WithMaxAllocableByte sets the largest single request size. Must be a power
// of two, and must not exceed the arena size implied by Levels and
// MinAllocableBytes. Defaults to 16384.
func WithMaxAllocableByte(n uint32) Option {
	return &optionImpl{func(c *config) error {
		c.maxAllocableByte = n
		return nil
	}}
}

// WithNumberOfProcesses sets the number of disjoint starting points Request
// spreads searches across, reducing contention between concurrent
// requesters. Defaults to 1.
func WithNumberOfProcesses(n uint32) Option {
	return &optionImpl{func(c *config) error {
		c.numberOfProcesses = n
		return nil
	}}
}

// WithLogger installs a Logger to receive diagnostic events. Defaults to a
// no-op logger.
func WithLogger(l Logger) Option {
	return &optionImpl{func(c *config) error {
		c.logger = l
		return nil
	}}
}

// WithLogiface installs a logiface.Logger[logiface.Event] as the Allocator's
// Logger, for callers that already standardize on logiface elsewhere.
func WithLogiface(log *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(c *config) error {
		c.logger = newLogifaceAdapter(log)
		return nil
	}}
}

// resolveOptions applies opts over the package defaults.
func resolveOptions(opts []Option) (*config, error) {
	c := &config{
		minAllocableBytes: 8,
		maxAllocableByte:  16384,
		numberOfProcesses: 1,
		logger:            noOpLogger{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyConfig(c); err != nil {
			return nil, err
		}
	}
	if c.numberOfProcesses == 0 {
		return nil, &ConfigError{Field: "NumberOfProcesses", Message: "must be at least 1"}
	}
	return c, nil
}
