package xbee

import "time"

// defaultGuardTime is the silent period observed before and after the
// "+++" escape sequence used to enter the module's transparent AT command
// mode. 1.1s is comfortably above the 1s guard time XBee modules ship
// with by default.
const defaultGuardTime = 1100 * time.Millisecond

// defaultBufferSize is used when Config.BufferSize is left at zero. It
// comfortably holds the largest frames this driver builds or expects to
// receive.
const defaultBufferSize = 256

// Config bundles everything Open needs to bring a module up: how to reach
// it (Transport or Dialer), how big a receive arena to allocate, and how
// long to wait during the AT guard sequence.
type Config struct {
	// Transport is a pre-established connection to the module. Mutually
	// exclusive with Dialer; if both are set, Transport wins.
	Transport Transport

	// Dialer produces a Transport when Open is called. Used instead of
	// Transport when the connection should be established lazily.
	Dialer Dialer

	// BufferSize is the capacity of the receive ring buffer. Must be able
	// to hold at least a minimum viable frame (6 bytes); in practice
	// should be sized to the largest expected frame. Defaults to 256.
	BufferSize int

	// GuardTime is the silent period observed around the "+++" escape
	// sequence. Defaults to 1.1s.
	GuardTime time.Duration
}

func (c *Config) setDefaults() {
	if c.BufferSize == 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.GuardTime == 0 {
		c.GuardTime = defaultGuardTime
	}
}

func (c *Config) validate() error {
	if c.Transport == nil && c.Dialer == nil {
		return ErrNoTransport
	}
	if c.BufferSize < 6 {
		return ErrBufferTooSmall
	}
	return nil
}

// resolveTransport returns c.Transport if set, otherwise dials c.Dialer.
func (c *Config) resolveTransport() (Transport, error) {
	if c.Transport != nil {
		return c.Transport, nil
	}
	return c.Dialer.Dial()
}

// ConfigOption mutates a Config as part of a ConfigBuilder chain.
type ConfigOption func(*Config)

// ConfigBuilder assembles a Config fluently, following the same shape as
// this codebase's application-level LoadConfig/ConfigOption pattern but
// scoped to the library's own construction knobs.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder starts a new, empty ConfigBuilder.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithTransport sets a pre-established Transport.
func (b *ConfigBuilder) WithTransport(t Transport) *ConfigBuilder {
	b.config.Transport = t
	return b
}

// WithDialer sets a Dialer used to lazily establish the Transport.
func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

// WithBufferSize sets the receive ring buffer's capacity.
func (b *ConfigBuilder) WithBufferSize(n int) *ConfigBuilder {
	b.config.BufferSize = n
	return b
}

// WithGuardTime overrides the AT guard time observed during Open.
func (b *ConfigBuilder) WithGuardTime(d time.Duration) *ConfigBuilder {
	b.config.GuardTime = d
	return b
}

// Build validates the accumulated Config, applies defaults, and returns
// it. An error is returned if no Transport or Dialer was provided, or if
// BufferSize is too small to ever hold a minimum frame.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	c.setDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
