package api

import "time"

type Config struct {
	Addr string

	NewsLimit int // news items included in /state and pushed states

	// Each websocket client gets a buffered outbox; when it is full the
	// message is dropped for that client rather than stalling the others.
	ClientBuffer int
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		NewsLimit:    20,
		ClientBuffer: 16,
		WriteTimeout: 5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.NewsLimit <= 0 {
		c.NewsLimit = def.NewsLimit
	}
	if c.ClientBuffer <= 0 {
		c.ClientBuffer = def.ClientBuffer
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	return c
}
