package main

import (
	"os"

	"github.com/rogpeppe/rjson"
)

type config struct {
	// Listen is the [interface]:port the HTTP server binds to.
	Listen string `json:"listen"`
	Debug  bool   `json:"debug"`

	// Backend selects where values live: "memory", "disk", "bolt", "s3" or
	// "remote". Defaults to memory.
	Backend string `json:"backend"`

	// Dir is the data directory for the disk backend.
	Dir string `json:"dir"`

	// BoltPath is the database file for the bolt backend.
	BoltPath string `json:"bolt_path"`

	S3Profile string `json:"s3_profile"`
	S3Region  string `json:"s3_region"`
	S3Bucket  string `json:"s3_bucket"`

	// RemoteAddress is the host:port of another kvserver instance, for the
	// remote backend.
	RemoteAddress string `json:"remote_address"`

	// CacheInFront pairs an in-memory store with the configured backend,
	// serving reads from memory where possible and writing back to the
	// backend from a background goroutine.
	CacheInFront bool `json:"cache_in_front"`

	// GetsPerSecond/PutsPerSecond throttle the backend when positive. Useful
	// for metered backends such as S3.
	GetsPerSecond int `json:"gets_per_second"`
	PutsPerSecond int `json:"puts_per_second"`
}

func loadConfig(pathname string) (*config, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	var c *config
	err = rjson.NewDecoder(f).Decode(&c)
	return c, err
}
