package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/boltdb/bolt"
	"github.com/google/gops/agent"
	log "github.com/sirupsen/logrus"

	"github.com/nicolagi/imagekv/kv"
	"github.com/nicolagi/imagekv/storage"
	"github.com/nicolagi/imagekv/web"
)

func main() {
	defaultConfigFile := os.ExpandEnv("$HOME/lib/imagekv/kvserver.config")
	configFile := flag.String("config", defaultConfigFile, "location of configuration file")
	flag.Parse()

	opts, err := loadConfig(*configFile)
	if err != nil {
		log.WithFields(log.Fields{
			"err":  err,
			"path": *configFile,
		}).Fatal("Could not load configuration")
	}

	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if err := agent.Listen(agent.Options{
		ShutdownCleanup: true,
	}); err != nil {
		log.WithField("err", err).Warn("Could not start gops agent")
	} else {
		defer agent.Close()
	}

	backend, err := newBackend(opts)
	if err != nil {
		log.WithField("err", err).Fatal("Could not set up backend")
	}
	if opts.GetsPerSecond > 0 && opts.PutsPerSecond > 0 {
		backend = storage.NewLimited(backend, opts.GetsPerSecond, opts.PutsPerSecond)
	}
	if opts.CacheInFront {
		backend = storage.NewPaired(storage.NewMemoryStore(), backend)
	}

	store := kv.NewStore(backend)

	listen := opts.Listen
	if listen == "" {
		listen = "127.0.0.1:3000"
	}
	log.Infof("kvserver listening on %s", listen)
	if err := http.ListenAndServe(listen, web.NewHandler(store)); err != nil {
		log.WithField("err", err).Fatal("Could not listen and serve")
	}
}

func newBackend(opts *config) (storage.Store, error) {
	switch opts.Backend {
	case "", "memory":
		log.Info("Will use an in-memory backend, values won't survive a restart")
		return storage.NewMemoryStore(), nil
	case "disk":
		dir := os.ExpandEnv(opts.Dir)
		if dir == "" {
			dir = os.ExpandEnv("$HOME/lib/imagekv/data")
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("could not ensure directory %q exists: %w", dir, err)
		}
		log.Infof("Will use a disk-based backend storing data at %s", dir)
		return storage.NewDiskStore(dir), nil
	case "bolt":
		path := os.ExpandEnv(opts.BoltPath)
		db, err := bolt.Open(path, 0600, nil)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", path, err)
		}
		log.Infof("Will use a bolt-based backend storing data at %s", path)
		return storage.NewBoltStore(db)
	case "s3":
		log.Infof("Will use an S3-based backend storing data in bucket %s", opts.S3Bucket)
		return storage.NewS3(opts.S3Profile, opts.S3Region, opts.S3Bucket), nil
	case "remote":
		log.Infof("Will use a remote backend at %s", opts.RemoteAddress)
		return storage.NewRemoteStore(opts.RemoteAddress), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
