package storage

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type writebackEntry struct {
	key   string
	value []byte
}

// Paired implements Store wrapping a pair of stores, one fast, one slow. It
// will handle puts storing data in the fast store and syncing that to the slow
// store in the background. It will handle gets from the fast store if possible,
// otherwise from the slow store (and in this case also propagate the data from
// the slow to the fast store, for next time that piece of data is requested).
type Paired struct {
	fast Store
	slow Store

	wbc chan writebackEntry
}

func NewPaired(fast, slow Store) Paired {
	p := Paired{
		fast: fast,
		slow: slow,
		wbc:  make(chan writebackEntry, 42),
	}
	// Exits only when the process is terminated.
	go p.writeback()
	return p
}

func (s Paired) Get(key string) (value []byte, err error) {
	value, err = s.fast.Get(key)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrNotFound) {
		return
	}
	value, err = s.slow.Get(key)
	if err != nil {
		return nil, err
	}
	logger := log.WithFields(log.Fields{
		"key": fmt.Sprintf("%.40q", key),
	})
	if ferr := s.fast.Put(key, value); ferr != nil {
		logger.WithField("err", ferr).Warn("Could not propagate from slow to fast")
	} else {
		logger.Debug("Propagated from slow to fast")
	}
	return value, nil
}

func (s Paired) Put(key string, value []byte) (err error) {
	if err = s.fast.Put(key, value); err != nil {
		return err
	}
	// This can get stuck if it fills up and the slow store is not able to
	// fulfill our requests. Also, if we kill the process in the middle of
	// propagation, we'll have missing data on the slow store.
	s.wbc <- writebackEntry{key: key, value: value}
	return nil
}

func (s Paired) writeback() {
	for entry := range s.wbc {
		s.writeback1(entry.key, entry.value)
	}
}

func (s Paired) writeback1(key string, value []byte) {
	logger := log.WithFields(log.Fields{
		"key": fmt.Sprintf("%.40q", key),
	})
	for {
		err := s.slow.Put(key, value)
		if err == nil {
			logger.Debug("Propagated from fast to slow")
			break
		}
		logger.WithFields(log.Fields{
			"err": err,
		}).Warn("Could not propagate from fast to slow")
		// Should randomize.
		time.Sleep(time.Second)
	}
}
