package storage

import (
	"time"

	"golang.org/x/time/rate"
)

// Limited wraps a Store throttling gets and puts to a fixed number of
// requests per second each. Useful in front of metered backends such as S3,
// so the client doesn't have to retry.
type Limited struct {
	delegate Store

	getLimiter *rate.Limiter
	putLimiter *rate.Limiter
}

func NewLimited(delegate Store, getsPerSecond, putsPerSecond int) *Limited {
	return &Limited{
		delegate:   delegate,
		getLimiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(getsPerSecond)), 1),
		putLimiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(putsPerSecond)), 1),
	}
}

func (s *Limited) Put(key string, value []byte) error {
	time.Sleep(s.putLimiter.Reserve().Delay())
	return s.delegate.Put(key, value)
}

func (s *Limited) Get(key string) (value []byte, err error) {
	time.Sleep(s.getLimiter.Reserve().Delay())
	return s.delegate.Get(key)
}
