package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
)

// RemoteStore implements Store. It requires another imagekv instance to
// connect to, and stores values there as opaque octet-stream payloads.
type RemoteStore struct {
	address string
}

func NewRemoteStore(address string) *RemoteStore {
	return &RemoteStore{address: address}
}

func (r *RemoteStore) Put(key string, value []byte) (err error) {
	request, err := http.NewRequest(http.MethodPost, r.pathFor(key), bytes.NewReader(value))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/octet-stream")
	response, err := http.DefaultClient.Do(request)
	if response != nil && response.Body != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode != http.StatusOK {
		return errors.New(string(body))
	}
	return nil
}

func (r *RemoteStore) Get(key string) (value []byte, err error) {
	response, err := http.Get(r.pathFor(key))
	if response != nil && response.Body != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	if response.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%.40q: %w", key, ErrNotFound)
	}
	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		return nil, errors.New(string(body))
	}
	return body, nil
}

func (r *RemoteStore) pathFor(key string) string {
	return fmt.Sprintf("http://%s/kv/%s", r.address, url.PathEscape(key))
}
