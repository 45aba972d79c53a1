// Package web translates the HTTP surface into store operations. Routing is
// deliberately by hand; five routes don't warrant a router dependency.
//
// Valid requests are GETs and POSTs to /kv/{key}, plus GETs to
// /kv/{key}/grayscale, /kv/{key}/blur/{sigma} and /kv/{key}/thumbnail. The
// key is a path-escaped arbitrary string. Transform responses are always PNG
// regardless of the stored image's own encoding.
package web

import (
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nicolagi/imagekv/kv"
	"github.com/nicolagi/imagekv/storage"
)

type Handler struct {
	store *kv.Store
}

func NewHandler(store *kv.Store) Handler {
	return Handler{store: store}
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.EscapedPath()
	switch {
	case path == "/":
		h.serveIndex(w, r)
	case path == "/hello":
		h.serveHello(w, r)
	case strings.HasPrefix(path, "/kv/"):
		h.serveKV(w, r, strings.TrimPrefix(path, "/kv/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<h1>imagekv</h1>"))
}

func (h Handler) serveHello(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	greeting := "<h1>Hello Unknown Visitor</h1>"
	if name := r.URL.Query().Get("name"); name != "" {
		greeting = fmt.Sprintf("<h1>Hello %s</h1>", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(greeting))
}

func (h Handler) serveKV(w http.ResponseWriter, r *http.Request, rest string) {
	var logger *log.Entry

	status, contentType, body := func() (int, string, []byte) {
		segments := strings.Split(rest, "/")
		key, err := url.PathUnescape(segments[0])
		if err != nil || key == "" {
			return http.StatusBadRequest, "", []byte(fmt.Sprintf("%q: not a valid key", segments[0]))
		}
		logger = log.WithFields(log.Fields{
			"op":  r.Method,
			"key": key,
		})

		if len(segments) == 1 {
			switch r.Method {
			case http.MethodGet:
				return h.read(logger, key)
			case http.MethodPost:
				return h.write(logger, key, r)
			default:
				logger.Warn("Bad request")
				return http.StatusBadRequest, "", []byte(fmt.Sprintf("%q: invalid method, expecting GET or POST", r.Method))
			}
		}

		if r.Method != http.MethodGet {
			logger.Warn("Bad request")
			return http.StatusBadRequest, "", []byte(fmt.Sprintf("%q: invalid method, expecting GET", r.Method))
		}
		switch {
		case len(segments) == 2 && segments[1] == "grayscale":
			return h.respondPNG(logger, func() ([]byte, error) {
				return h.store.Grayscale(key)
			})
		case len(segments) == 3 && segments[1] == "blur":
			sigma, err := strconv.ParseFloat(segments[2], 64)
			if err != nil {
				return http.StatusBadRequest, "", []byte(fmt.Sprintf("%q: not a valid sigma", segments[2]))
			}
			logger = logger.WithField("sigma", sigma)
			return h.respondPNG(logger, func() ([]byte, error) {
				return h.store.Blur(key, sigma)
			})
		case len(segments) == 2 && segments[1] == "thumbnail":
			return h.respondPNG(logger, func() ([]byte, error) {
				return h.store.Thumbnail(key)
			})
		default:
			logger.Warn("Not found")
			return http.StatusNotFound, "", nil
		}
	}()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	if body != nil {
		if _, err := w.Write(body); err != nil {
			logger.WithField("err", err).Error("Failed writing response")
		}
	}
}

func (h Handler) read(logger *log.Entry, key string) (int, string, []byte) {
	value, err := h.store.Read(key)
	if err != nil {
		return h.fail(logger, err)
	}
	logger.Debug("Success")
	return http.StatusOK, value.ContentType(), value.Bytes()
}

func (h Handler) write(logger *log.Entry, key string, r *http.Request) (int, string, []byte) {
	data, err := ioutil.ReadAll(r.Body)
	if err != nil {
		logger.WithField("err", err).Error()
		return http.StatusInternalServerError, "", []byte(fmt.Sprintf("%q: %v", key, err))
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.store.Write(key, contentType, data); err != nil {
		return h.fail(logger, err)
	}
	logger.Debug("Success")
	return http.StatusOK, "text/plain; charset=utf-8", []byte("OK")
}

func (h Handler) respondPNG(logger *log.Entry, op func() ([]byte, error)) (int, string, []byte) {
	png, err := op()
	if err != nil {
		return h.fail(logger, err)
	}
	logger.Debug("Success")
	return http.StatusOK, "image/png", png
}

func (h Handler) fail(logger *log.Entry, err error) (int, string, []byte) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.WithField("err", err).Debug("Not found")
		return http.StatusNotFound, "", []byte("Key not found")
	case errors.Is(err, kv.ErrInvalidImage):
		logger.WithField("err", err).Warn("Bad request")
		return http.StatusBadRequest, "", []byte("Declared an image but bytes do not decode as one")
	case errors.Is(err, kv.ErrNotImage):
		logger.WithField("err", err).Warn("Forbidden")
		return http.StatusForbidden, "", []byte("Not possible to transform this type of value")
	case errors.Is(err, kv.ErrEmptyKey):
		logger.WithField("err", err).Warn("Bad request")
		return http.StatusBadRequest, "", []byte("Empty key")
	default:
		// Unavailable backends and encode failures both land here.
		logger.WithField("err", err).Error()
		return http.StatusInternalServerError, "", []byte(err.Error())
	}
}
