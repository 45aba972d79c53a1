// Command kvserver implements an HTTP key-value store. Values are arbitrary
// bytes POSTed with a declared content type; payloads declared image/* must
// decode as images and can additionally be served as grayscale, blurred, or
// thumbnail-resized PNG renditions.
//
// Valid requests are GETs and POSTs to paths of the form "/kv/greeting" or
// "/kv/crab", that is, /kv/ followed by a path-escaped key. POSTs store the
// request body under the key with the Content-Type header as declared type,
// responding 200 "OK", or 400 if the declared type is image/* and the body
// does not decode. GETs return the stored payload verbatim with its declared
// content type, or 404 if the key was never written.
//
// GETs to "/kv/{key}/grayscale", "/kv/{key}/blur/{sigma}" and
// "/kv/{key}/thumbnail" return a PNG rendition of the stored image, 404 if
// the key is absent, or 403 if the stored value is not an image; they never
// try to reinterpret opaque bytes as an image. The thumbnail fits within
// 100x100 preserving aspect ratio; sigma is a floating-point standard
// deviation, and values of zero or less leave the image unchanged.
//
// The store sits on a swappable byte-level backend selected in the
// configuration file: in-memory map, host filesystem directory, Bolt
// database, S3 bucket, or another kvserver instance, optionally behind an
// in-memory cache and a rate limiter.
package main // import "github.com/nicolagi/imagekv/cmd/kvserver"
