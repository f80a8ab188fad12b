// Package server implements the HTTP front end of the image proxy.
//
// # Endpoints
//
//	GET /image/{spec}/{url}   transformed image
//	GET /health               liveness probe, {"status":"ok"}
//
// {spec} is the URL-safe base64 operation list produced by oplist.Encode.
// {url} is the source image URL, percent-encoded or not; everything after the
// spec segment belongs to it, and so does the request's query string.
//
// # Pipeline
//
// The operation list is decoded first and the source is read through the
// source cache. The image work then runs on the compute pool, which bounds
// how many goroutines do CPU-heavy work at once.
//
// # Status Codes
//
//   - 200: image bytes, Content-Type of the configured output format
//   - 400: malformed operation list, unusable source URL, or failed fetch
//   - 500: source is not a decodable image, encoding failed, or a panic
//   - 503: the request ended while waiting for a worker, or shutdown began
//
// Error bodies are JSON ErrorResponse values. Every response carries an
// X-Request-ID header, and every log line of the request a request_id field.
package server
