// Package source supplies the encoded bytes of source images.
//
// A Cache sits in front of a Fetcher and keeps the most recently used
// sources in memory, keyed by a 64-bit hash of the URL. HTTPFetcher is the
// production Fetcher; it downloads over HTTP(S) with a timeout, a size limit
// and an optional guard against private network addresses.
package source
