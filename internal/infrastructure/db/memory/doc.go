// Package memory holds the process-local stores that back the storefront.
//
// Each store owns its collection and a monotonic id counter behind a mutex.
// Values are copied on the way in and on the way out, so callers never share
// memory with the store. Everything is lost on restart.
package memory
