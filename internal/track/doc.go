// Package track runs the per-alert location polling loop: one goroutine per
// active alert sampling the location provider on a fixed interval and
// appending readings to the alert's history until stopped.
package track
