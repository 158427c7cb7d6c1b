// Package monitoring holds the shared diagnostic logger used by the labelling
// pipeline and its commands.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Progress reports every n-th step of a long running loop through Logf.
// A zero or negative interval disables reporting.
type Progress struct {
	Component string
	What      string
	Every     int
}

// Step logs when i is a multiple of the configured interval.
func (p Progress) Step(i int) {
	if p.Every <= 0 || i%p.Every != 0 {
		return
	}
	Logf("[%s] %s %d", p.Component, p.What, i)
}
