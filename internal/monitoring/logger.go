// Package monitoring carries the pipeline's diagnostic logger and its
// Prometheus metric set.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf;
// replace it with SetLogger to redirect or mute output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
