// Package metrics gathers the resource and run measurements reported next to
// an integration result: Go runtime memory, process CPU time, host load and
// a Prometheus registry that can be exported as a text file.
package metrics
