// Package orchestration runs a midpoint-rule integration across a tree of
// concurrent workers and reports the outcome. It decouples the computation
// from presentation via the ProgressReporter and ResultPresenter interfaces.
package orchestration
