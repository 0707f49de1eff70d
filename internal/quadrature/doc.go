// Package quadrature implements the numerical core of midcalc: midpoint-rule
// integration over a range of sample indices, the partitioning of a sample
// count across a group of workers, and the mutex-guarded accumulator that
// combines partial sums.
//
// Everything in this package is free of goroutines. Concurrency lives in
// package orchestration, which only composes the pure pieces defined here.
package quadrature
