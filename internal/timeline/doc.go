// Package timeline reads the temporal metadata of Lottie documents and builds
// render plans that resample a native frame range onto an output frame rate.
//
// Everything here is pure: no rendering, no filesystem writes. The capture
// package consumes the Plan.
package timeline
