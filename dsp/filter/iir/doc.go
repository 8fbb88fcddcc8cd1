// Package iir designs recursive filters from analog prototypes.
//
// A design runs the prototype through a frequency transform and the
// bilinear transform with prewarped edges, so the digital response matches
// the analog one exactly at the band edges.
package iir
