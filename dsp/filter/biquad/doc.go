// Package biquad is the runtime for cascades of second-order sections.
//
// A [Section] runs one normalised biquad in Direct Form II Transposed and
// keeps two delay-line values. A [Chain] cascades sections in order; it is
// the filter state behind lti.Sos. Sections in z⁻¹ form with an arbitrary
// leading denominator coefficient are brought into this form by [Normalize].
package biquad
