// Package lti holds rational linear time-invariant systems and the
// transforms between their representations.
//
// Four representations are supported:
//
//   - [Tf]: numerator and denominator polynomials in the transform
//     variable (s or z), highest power first.
//   - [Zpk]: zeros, poles and a real gain.
//   - [Ss]: state-space matrices A, B, C, D backed by gonum.
//   - [Sos]: a cascade of second-order sections in z⁻¹ form.
//
// Every representation converts to every other one. Systems with complex
// coefficients use [CTf] and [CZpk], which convert into each other and back
// to the real forms when their coefficients allow it. Analog prototypes are
// mapped with [Sftrans] and brought to discrete time with [Bilinear] or
// [ImpInvar]. Digital filters given as z⁻¹ coefficient arrays run through
// [Filter] or a stateful [Rtf]; analysis drivers such as [Freqz], [Impz] and
// [Lsim] evaluate responses.
//
// Values are immutable after construction and safe for concurrent reads.
// An Rtf is single-owner.
package lti
