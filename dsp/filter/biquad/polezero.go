package biquad

import "math/cmplx"

// Poles returns the two z-plane roots of z² + A1·z + A2. A section with
// A2 = 0 has a pole at the origin.
func (c *Coefficients) Poles() []complex128 {
	return quadraticRoots(1, c.A1, c.A2)
}

// Zeros returns the finite z-plane roots of B0·z² + B1·z + B2. Leading zero
// coefficients lower the count: B0 = 0 leaves one zero, B0 = B1 = 0 none.
func (c *Coefficients) Zeros() []complex128 {
	return quadraticRoots(c.B0, c.B1, c.B2)
}

// Poles returns the poles of every section in cascade order.
func (c *Chain) Poles() []complex128 {
	var out []complex128
	for i := range c.sections {
		out = append(out, c.sections[i].Poles()...)
	}
	return out
}

// Zeros returns the finite zeros of every section in cascade order.
func (c *Chain) Zeros() []complex128 {
	var out []complex128
	for i := range c.sections {
		out = append(out, c.sections[i].Zeros()...)
	}
	return out
}

func quadraticRoots(a, b, c float64) []complex128 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []complex128{complex(-c/b, 0)}
	}

	if c == 0 {
		return []complex128{complex(-b/a, 0), 0}
	}

	// Stable form: compute the larger root first, the other from the product.
	sq := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	q := -0.5 * (complex(b, 0) + sq)
	if b < 0 {
		q = -0.5 * (complex(b, 0) - sq)
	}
	return []complex128{q / complex(a, 0), complex(c, 0) / q}
}
