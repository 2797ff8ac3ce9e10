// Package noise implements Ken Perlin's improved 3D gradient noise.
package noise

import "math"

// Period is the lattice period along every axis. Noise(x, y, z) equals
// Noise(x+Period, y, z) and likewise for y and z.
const Period = 256

// referencePerm is the fixed permutation from Perlin's reference implementation.
var referencePerm = [Period]int{
	151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
	140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
	247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
	57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
	74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
	60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
	65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
	200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
	52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
	207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
	119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
	218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
	81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
	184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
	222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// Perlin evaluates gradient noise against the reference permutation table.
// A Perlin is read-only after New and may be shared between goroutines.
type Perlin struct {
	perm [2 * Period]int
}

// New creates a Perlin noise generator.
func New() *Perlin {
	p := &Perlin{}

	// Duplicate so perm[i+1] never needs masking
	for i := 0; i < Period; i++ {
		p.perm[i] = referencePerm[i]
		p.perm[i+Period] = referencePerm[i]
	}

	return p
}

// Table returns a copy of the doubled permutation table.
func (p *Perlin) Table() [2 * Period]int {
	return p.perm
}

// Noise returns the noise value at (x, y, z). Results are nominally in [-1, 1].
func (p *Perlin) Noise(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)

	// Find unit cube
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	// Find relative position in cube
	x -= fx
	y -= fy
	z -= fz

	// Compute fade curves
	u := Fade(x)
	v := Fade(y)
	w := Fade(z)

	// Hash coordinates of cube corners
	A := p.perm[X] + Y
	AA := p.perm[A] + Z
	AB := p.perm[A+1] + Z
	B := p.perm[X+1] + Y
	BA := p.perm[B] + Z
	BB := p.perm[B+1] + Z

	// Blend results from 8 corners
	return Lerp(w, Lerp(v, Lerp(u, Grad(p.perm[AA], x, y, z),
		Grad(p.perm[BA], x-1, y, z)),
		Lerp(u, Grad(p.perm[AB], x, y-1, z),
			Grad(p.perm[BB], x-1, y-1, z))),
		Lerp(v, Lerp(u, Grad(p.perm[AA+1], x, y, z-1),
			Grad(p.perm[BA+1], x-1, y, z-1)),
			Lerp(u, Grad(p.perm[AB+1], x, y-1, z-1),
				Grad(p.perm[BB+1], x-1, y-1, z-1))))
}

// Fade is the quintic ease curve 6t^5 - 15t^4 + 10t^3.
// The float64 conversions stop the compiler from fusing into FMA
// instructions, which would change the low bits on some architectures.
func Fade(t float64) float64 {
	return t * t * t * (float64(t*(float64(t*6)-15)) + 10)
}

// Lerp blends a and b by t.
func Lerp(t, a, b float64) float64 {
	return a + float64(t*(b-a))
}

// Grad returns the dot product of (x, y, z) with one of 12 cube edge
// gradients selected by the low 4 bits of hash.
func Grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
