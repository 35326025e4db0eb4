package filter

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a 4x5 color transform in row-major order. Each output channel
// is computed from [R G B A 1] with channel values normalized to [0, 1]:
//
//	R' = m[0]*R + m[1]*G + m[2]*B + m[3]*A + m[4]
//	G' = m[5]*R + m[6]*G + m[7]*B + m[8]*A + m[9]
//	B' = m[10]*R + m[11]*G + m[12]*B + m[13]*A + m[14]
//	A' = m[15]*R + m[16]*G + m[17]*B + m[18]*A + m[19]
type Matrix [20]float64

// Identity returns the no-op matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Compose returns the matrix equivalent to applying inner first, then outer.
func Compose(outer, inner Matrix) Matrix {
	var out mat.Dense
	out.Mul(mat.NewDense(5, 5, homogeneous(outer)), mat.NewDense(5, 5, homogeneous(inner)))

	var m Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			m[r*5+c] = out.At(r, c)
		}
	}
	return m
}

// homogeneous extends the 4x5 matrix with a [0 0 0 0 1] row so chains
// multiply as plain 5x5 matrices.
func homogeneous(m Matrix) []float64 {
	h := make([]float64, 25)
	copy(h, m[:])
	h[24] = 1
	return h
}

// Luminance coefficients per ITU-R BT.709.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Grayscale interpolates toward the BT.709 luminance matrix; amount 1 is
// full grayscale, 0 is identity.
func Grayscale(amount float64) Matrix {
	s := 1 - clampAmount(amount)
	return Matrix{
		lumR + (1-lumR)*s, lumG - lumG*s, lumB - lumB*s, 0, 0,
		lumR - lumR*s, lumG + (1-lumG)*s, lumB - lumB*s, 0, 0,
		lumR - lumR*s, lumG - lumG*s, lumB + (1-lumB)*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Sepia interpolates toward the standard sepia matrix.
func Sepia(amount float64) Matrix {
	s := 1 - clampAmount(amount)
	return Matrix{
		0.393 + 0.607*s, 0.769 - 0.769*s, 0.189 - 0.189*s, 0, 0,
		0.349 - 0.349*s, 0.686 + 0.314*s, 0.168 - 0.168*s, 0, 0,
		0.272 - 0.272*s, 0.534 - 0.534*s, 0.131 + 0.869*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Saturate scales color saturation; 0 is grayscale, 1 is identity.
func Saturate(factor float64) Matrix {
	f := clampAmount(factor)
	inv := 1 - f
	r := lumR * inv
	g := lumG * inv
	b := lumB * inv
	return Matrix{
		r + f, g, b, 0, 0,
		r, g + f, b, 0, 0,
		r, g, b + f, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Brightness scales RGB; 1 is identity.
func Brightness(factor float64) Matrix {
	f := clampAmount(factor)
	return Matrix{
		f, 0, 0, 0, 0,
		0, f, 0, 0, 0,
		0, 0, f, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Contrast pivots RGB around mid-gray; 1 is identity.
func Contrast(factor float64) Matrix {
	f := clampAmount(factor)
	o := 0.5 * (1 - f)
	return Matrix{
		f, 0, 0, 0, o,
		0, f, 0, 0, o,
		0, 0, f, 0, o,
		0, 0, 0, 1, 0,
	}
}

// HueRotate rotates hues by the given angle in degrees.
func HueRotate(degrees float64) Matrix {
	a := degrees * math.Pi / 180
	cos := math.Cos(a)
	sin := math.Sin(a)
	return Matrix{
		lumR + cos*(1-lumR) + sin*(-lumR), lumG + cos*(-lumG) + sin*(-lumG), lumB + cos*(-lumB) + sin*(1-lumB), 0, 0,
		lumR + cos*(-lumR) + sin*0.143, lumG + cos*(1-lumG) + sin*0.140, lumB + cos*(-lumB) + sin*(-0.283), 0, 0,
		lumR + cos*(-lumR) + sin*(-(1-lumR)), lumG + cos*(-lumG) + sin*lumG, lumB + cos*(1-lumB) + sin*lumB, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Invert inverts RGB; amount 1 is full negative.
func Invert(amount float64) Matrix {
	a := clampAmount(amount)
	f := 1 - 2*a
	return Matrix{
		f, 0, 0, 0, a,
		0, f, 0, 0, a,
		0, 0, f, 0, a,
		0, 0, 0, 1, 0,
	}
}

// Opacity scales alpha; 1 is identity.
func Opacity(amount float64) Matrix {
	a := clampAmount(amount)
	return Matrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, a, 0,
	}
}

func clampAmount(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Apply returns src with the matrix applied per pixel. The identity matrix
// returns src untouched.
func (m Matrix) Apply(src image.Image) image.Image {
	if m.IsIdentity() {
		return src
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)

	pix := dst.Pix
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i]) / 255
		g := float64(pix[i+1]) / 255
		bl := float64(pix[i+2]) / 255
		a := float64(pix[i+3]) / 255

		pix[i] = clamp8(m[0]*r + m[1]*g + m[2]*bl + m[3]*a + m[4])
		pix[i+1] = clamp8(m[5]*r + m[6]*g + m[7]*bl + m[8]*a + m[9])
		pix[i+2] = clamp8(m[10]*r + m[11]*g + m[12]*bl + m[13]*a + m[14])
		pix[i+3] = clamp8(m[15]*r + m[16]*g + m[17]*bl + m[18]*a + m[19])
	}
	return dst
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
