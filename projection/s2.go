// Package projection converts coordinates between longitude/latitude, the unit
// sphere, cube face UV and ST space, the integer IJ grid, and Web Mercator.
//
// Faces are numbered 0 (+x), 1 (+y), 2 (+z), 3 (-x), 4 (-y) and 5 (-z).
package projection

import (
	"math"

	"github.com/pdok/vtiler/mathhelp"
)

const (
	// MaxLevel is the deepest S2 level.
	MaxLevel = 30
	// MaxSize is the number of leaf cells along one side of a face.
	MaxSize = 1 << MaxLevel

	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// XYZ is a point in 3D space, on the unit sphere when it came from LonLatToXYZ.
type XYZ [3]float64

func (p XYZ) Norm() float64 {
	return math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
}

func (p XYZ) Normalize() XYZ {
	n := p.Norm()
	if n == 0 {
		return p
	}
	return XYZ{p[0] / n, p[1] / n, p[2] / n}
}

func (p XYZ) Dot(o XYZ) float64 {
	return p[0]*o[0] + p[1]*o[1] + p[2]*o[2]
}

// largestAxis is the index of the component with the biggest absolute value.
func (p XYZ) largestAxis() int {
	x, y, z := math.Abs(p[0]), math.Abs(p[1]), math.Abs(p[2])
	if x > y {
		if x > z {
			return 0
		}
		return 2
	}
	if y > z {
		return 1
	}
	return 2
}

func LonLatToXYZ(lon, lat float64) XYZ {
	phi := lat * degToRad
	lambda := lon * degToRad
	cosPhi := math.Cos(phi)
	return XYZ{cosPhi * math.Cos(lambda), cosPhi * math.Sin(lambda), math.Sin(phi)}
}

func XYZToLonLat(p XYZ) (lon, lat float64) {
	lat = math.Atan2(p[2], math.Hypot(p[0], p[1])) * radToDeg
	lon = math.Atan2(p[1], p[0]) * radToDeg
	return lon, lat
}

// XYZToFace picks the cube face the point projects onto.
func XYZToFace(p XYZ) uint8 {
	axis := p.largestAxis()
	if p[axis] < 0 {
		axis += 3
	}
	return uint8(axis)
}

// XYZToFaceUV projects the point onto its own face.
func XYZToFaceUV(p XYZ) (face uint8, u, v float64) {
	face = XYZToFace(p)
	u, v = validFaceXYZToUV(face, p)
	return face, u, v
}

// validFaceXYZToUV assumes the point lies in front of the face.
func validFaceXYZToUV(face uint8, p XYZ) (u, v float64) {
	x, y, z := p[0], p[1], p[2]
	switch face {
	case 0:
		return y / x, z / x
	case 1:
		return -x / y, z / y
	case 2:
		return -x / z, -y / z
	case 3:
		return z / x, y / x
	case 4:
		return z / y, -x / y
	default:
		return -y / z, -x / z
	}
}

// FaceXYZToUV projects the point onto the given face. It fails when the point
// is on or behind the plane through the origin parallel to the face.
func FaceXYZToUV(face uint8, p XYZ) (u, v float64, ok bool) {
	if p.Dot(FaceNormal(face)) <= 0 {
		return 0, 0, false
	}
	u, v = validFaceXYZToUV(face, p)
	return u, v, true
}

// FaceNormal is the unit vector through the centre of the face.
func FaceNormal(face uint8) XYZ {
	var n XYZ
	if face < 3 {
		n[face] = 1
	} else {
		n[face-3] = -1
	}
	return n
}

// FaceUVToXYZ gives the (not normalized) point on the cube.
func FaceUVToXYZ(face uint8, u, v float64) XYZ {
	switch face {
	case 0:
		return XYZ{1, u, v}
	case 1:
		return XYZ{-u, 1, v}
	case 2:
		return XYZ{-u, -v, 1}
	case 3:
		return XYZ{-1, -v, -u}
	case 4:
		return XYZ{v, -1, -u}
	default:
		return XYZ{v, u, -1}
	}
}

// Mapping is the remapping between UV and ST.
type Mapping int

const (
	Quadratic Mapping = iota
	Linear
	Tangent
)

func (m Mapping) String() string {
	switch m {
	case Linear:
		return "linear"
	case Tangent:
		return "tangent"
	default:
		return "quadratic"
	}
}

func (m Mapping) UVToST(u float64) float64 {
	switch m {
	case Linear:
		return 0.5 * (u + 1)
	case Tangent:
		return (2 / math.Pi) * (math.Atan(u) + math.Pi/4)
	default:
		if u >= 0 {
			return 0.5 * math.Sqrt(1+3*u)
		}
		return 1 - 0.5*math.Sqrt(1-3*u)
	}
}

func (m Mapping) STToUV(s float64) float64 {
	switch m {
	case Linear:
		return 2*s - 1
	case Tangent:
		return math.Tan(math.Pi/2*s - math.Pi/4)
	default:
		if s >= 0.5 {
			return (1. / 3.) * (4*s*s - 1)
		}
		return (1. / 3.) * (1 - 4*(1-s)*(1-s))
	}
}

// UVToST with the default quadratic mapping.
func UVToST(u float64) float64 { return Quadratic.UVToST(u) }

// STToUV with the default quadratic mapping.
func STToUV(s float64) float64 { return Quadratic.STToUV(s) }

// STToIJ is the leaf cell row or column containing s, clamped to the face.
func STToIJ(s float64) uint32 {
	return uint32(mathhelp.Clamp(int64(math.Floor(MaxSize*s)), 0, MaxSize-1))
}

// IJToST is the lower edge of the leaf cell.
func IJToST(i uint32) float64 {
	return float64(i) / MaxSize
}

// IJCenterToST is the centre of the leaf cell.
func IJCenterToST(i uint32) float64 {
	return (2*float64(i) + 1) / (2 * MaxSize)
}

func LonLatToFaceST(lon, lat float64) (face uint8, s, t float64) {
	face, u, v := XYZToFaceUV(LonLatToXYZ(lon, lat))
	return face, UVToST(u), UVToST(v)
}

func FaceSTToLonLat(face uint8, s, t float64) (lon, lat float64) {
	return XYZToLonLat(FaceUVToXYZ(face, STToUV(s), STToUV(t)))
}
