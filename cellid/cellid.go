// Package cellid implements S2 cell identifiers: a cube face in the top 3 bits,
// the Hilbert curve position on that face below it, and a trailing marker bit
// whose position gives the level.
//
// The leaf cells below a cell form the contiguous range [RangeMin, RangeMax],
// which makes containment a pair of integer comparisons.
package cellid

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/pdok/vtiler/mathhelp"
	"github.com/pdok/vtiler/projection"
)

type CellID uint64

const (
	NumFaces = 6
	MaxLevel = projection.MaxLevel

	posBits = 2*MaxLevel + 1
	maxSize = projection.MaxSize
)

// None is the invalid id.
const None CellID = 0

func lsbForLevel(level int) uint64 {
	return 1 << uint64(2*(MaxLevel-level))
}

// FromFace is the level 0 cell covering the face.
func FromFace(face uint8) CellID {
	return CellID(uint64(face)<<posBits + lsbForLevel(0))
}

// FromIJ is the cell at level with row/column i, j counted at that level.
func FromIJ(face uint8, i, j uint32, level int) CellID {
	shift := uint(MaxLevel - level)
	return fromFaceIJ(int(face), int(i)<<shift, int(j)<<shift).ParentAt(level)
}

// FromLeafIJ is the leaf cell at i, j in [0, 2^30).
func FromLeafIJ(face uint8, i, j uint32) CellID {
	return fromFaceIJ(int(face), int(i), int(j))
}

func fromFaceIJ(f, i, j int) CellID {
	lut := tables()
	n := uint64(f) << (posBits - 1)
	// right handed faces start out unswapped
	b := f & swapMask
	mask := (1 << lookupBits) - 1
	for k := 7; k >= 0; k-- {
		b += ((i >> uint(k*lookupBits)) & mask) << (lookupBits + 2)
		b += ((j >> uint(k*lookupBits)) & mask) << 2
		b = lut.pos[b]
		n |= uint64(b>>2) << (uint(k) * 2 * lookupBits)
		b &= swapMask | invertMask
	}
	return CellID(n*2 + 1)
}

// FromLonLat is the cell containing the position at the given level.
func FromLonLat(lon, lat float64, level int) CellID {
	face, u, v := projection.XYZToFaceUV(projection.LonLatToXYZ(lon, lat))
	i := projection.STToIJ(projection.UVToST(u))
	j := projection.STToIJ(projection.UVToST(v))
	return FromLeafIJ(face, i, j).ParentAt(level)
}

// ChildrenIJ lists the four children of the cell at face, zoom, i, j row by
// row. Odd faces swap the second and fourth child.
func ChildrenIJ(face uint8, zoom int, i, j uint32) [4]CellID {
	i, j = i<<1, j<<1
	level := zoom + 1
	children := [4]CellID{
		FromIJ(face, i, j, level),
		FromIJ(face, i+1, j, level),
		FromIJ(face, i, j+1, level),
		FromIJ(face, i+1, j+1, level),
	}
	if face&1 == 1 {
		children[1], children[3] = children[3], children[1]
	}
	return children
}

func (ci CellID) Face() uint8 {
	return uint8(uint64(ci) >> posBits)
}

func (ci CellID) LSB() uint64 {
	return uint64(ci) & -uint64(ci)
}

func (ci CellID) Level() int {
	return MaxLevel - bits.TrailingZeros64(uint64(ci))>>1
}

func (ci CellID) IsValid() bool {
	return ci.Face() < NumFaces && ci.LSB()&0x1555555555555555 != 0
}

func (ci CellID) IsFace() bool {
	return ci.LSB() == lsbForLevel(0)
}

func (ci CellID) IsLeaf() bool {
	return uint64(ci)&1 != 0
}

// Parent is the immediate parent. A face cell is its own parent.
func (ci CellID) Parent() CellID {
	if ci.IsFace() {
		return ci
	}
	nlsb := ci.LSB() << 2
	return CellID(uint64(ci)&-nlsb | nlsb)
}

// ParentAt is the ancestor at the level, which must not be deeper than the cell's own.
func (ci CellID) ParentAt(level int) CellID {
	lsb := lsbForLevel(level)
	return CellID(uint64(ci)&-lsb | lsb)
}

// Children in Hilbert (id) order.
func (ci CellID) Children() [4]CellID {
	var ch [4]CellID
	lsb := CellID(ci.LSB())
	ch[0] = ci - lsb + lsb>>2
	lsb >>= 1
	ch[1] = ch[0] + lsb
	ch[2] = ch[1] + lsb
	ch[3] = ch[2] + lsb
	return ch
}

func (ci CellID) RangeMin() CellID { return ci - CellID(ci.LSB()-1) }
func (ci CellID) RangeMax() CellID { return ci + CellID(ci.LSB()-1) }

// Contains reports whether o is ci or one of its descendants.
func (ci CellID) Contains(o CellID) bool {
	return ci.RangeMin() <= o && o <= ci.RangeMax()
}

// ToFaceIJ gives the face, level and the row/column counted at that level.
func (ci CellID) ToFaceIJ() (face uint8, level int, i, j uint32) {
	f, li, lj, _ := ci.faceIJOrientation()
	level = ci.Level()
	shift := uint(MaxLevel - level)
	return uint8(f), level, uint32(li >> shift), uint32(lj >> shift)
}

func (ci CellID) faceIJOrientation() (f, i, j, orientation int) {
	lut := tables()
	f = int(ci.Face())
	orientation = f & swapMask
	nbits := MaxLevel - 7*lookupBits
	for k := 7; k >= 0; k-- {
		orientation += (int(uint64(ci)>>uint(k*2*lookupBits+1)) & ((1 << uint(2*nbits)) - 1)) << 2
		orientation = lut.ij[orientation]
		i += (orientation >> (lookupBits + 2)) << uint(k*lookupBits)
		j += ((orientation >> 2) & ((1 << lookupBits) - 1)) << uint(k*lookupBits)
		orientation &= swapMask | invertMask
		nbits = lookupBits
	}
	if ci.LSB()&0x1111111111111110 != 0 {
		orientation ^= swapMask
	}
	return f, i, j, orientation
}

// centerSiTi gives the centre of the cell on the 2^31 grid.
func (ci CellID) centerSiTi() (face uint8, si, ti int) {
	f, i, j, _ := ci.faceIJOrientation()
	delta := 0
	if ci.IsLeaf() {
		delta = 1
	} else if (int64(i)^(int64(ci)>>2))&1 == 1 {
		delta = 2
	}
	return uint8(f), 2*i + delta, 2*j + delta
}

// CenterST is the centre of the cell in face ST.
func (ci CellID) CenterST() (face uint8, s, t float64) {
	face, si, ti := ci.centerSiTi()
	return face, float64(si) / (maxSize << 1), float64(ti) / (maxSize << 1)
}

// LonLat is the centre of the cell.
func (ci CellID) LonLat() (lon, lat float64) {
	face, s, t := ci.CenterST()
	return projection.FaceSTToLonLat(face, s, t)
}

// EdgeNeighbors are the four cells of the same level sharing an edge, in the
// order down, right, up, left. Across a face edge they come from the
// adjacent face.
func (ci CellID) EdgeNeighbors() [4]CellID {
	level := ci.Level()
	size := 1 << uint(MaxLevel-level)
	f, i, j, _ := ci.faceIJOrientation()
	return [4]CellID{
		fromFaceIJWrap(f, i, j-size).ParentAt(level),
		fromFaceIJWrap(f, i+size, j).ParentAt(level),
		fromFaceIJWrap(f, i, j+size).ParentAt(level),
		fromFaceIJWrap(f, i-size, j).ParentAt(level),
	}
}

// fromFaceIJWrap accepts i, j just outside the face and moves them onto the
// neighbouring face through XYZ.
func fromFaceIJWrap(f, i, j int) CellID {
	i = mathhelp.Clamp(i, -1, maxSize)
	j = mathhelp.Clamp(j, -1, maxSize)
	const scale = 1.0 / maxSize
	limit := math.Nextafter(1, 2)
	u := mathhelp.Clamp(scale*float64((i<<1)+1-maxSize), -limit, limit)
	v := mathhelp.Clamp(scale*float64((j<<1)+1-maxSize), -limit, limit)
	face, u, v := projection.XYZToFaceUV(projection.FaceUVToXYZ(uint8(f), u, v))
	return fromFaceIJ(int(face), int(projection.STToIJ(0.5*(u+1))), int(projection.STToIJ(0.5*(v+1))))
}

// Token is the hex form without trailing zeros, "X" for None.
func (ci CellID) Token() string {
	s := strings.TrimRight(fmt.Sprintf("%016x", uint64(ci)), "0")
	if s == "" {
		return "X"
	}
	return s
}

// FromToken parses a Token. Anything unparsable gives None.
func FromToken(s string) CellID {
	if len(s) > 16 {
		return None
	}
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return None
	}
	if len(s) < 16 {
		n <<= 4 * uint(16-len(s))
	}
	return CellID(n)
}

func (ci CellID) String() string {
	if !ci.IsValid() {
		return fmt.Sprintf("invalid cell %d", uint64(ci))
	}
	face, level, i, j := ci.ToFaceIJ()
	return fmt.Sprintf("%d/%d/%d/%d", face, level, i, j)
}
