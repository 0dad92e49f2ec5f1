package cellid

import "sync"

const (
	lookupBits = 4
	swapMask   = 0x01
	invertMask = 0x02
)

var (
	// posToIJ gives the (i,j) quadrant, as i<<1|j, of each Hilbert position for an orientation
	posToIJ = [4][4]int{
		{0, 1, 3, 2}, // canonical order
		{0, 2, 3, 1}, // axes swapped
		{3, 2, 0, 1}, // bits inverted
		{3, 1, 0, 2}, // swapped & inverted
	}
	posToOrientation = [4]int{swapMask, 0, 0, invertMask | swapMask}
)

type lookupTables struct {
	pos [1 << (2*lookupBits + 2)]int
	ij  [1 << (2*lookupBits + 2)]int
}

var (
	lookupOnce sync.Once
	lookup     *lookupTables
)

// tables builds the 4 bit lookup tables on first use. They are never written after that.
func tables() *lookupTables {
	lookupOnce.Do(func() {
		t := &lookupTables{}
		t.initCell(0, 0, 0, 0, 0, 0)
		t.initCell(0, 0, 0, swapMask, 0, swapMask)
		t.initCell(0, 0, 0, invertMask, 0, invertMask)
		t.initCell(0, 0, 0, swapMask|invertMask, 0, swapMask|invertMask)
		lookup = t
	})
	return lookup
}

func (t *lookupTables) initCell(level, i, j, origOrientation, pos, orientation int) {
	if level == lookupBits {
		ij := (i << lookupBits) + j
		t.pos[(ij<<2)+origOrientation] = (pos << 2) + orientation
		t.ij[(pos<<2)+origOrientation] = (ij << 2) + orientation
		return
	}
	level++
	i <<= 1
	j <<= 1
	pos <<= 2
	r := posToIJ[orientation]
	for sub := 0; sub < 4; sub++ {
		t.initCell(level, i+(r[sub]>>1), j+(r[sub]&1), origOrientation, pos+sub, orientation^posToOrientation[sub])
	}
}
