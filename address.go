package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdok/vtiler/cellid"
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/mercid"
)

// parseAddress turns a tile address into a tile id for the projection:
//
//	id:<decimal>    any id
//	z/x/y           Web Mercator, x may lie in a world copy
//	face/z/i/j      either projection, face 0 for Web Mercator
//	<token>         S2 cell token
func parseAddress(s string, projection geometry.Shape) (uint64, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "id:"); ok {
		id, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid tile id %q: %w", rest, err)
		}
		return id, nil
	}

	parts := strings.Split(s, "/")
	switch len(parts) {
	case 3:
		if projection != geometry.WG {
			return 0, fmt.Errorf("z/x/y address %q needs the %s projection", s, geometry.WG)
		}
		n, err := parseInts(parts)
		if err != nil {
			return 0, fmt.Errorf("invalid address %q: %w", s, err)
		}
		if n[0] < 0 || n[0] > mercid.MaxZoom {
			return 0, fmt.Errorf("invalid zoom in %q", s)
		}
		c := mercid.Coord{Zoom: uint8(n[0]), X: int32(n[1]), Y: int32(n[2])}
		if !c.IsValid() {
			return 0, fmt.Errorf("row out of range in %q", s)
		}
		return uint64(c.ID()), nil
	case 4:
		n, err := parseInts(parts)
		if err != nil {
			return 0, fmt.Errorf("invalid address %q: %w", s, err)
		}
		return faceIJ(s, projection, n)
	case 1:
		if projection != geometry.S2 {
			return 0, fmt.Errorf("unknown address %q", s)
		}
		id := cellid.FromToken(s)
		if !id.IsValid() {
			return 0, fmt.Errorf("invalid S2 token %q", s)
		}
		return uint64(id), nil
	default:
		return 0, fmt.Errorf("unknown address %q", s)
	}
}

func faceIJ(s string, projection geometry.Shape, n []int64) (uint64, error) {
	face, zoom, i, j := n[0], n[1], n[2], n[3]
	maxZoom, numFaces := int64(cellid.MaxLevel), int64(cellid.NumFaces)
	if projection == geometry.WG {
		maxZoom, numFaces = mercid.MaxZoom, 1
	}
	if face < 0 || face >= numFaces {
		return 0, fmt.Errorf("face out of range in %q", s)
	}
	if zoom < 0 || zoom > maxZoom {
		return 0, fmt.Errorf("zoom out of range in %q", s)
	}
	if i < 0 || j < 0 || i >= 1<<zoom || j >= 1<<zoom {
		return 0, fmt.Errorf("column or row out of range in %q", s)
	}
	if projection == geometry.WG {
		return uint64(mercid.FromIJ(0, uint32(i), uint32(j), int(zoom))), nil
	}
	return uint64(cellid.FromIJ(uint8(face), uint32(i), uint32(j), int(zoom))), nil
}

func parseInts(parts []string) ([]int64, error) {
	out := make([]int64, len(parts))
	for k, p := range parts {
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}
