// Package geom holds the small amount of vector and box math the world
// needs for collision queries and block picking.
package geom

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// AABB is an axis-aligned box, Min inclusive, Max exclusive.
type AABB struct {
	Min, Max Vec3
}

func (a AABB) Touch(b AABB) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y &&
		a.Min.Z < b.Max.Z && b.Min.Z < a.Max.Z
}

func (a AABB) Contains(p Vec3) bool {
	return p.X >= a.Min.X && p.X < a.Max.X &&
		p.Y >= a.Min.Y && p.Y < a.Max.Y &&
		p.Z >= a.Min.Z && p.Z < a.Max.Z
}

// Side identifies the face of a box a ray entered through.
type Side uint8

const (
	SideNone Side = iota
	SideMinX
	SideMaxX
	SideMinY
	SideMaxY
	SideMinZ
	SideMaxZ
)

var sideNames = [...]string{"NONE", "MIN_X", "MAX_X", "MIN_Y", "MAX_Y", "MIN_Z", "MAX_Z"}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return "NONE"
}

const rayEps = 1e-12

// RayAABB intersects a ray with a box using the slab method and reports the
// entry distance along dir and the face entered through. A ray starting
// inside the box hits at distance 0 with SideNone.
func RayAABB(origin, dir Vec3, box AABB) (dist float64, side Side, ok bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	entry := SideNone

	axes := [3]struct {
		o, d, lo, hi float64
		neg, pos     Side
	}{
		{origin.X, dir.X, box.Min.X, box.Max.X, SideMinX, SideMaxX},
		{origin.Y, dir.Y, box.Min.Y, box.Max.Y, SideMinY, SideMaxY},
		{origin.Z, dir.Z, box.Min.Z, box.Max.Z, SideMinZ, SideMaxZ},
	}

	for _, ax := range axes {
		if math.Abs(ax.d) < rayEps {
			if ax.o < ax.lo || ax.o > ax.hi {
				return 0, SideNone, false
			}
			continue
		}
		t1 := (ax.lo - ax.o) / ax.d
		t2 := (ax.hi - ax.o) / ax.d
		s := ax.neg
		if t1 > t2 {
			t1, t2 = t2, t1
			s = ax.pos
		}
		if t1 > tmin {
			tmin = t1
			entry = s
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, SideNone, false
	}
	if tmin < 0 {
		// Origin inside the box.
		return 0, SideNone, true
	}
	return tmin, entry, true
}
