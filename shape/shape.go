// Package shape defines the closed set of shape specifications a geometry
// can carry. The registry treats shapes as opaque, cloneable values with a
// kind tag; interpreting the actual geometry is the proximity engine's job.
package shape

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidParameter reports an illegal geometric parameter, e.g. a
// negative radius.
var ErrInvalidParameter = errors.New("invalid shape parameter")

// Kind tags the concrete shape type. The set is closed: new shapes are added
// here, not by open subclassing.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindHalfSpace
	KindCylinder
	KindConvex
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindHalfSpace:
		return "half_space"
	case KindCylinder:
		return "cylinder"
	case KindConvex:
		return "convex"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Shape is the interface all shape specifications implement.
type Shape interface {
	Kind() Kind
	// Clone returns an independent copy of the specification.
	Clone() Shape
}

// Sphere is a sphere of the given radius, centered on its geometry's origin.
type Sphere struct {
	Radius float64
}

// NewSphere validates the radius and returns the specification.
func NewSphere(radius float64) (*Sphere, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: sphere radius %g must be positive", ErrInvalidParameter, radius)
	}
	return &Sphere{Radius: radius}, nil
}

func (s *Sphere) Kind() Kind   { return KindSphere }
func (s *Sphere) Clone() Shape { c := *s; return &c }

// Box is an axis-aligned box in its geometry's frame, given by half-extents.
type Box struct {
	HalfExtents mgl64.Vec3
}

// NewBox validates the half-extents and returns the specification.
func NewBox(halfExtents mgl64.Vec3) (*Box, error) {
	for i := 0; i < 3; i++ {
		if halfExtents[i] <= 0 {
			return nil, fmt.Errorf("%w: box half-extent %g must be positive", ErrInvalidParameter, halfExtents[i])
		}
	}
	return &Box{HalfExtents: halfExtents}, nil
}

func (b *Box) Kind() Kind   { return KindBox }
func (b *Box) Clone() Shape { c := *b; return &c }

// HalfSpace is the volume below the plane with the given outward normal,
// offset along the normal from the geometry's origin.
type HalfSpace struct {
	Normal mgl64.Vec3
	Offset float64
}

// NewHalfSpace validates and normalizes the plane normal.
func NewHalfSpace(normal mgl64.Vec3, offset float64) (*HalfSpace, error) {
	if normal.Len() == 0 {
		return nil, fmt.Errorf("%w: half-space normal must be nonzero", ErrInvalidParameter)
	}
	return &HalfSpace{Normal: normal.Normalize(), Offset: offset}, nil
}

func (h *HalfSpace) Kind() Kind   { return KindHalfSpace }
func (h *HalfSpace) Clone() Shape { c := *h; return &c }

// Cylinder is a cylinder centered on its geometry's origin with its axis
// along z.
type Cylinder struct {
	Radius float64
	Length float64
}

// NewCylinder validates radius and length and returns the specification.
func NewCylinder(radius, length float64) (*Cylinder, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: cylinder radius %g must be positive", ErrInvalidParameter, radius)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: cylinder length %g must be positive", ErrInvalidParameter, length)
	}
	return &Cylinder{Radius: radius, Length: length}, nil
}

func (c *Cylinder) Kind() Kind   { return KindCylinder }
func (c *Cylinder) Clone() Shape { d := *c; return &d }

// Convex references a convex mesh on disk. The registry does not load or
// interpret the file; the path travels with the specification.
type Convex struct {
	Filename string
	Scale    float64
}

// NewConvex validates the reference and returns the specification.
func NewConvex(filename string, scale float64) (*Convex, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: convex mesh filename must not be empty", ErrInvalidParameter)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: convex mesh scale %g must be positive", ErrInvalidParameter, scale)
	}
	return &Convex{Filename: filename, Scale: scale}, nil
}

func (c *Convex) Kind() Kind   { return KindConvex }
func (c *Convex) Clone() Shape { d := *c; return &d }
