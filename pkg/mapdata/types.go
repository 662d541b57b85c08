// Package mapdata holds the static geometry of a level as flat record
// tables. Records refer to each other by index into those tables; -1 (None)
// means "no reference". Maps are treated as immutable values: editing
// helpers return a new Map and leave the receiver untouched.
package mapdata

import (
	"fmt"

	"github.com/taigrr/pfhor/pkg/lights"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// None marks an absent index reference.
const None = -1

// WorldUnit is the length of one world unit in map units.
const WorldUnit = 1024

// ShapeDescriptor packs a texture's collection (5 bits), colour table
// (3 bits) and bitmap index (8 bits) into one integer.
type ShapeDescriptor uint16

// NoTexture is the descriptor of an empty texture slot.
const NoTexture ShapeDescriptor = 0xffff

// NewShapeDescriptor packs collection, clut and bitmap.
func NewShapeDescriptor(collection, clut, bitmap int) ShapeDescriptor {
	return ShapeDescriptor((collection&0x1f)<<8 | (clut&0x7)<<13 | bitmap&0xff)
}

// Collection returns the collection id.
func (d ShapeDescriptor) Collection() int { return int(d>>8) & 0x1f }

// CLUT returns the colour table id.
func (d ShapeDescriptor) CLUT() int { return int(d>>13) & 0x7 }

// Bitmap returns the bitmap index within the collection.
func (d ShapeDescriptor) Bitmap() int { return int(d) & 0xff }

// Valid reports whether d names a texture.
func (d ShapeDescriptor) Valid() bool { return d != NoTexture }

func (d ShapeDescriptor) String() string {
	if !d.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d/%d/%d", d.Collection(), d.CLUT(), d.Bitmap())
}

// TransferMode is the rendering treatment of a textured surface.
type TransferMode int

const (
	Normal TransferMode = iota
	Landscape
	Static
	HorizontalSlide
	FastHorizontalSlide
)

func (t TransferMode) String() string {
	switch t {
	case Normal:
		return "normal"
	case Landscape:
		return "landscape"
	case Static:
		return "static"
	case HorizontalSlide:
		return "slide"
	case FastHorizontalSlide:
		return "fast-slide"
	default:
		return "unknown"
	}
}

// SideType records which texture slots a side uses.
type SideType int

const (
	Full      SideType = iota // solid wall, primary only
	High                      // neighbour ceiling lower, primary above the portal
	Low                       // neighbour floor higher, primary below the portal
	Composite                 // primary above, secondary below, shared light
	Split                     // primary above, secondary below
)

// SurfaceTexture is one textured slot of a side, floor or ceiling.
type SurfaceTexture struct {
	Texture  ShapeDescriptor `json:"texture" yaml:"texture"`
	Offset   math3d.Vec2     `json:"offset" yaml:"offset"`
	Transfer TransferMode    `json:"transfer,omitempty" yaml:"transfer,omitempty"`
	Light    int             `json:"light" yaml:"light"`
}

// Blank returns an untextured slot lit by light.
func Blank(light int) SurfaceTexture {
	return SurfaceTexture{Texture: NoTexture, Light: light}
}

// Line joins two points and separates up to two polygons.
type Line struct {
	Begin     int `json:"begin" yaml:"begin"`
	End       int `json:"end" yaml:"end"`
	FrontPoly int `json:"frontPoly" yaml:"frontPoly"`
	BackPoly  int `json:"backPoly" yaml:"backPoly"`
	FrontSide int `json:"frontSide" yaml:"frontSide"`
	BackSide  int `json:"backSide" yaml:"backSide"`
}

// Portal reports whether polygons lie on both sides of the line.
func (l Line) Portal() bool {
	return l.FrontPoly != None && l.BackPoly != None
}

// Side is the decoration of a line as seen from one of its polygons.
type Side struct {
	Polygon     int            `json:"polygon" yaml:"polygon"`
	Line        int            `json:"line" yaml:"line"`
	Type        SideType       `json:"type" yaml:"type"`
	Primary     SurfaceTexture `json:"primary" yaml:"primary"`
	Secondary   SurfaceTexture `json:"secondary" yaml:"secondary"`
	Transparent SurfaceTexture `json:"transparent" yaml:"transparent"`
}

// Slot returns the texture in slot s. Horizontal slots return a blank.
func (s Side) Slot(slot Slot) SurfaceTexture {
	switch slot {
	case Primary:
		return s.Primary
	case Secondary:
		return s.Secondary
	case Transparent:
		return s.Transparent
	default:
		return Blank(None)
	}
}

// BelowSlot returns the slot textured below a portal. Split and composite
// sides keep the primary slot for the slice above, so when that slice
// exists the lower one moves to the secondary slot.
func (s Side) BelowSlot(hasAbove bool) Slot {
	switch s.Type {
	case Split, Composite:
		return Secondary
	case Low:
		return Primary
	default:
		if hasAbove {
			return Secondary
		}
		return Primary
	}
}

// Polygon is a convex floor region. Endpoints, Lines and Sides are aligned:
// wall i runs from Endpoints[i] to Endpoints[(i+1)%n] along Lines[i] and is
// decorated by Sides[i] (None for an undecorated wall).
type Polygon struct {
	Endpoints     []int          `json:"endpoints" yaml:"endpoints"`
	Lines         []int          `json:"lines" yaml:"lines"`
	Sides         []int          `json:"sides" yaml:"sides"`
	FloorHeight   float64        `json:"floorHeight" yaml:"floorHeight"`
	CeilingHeight float64        `json:"ceilingHeight" yaml:"ceilingHeight"`
	Floor         SurfaceTexture `json:"floor" yaml:"floor"`
	Ceiling       SurfaceTexture `json:"ceiling" yaml:"ceiling"`
	Media         int            `json:"media" yaml:"media"`
}

// Walls returns the number of walls.
func (p Polygon) Walls() int {
	return len(p.Endpoints)
}

// MediaType is the kind of liquid.
type MediaType int

const (
	Water MediaType = iota
	Lava
	Goo
	Sewage
	Jjaro
)

// TicksPerSecond is the simulation clock rate.
const TicksPerSecond = 30

// Media is a liquid whose height follows a light and whose surface drifts
// with a current.
type Media struct {
	Type MediaType `json:"type" yaml:"type"`
	// Direction of the current in radians, Magnitude in map units per tick.
	Direction float64         `json:"direction" yaml:"direction"`
	Magnitude float64         `json:"magnitude" yaml:"magnitude"`
	Low       float64         `json:"low" yaml:"low"`
	High      float64         `json:"high" yaml:"high"`
	Light     int             `json:"light" yaml:"light"`
	Texture   ShapeDescriptor `json:"texture" yaml:"texture"`
	Transfer  TransferMode    `json:"transfer,omitempty" yaml:"transfer,omitempty"`
	Origin    math3d.Vec2     `json:"origin" yaml:"origin"`
}

// Light is a tagged light source.
type Light struct {
	Tag         int `json:"tag" yaml:"tag"`
	lights.Spec `yaml:",inline"`
}
