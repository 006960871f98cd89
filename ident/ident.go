// Package ident provides the strongly-typed identifiers used throughout the
// registry. SourceID, FrameID and GeometryID are distinct types on purpose:
// mixing them up is a compile error, not a runtime surprise.
//
// Identifiers are allocated from per-kind process-global counters and are
// never reused, even after the thing they named has been removed. Whether an
// id is "registered" is a property of a specific GeometryState, not of the
// id itself.
package ident

import (
	"fmt"
	"sync/atomic"
)

// SourceID identifies a registered geometry source.
type SourceID uint64

// FrameID identifies a registered frame.
type FrameID uint64

// GeometryID identifies a registered geometry.
type GeometryID uint64

// World is the id of the implicit world frame. It is registered in every
// GeometryState, owned by no source, and can never be removed.
const World FrameID = 1

var (
	sourceCounter   atomic.Uint64
	frameCounter    atomic.Uint64
	geometryCounter atomic.Uint64
)

func init() {
	// The frame counter starts past the reserved world id.
	frameCounter.Store(uint64(World))
}

// NewSourceID returns a fresh, never-before-seen source id.
func NewSourceID() SourceID { return SourceID(sourceCounter.Add(1)) }

// NewFrameID returns a fresh, never-before-seen frame id.
func NewFrameID() FrameID { return FrameID(frameCounter.Add(1)) }

// NewGeometryID returns a fresh, never-before-seen geometry id.
func NewGeometryID() GeometryID { return GeometryID(geometryCounter.Add(1)) }

// IsValid reports whether the id holds an allocated value. The zero value of
// every id type is invalid.
func (id SourceID) IsValid() bool { return id != 0 }

// IsValid reports whether the id holds an allocated value.
func (id FrameID) IsValid() bool { return id != 0 }

// IsValid reports whether the id holds an allocated value.
func (id GeometryID) IsValid() bool { return id != 0 }

// IsWorld reports whether the id names the world frame.
func (id FrameID) IsWorld() bool { return id == World }

func (id SourceID) String() string { return fmt.Sprintf("source(%d)", uint64(id)) }

func (id FrameID) String() string {
	if id.IsWorld() {
		return "frame(world)"
	}
	return fmt.Sprintf("frame(%d)", uint64(id))
}

func (id GeometryID) String() string { return fmt.Sprintf("geometry(%d)", uint64(id)) }
