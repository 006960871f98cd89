package state

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/scalar"
)

// Test-only accessors for registry internals. Production callers go through
// the exported query surface.

func filteredPairCount[T scalar.Value[T]](s *GeometryState[T]) int {
	return len(s.filtered)
}

func liveFrameCount[T scalar.Value[T]](s *GeometryState[T]) int {
	return len(s.frames)
}

func liveGeometryCount[T scalar.Value[T]](s *GeometryState[T]) int {
	return len(s.geometries)
}

func frameChildren[T scalar.Value[T]](s *GeometryState[T], id ident.FrameID) []ident.FrameID {
	rec, ok := s.frameRecord(id)
	if !ok {
		return nil
	}
	return rec.children
}
