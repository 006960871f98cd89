package state

import (
	"sort"

	"github.com/akmonengine/armature/ident"
)

// GeometrySet names a collection of geometries, either directly by geometry
// id or indirectly by frame id (meaning every geometry attached to that
// frame). Sets are plain values; they are resolved against a specific
// GeometryState by the collision-filter operations.
type GeometrySet struct {
	Frames     []ident.FrameID
	Geometries []ident.GeometryID
}

// GeometrySetFrom is shorthand for a set of explicit geometry ids.
func GeometrySetFrom(ids ...ident.GeometryID) GeometrySet {
	return GeometrySet{Geometries: ids}
}

// GeometrySetFromFrames is shorthand for a set of frames.
func GeometrySetFromFrames(ids ...ident.FrameID) GeometrySet {
	return GeometrySet{Frames: ids}
}

// expand resolves the set to the concrete geometry ids it covers, in
// ascending id order. Every referenced id must be registered.
func (s *GeometryState[T]) expand(op string, set GeometrySet) ([]ident.GeometryID, error) {
	seen := map[ident.GeometryID]struct{}{}
	for _, gid := range set.Geometries {
		if _, ok := s.geometries[gid]; !ok {
			return nil, newError(op, ErrUnknownGeometry, "set references %v", gid)
		}
		seen[gid] = struct{}{}
	}
	for _, fid := range set.Frames {
		rec, ok := s.frameRecord(fid)
		if !ok {
			return nil, newError(op, ErrUnknownFrame, "set references %v", fid)
		}
		for _, gid := range rec.geometries {
			seen[gid] = struct{}{}
		}
	}
	ids := make([]ident.GeometryID, 0, len(seen))
	for gid := range seen {
		ids = append(ids, gid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
