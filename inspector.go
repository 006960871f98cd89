package armature

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/shape"
	"github.com/akmonengine/armature/state"
)

// Inspector is a read-only view over one GeometryState — the model's or a
// context's. It holds a reference, never a copy: it reflects mutations of
// its own backing state made after construction, and nothing else. Every
// query either succeeds or surfaces the backing state's error unchanged.
type Inspector[T scalar.Value[T]] struct {
	state *state.GeometryState[T]
}

// SourceIsRegistered reports whether the source is registered in the
// backing state.
func (i Inspector[T]) SourceIsRegistered(id ident.SourceID) bool {
	return i.state.SourceIsRegistered(id)
}

// SourceName returns the source's registered name.
func (i Inspector[T]) SourceName(id ident.SourceID) (string, error) {
	return i.state.SourceName(id)
}

// FrameBelongsToSource reports frame ownership; an unknown frame is an
// error, not false.
func (i Inspector[T]) FrameBelongsToSource(frame ident.FrameID, source ident.SourceID) (bool, error) {
	return i.state.FrameBelongsToSource(frame, source)
}

// GeometryBelongsToSource reports geometry ownership; an unknown geometry
// is an error, not false.
func (i Inspector[T]) GeometryBelongsToSource(geometry ident.GeometryID, source ident.SourceID) (bool, error) {
	return i.state.GeometryBelongsToSource(geometry, source)
}

// NumFramesForSource returns how many frames the source owns.
func (i Inspector[T]) NumFramesForSource(source ident.SourceID) (int, error) {
	return i.state.NumFramesForSource(source)
}

// NumGeometriesForFrame counts every geometry attached to the frame,
// including geometry-parented ones.
func (i Inspector[T]) NumGeometriesForFrame(frame ident.FrameID) (int, error) {
	return i.state.NumGeometriesForFrame(frame)
}

// FrameForGeometry returns the geometry's effective frame.
func (i Inspector[T]) FrameForGeometry(geometry ident.GeometryID) (ident.FrameID, error) {
	return i.state.FrameForGeometry(geometry)
}

// FrameName returns the frame's name.
func (i Inspector[T]) FrameName(frame ident.FrameID) (string, error) {
	return i.state.FrameName(frame)
}

// GeometryName returns the geometry's name.
func (i Inspector[T]) GeometryName(geometry ident.GeometryID) (string, error) {
	return i.state.GeometryName(geometry)
}

// GeometryShape returns a copy of the geometry's shape specification.
func (i Inspector[T]) GeometryShape(geometry ident.GeometryID) (shape.Shape, error) {
	return i.state.GeometryShape(geometry)
}

// GetGeometryIDByName resolves a geometry on the frame by role-filtered
// name.
func (i Inspector[T]) GetGeometryIDByName(frame ident.FrameID, role prop.Role, name string) (ident.GeometryID, error) {
	return i.state.GetGeometryIDByName(frame, role, name)
}

// GetProperties returns the properties the geometry carries for the role.
func (i Inspector[T]) GetProperties(geometry ident.GeometryID, role prop.Role) (*prop.Properties, error) {
	return i.state.GetProperties(geometry, role)
}

// HasRole reports whether the geometry carries the role.
func (i Inspector[T]) HasRole(geometry ident.GeometryID, role prop.Role) (bool, error) {
	return i.state.HasRole(geometry, role)
}

// CollisionFiltered reports whether the pair is excluded from proximity
// queries.
func (i Inspector[T]) CollisionFiltered(a, b ident.GeometryID) (bool, error) {
	return i.state.CollisionFiltered(a, b)
}

// PoseInWorld returns the frame's current world pose.
func (i Inspector[T]) PoseInWorld(frame ident.FrameID) (pose.Pose[T], error) {
	return i.state.PoseInWorld(frame)
}

// GeometryPoseInWorld returns the geometry's composed world pose.
func (i Inspector[T]) GeometryPoseInWorld(geometry ident.GeometryID) (pose.Pose[T], error) {
	return i.state.GeometryPoseInWorld(geometry)
}
