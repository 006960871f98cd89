// Package state holds GeometryState, the authoritative registry of sources,
// frames and geometries. A state instance is independently mutable: the
// scene graph's model state and each context's state are separate instances
// produced by Clone, and mutating one never affects another.
//
// Every mutating operation validates its arguments completely before
// touching the registry, so a failed call leaves the state exactly as it
// was.
package state

import (
	"github.com/google/uuid"

	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/shape"
)

// Frame is the registration specification for a frame. Pose is the frame's
// pose in its parent at registration time; the frame's current world pose is
// supplied externally per step through SetFramePoses.
type Frame[T scalar.Value[T]] struct {
	Name string
	Pose pose.Pose[T]
}

// Geometry is the registration specification for a geometry: a name (unique
// among its direct siblings), a pose in its parent (frame or geometry), and
// an opaque shape specification.
type Geometry[T scalar.Value[T]] struct {
	Name  string
	Pose  pose.Pose[T]
	Shape shape.Shape
}

type sourceRecord struct {
	name     string
	frames   []ident.FrameID    // every frame owned by the source, in registration order
	anchored []ident.GeometryID // geometries hung directly on the world frame
}

type frameRecord[T scalar.Value[T]] struct {
	name         string
	source       ident.SourceID
	parent       ident.FrameID
	children     []ident.FrameID
	geometries   []ident.GeometryID // every geometry whose effective frame is this frame
	poseInParent pose.Pose[T]
	poseInWorld  pose.Pose[T]
}

type geometryRecord[T scalar.Value[T]] struct {
	name         string
	source       ident.SourceID
	frame        ident.FrameID     // effective frame; ident.World for anchored geometry
	parent       ident.GeometryID  // zero when parented directly to the frame
	children     []ident.GeometryID
	poseInParent pose.Pose[T]
	shape        shape.Shape
	roles        map[prop.Role]*prop.Properties
}

// pairKey is a normalized unordered geometry pair, the unit of the
// collision-filter relation.
type pairKey struct {
	a, b ident.GeometryID
}

func makePairKey(a, b ident.GeometryID) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// GeometryState is the registry. The zero value is not usable; construct
// with New.
type GeometryState[T scalar.Value[T]] struct {
	sourceOrder []ident.SourceID
	sources     map[ident.SourceID]*sourceRecord
	sourceNames map[string]ident.SourceID
	world       *frameRecord[T]
	frames      map[ident.FrameID]*frameRecord[T]
	geometries  map[ident.GeometryID]*geometryRecord[T]
	filtered    map[pairKey]struct{}
}

// New returns an empty state containing only the world frame.
func New[T scalar.Value[T]]() *GeometryState[T] {
	return &GeometryState[T]{
		sources:     map[ident.SourceID]*sourceRecord{},
		sourceNames: map[string]ident.SourceID{},
		world: &frameRecord[T]{
			name:         "world",
			poseInParent: pose.Identity[T](),
			poseInWorld:  pose.Identity[T](),
		},
		frames:     map[ident.FrameID]*frameRecord[T]{},
		geometries: map[ident.GeometryID]*geometryRecord[T]{},
		filtered:   map[pairKey]struct{}{},
	}
}

// frameRecord resolves a frame id, treating the world frame as always
// registered.
func (s *GeometryState[T]) frameRecord(id ident.FrameID) (*frameRecord[T], bool) {
	if id.IsWorld() {
		return s.world, true
	}
	rec, ok := s.frames[id]
	return rec, ok
}

// RegisterSource registers a new source under the given name. An empty name
// selects an auto-generated unique one. A caller-specified name that is
// already taken is rejected with ErrDuplicateName.
func (s *GeometryState[T]) RegisterSource(name string) (ident.SourceID, error) {
	const op = "GeometryState.RegisterSource"
	if name == "" {
		name = "source_" + uuid.NewString()
	} else if _, taken := s.sourceNames[name]; taken {
		return 0, newError(op, ErrDuplicateName, "source name %q", name)
	}
	id := ident.NewSourceID()
	s.sources[id] = &sourceRecord{name: name}
	s.sourceNames[name] = id
	s.sourceOrder = append(s.sourceOrder, id)
	return id, nil
}

// SourceIsRegistered reports whether the source is registered in this state.
func (s *GeometryState[T]) SourceIsRegistered(id ident.SourceID) bool {
	_, ok := s.sources[id]
	return ok
}

// SourceName returns the source's registered name.
func (s *GeometryState[T]) SourceName(id ident.SourceID) (string, error) {
	rec, ok := s.sources[id]
	if !ok {
		return "", newError("GeometryState.SourceName", ErrUnregisteredSource, "%v", id)
	}
	return rec.name, nil
}

// SourceOrder returns the registered source ids in registration order.
func (s *GeometryState[T]) SourceOrder() []ident.SourceID {
	out := make([]ident.SourceID, len(s.sourceOrder))
	copy(out, s.sourceOrder)
	return out
}

// RegisterFrame registers a frame owned by source as a child of parent.
// Pass ident.World to hang the frame directly off the world frame. A parent
// that is unregistered, or registered to a different source, is reported as
// ErrUnknownFrame.
func (s *GeometryState[T]) RegisterFrame(source ident.SourceID, parent ident.FrameID, f Frame[T]) (ident.FrameID, error) {
	const op = "GeometryState.RegisterFrame"
	src, ok := s.sources[source]
	if !ok {
		return 0, newError(op, ErrUnregisteredSource, "%v", source)
	}
	if f.Name == "" {
		return 0, newError(op, ErrInvalidName, "frame name must not be empty")
	}
	parentRec, ok := s.frameRecord(parent)
	if !ok {
		return 0, newError(op, ErrUnknownFrame, "parent %v", parent)
	}
	if !parent.IsWorld() && parentRec.source != source {
		return 0, newError(op, ErrUnknownFrame, "parent %v is registered to %v, not %v",
			parent, parentRec.source, source)
	}
	if f.Pose.IsZero() {
		f.Pose = pose.Identity[T]()
	}

	id := ident.NewFrameID()
	s.frames[id] = &frameRecord[T]{
		name:         f.Name,
		source:       source,
		parent:       parent,
		poseInParent: f.Pose,
		poseInWorld:  parentRec.poseInWorld.Mul(f.Pose),
	}
	parentRec.children = append(parentRec.children, id)
	src.frames = append(src.frames, id)
	return id, nil
}

// RegisterGeometry registers a geometry owned by source on the given frame.
// Pass ident.World for anchored geometry (or use RegisterAnchoredGeometry).
// Geometry names must be unique among the direct children of the frame.
func (s *GeometryState[T]) RegisterGeometry(source ident.SourceID, frame ident.FrameID, g Geometry[T]) (ident.GeometryID, error) {
	const op = "GeometryState.RegisterGeometry"
	src, ok := s.sources[source]
	if !ok {
		return 0, newError(op, ErrUnregisteredSource, "%v", source)
	}
	frameRec, ok := s.frameRecord(frame)
	if !ok {
		return 0, newError(op, ErrUnknownFrame, "%v", frame)
	}
	if !frame.IsWorld() && frameRec.source != source {
		return 0, newError(op, ErrUnknownFrame, "%v is registered to %v, not %v",
			frame, frameRec.source, source)
	}
	if err := s.validateGeometrySpec(op, &g); err != nil {
		return 0, err
	}
	for _, sibling := range frameRec.geometries {
		sib := s.geometries[sibling]
		if !sib.parent.IsValid() && sib.name == g.Name {
			return 0, newError(op, ErrDuplicateName, "geometry name %q on %v", g.Name, frame)
		}
	}

	id := ident.NewGeometryID()
	s.geometries[id] = &geometryRecord[T]{
		name:         g.Name,
		source:       source,
		frame:        frame,
		poseInParent: g.Pose,
		shape:        g.Shape.Clone(),
		roles:        map[prop.Role]*prop.Properties{},
	}
	frameRec.geometries = append(frameRec.geometries, id)
	if frame.IsWorld() {
		src.anchored = append(src.anchored, id)
	}
	return id, nil
}

// RegisterGeometryOnGeometry registers a geometry rigidly attached to
// another geometry. The new geometry's effective frame is the parent
// geometry's frame; its pose is relative to the parent geometry.
func (s *GeometryState[T]) RegisterGeometryOnGeometry(source ident.SourceID, parent ident.GeometryID, g Geometry[T]) (ident.GeometryID, error) {
	const op = "GeometryState.RegisterGeometryOnGeometry"
	if _, ok := s.sources[source]; !ok {
		return 0, newError(op, ErrUnregisteredSource, "%v", source)
	}
	parentRec, ok := s.geometries[parent]
	if !ok {
		return 0, newError(op, ErrUnknownGeometry, "parent %v", parent)
	}
	if parentRec.source != source {
		return 0, newError(op, ErrUnknownGeometry, "parent %v is registered to %v, not %v",
			parent, parentRec.source, source)
	}
	if err := s.validateGeometrySpec(op, &g); err != nil {
		return 0, err
	}
	for _, sibling := range parentRec.children {
		if s.geometries[sibling].name == g.Name {
			return 0, newError(op, ErrDuplicateName, "geometry name %q under %v", g.Name, parent)
		}
	}

	id := ident.NewGeometryID()
	s.geometries[id] = &geometryRecord[T]{
		name:         g.Name,
		source:       source,
		frame:        parentRec.frame,
		parent:       parent,
		poseInParent: g.Pose,
		shape:        g.Shape.Clone(),
		roles:        map[prop.Role]*prop.Properties{},
	}
	parentRec.children = append(parentRec.children, id)
	frameRec, _ := s.frameRecord(parentRec.frame)
	frameRec.geometries = append(frameRec.geometries, id)
	if parentRec.frame.IsWorld() {
		src := s.sources[source]
		src.anchored = append(src.anchored, id)
	}
	return id, nil
}

// RegisterAnchoredGeometry registers a geometry fixed directly to the world
// frame.
func (s *GeometryState[T]) RegisterAnchoredGeometry(source ident.SourceID, g Geometry[T]) (ident.GeometryID, error) {
	return s.RegisterGeometry(source, ident.World, g)
}

// validateGeometrySpec checks a registration spec and normalizes a
// zero-valued pose to identity.
func (s *GeometryState[T]) validateGeometrySpec(op string, g *Geometry[T]) error {
	if g.Name == "" {
		return newError(op, ErrInvalidName, "geometry name must not be empty")
	}
	if g.Shape == nil {
		return newError(op, ErrInvalidName, "geometry %q carries no shape", g.Name)
	}
	if g.Pose.IsZero() {
		g.Pose = pose.Identity[T]()
	}
	return nil
}

// RemoveFrame removes the frame, all of its descendant frames, and every
// geometry attached to any of them. The source must own the frame. All
// removed ids become permanently unknown to this state.
func (s *GeometryState[T]) RemoveFrame(source ident.SourceID, frame ident.FrameID) error {
	const op = "GeometryState.RemoveFrame"
	if _, ok := s.sources[source]; !ok {
		return newError(op, ErrUnregisteredSource, "%v", source)
	}
	if frame.IsWorld() {
		return newError(op, ErrOwnership, "the world frame is owned by no source and cannot be removed")
	}
	rec, ok := s.frames[frame]
	if !ok {
		return newError(op, ErrUnknownFrame, "%v", frame)
	}
	if rec.source != source {
		return newError(op, ErrOwnership, "%v is registered to %v, not %v", frame, rec.source, source)
	}
	s.removeFrameTree(frame)
	return nil
}

// removeFrameTree tears down a frame subtree, detaching every frame from
// its parent as it goes. The caller has already validated ownership.
func (s *GeometryState[T]) removeFrameTree(frame ident.FrameID) {
	rec := s.frames[frame]
	// Direct geometries first; child geometries share the attached list, so
	// remove roots only and let the cascade handle the rest.
	for len(rec.geometries) > 0 {
		s.removeGeometryTree(rec.geometries[0])
	}
	for len(rec.children) > 0 {
		s.removeFrameTree(rec.children[0])
	}
	src := s.sources[rec.source]
	src.frames = removeID(src.frames, frame)
	parentRec, ok := s.frameRecord(rec.parent)
	if ok {
		parentRec.children = removeID(parentRec.children, frame)
	}
	delete(s.frames, frame)
}

// RemoveGeometry removes the geometry and, recursively, every geometry
// attached to it. The source must own the geometry.
func (s *GeometryState[T]) RemoveGeometry(source ident.SourceID, geometry ident.GeometryID) error {
	const op = "GeometryState.RemoveGeometry"
	if _, ok := s.sources[source]; !ok {
		return newError(op, ErrUnregisteredSource, "%v", source)
	}
	rec, ok := s.geometries[geometry]
	if !ok {
		return newError(op, ErrUnknownGeometry, "%v", geometry)
	}
	if rec.source != source {
		return newError(op, ErrOwnership, "%v is registered to %v, not %v", geometry, rec.source, source)
	}
	s.removeGeometryTree(geometry)
	return nil
}

func (s *GeometryState[T]) removeGeometryTree(geometry ident.GeometryID) {
	rec := s.geometries[geometry]
	for len(rec.children) > 0 {
		s.removeGeometryTree(rec.children[0])
	}
	if frameRec, ok := s.frameRecord(rec.frame); ok {
		frameRec.geometries = removeID(frameRec.geometries, geometry)
	}
	if rec.parent.IsValid() {
		if parentRec, ok := s.geometries[rec.parent]; ok {
			parentRec.children = removeID(parentRec.children, geometry)
		}
	}
	if rec.frame.IsWorld() {
		src := s.sources[rec.source]
		src.anchored = removeID(src.anchored, geometry)
	}
	for pair := range s.filtered {
		if pair.a == geometry || pair.b == geometry {
			delete(s.filtered, pair)
		}
	}
	delete(s.geometries, geometry)
}

func removeID[ID comparable](ids []ID, target ID) []ID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// AssignRole attaches (or overwrites) the role carried by the properties to
// the geometry. Re-assigning the same role replaces its properties.
func (s *GeometryState[T]) AssignRole(source ident.SourceID, geometry ident.GeometryID, properties *prop.Properties) error {
	const op = "GeometryState.AssignRole"
	if _, ok := s.sources[source]; !ok {
		return newError(op, ErrUnregisteredSource, "%v", source)
	}
	rec, ok := s.geometries[geometry]
	if !ok {
		return newError(op, ErrUnknownGeometry, "%v", geometry)
	}
	if rec.source != source {
		return newError(op, ErrOwnership, "%v is registered to %v, not %v", geometry, rec.source, source)
	}
	if properties == nil || properties.Role() == prop.RoleUnassigned {
		return newError(op, ErrInvalidName, "properties must carry a concrete role")
	}
	rec.roles[properties.Role()] = properties.Clone()
	return nil
}

// RemoveRole detaches the role from the geometry. Removing a role the
// geometry does not carry is a no-op.
func (s *GeometryState[T]) RemoveRole(source ident.SourceID, geometry ident.GeometryID, role prop.Role) error {
	const op = "GeometryState.RemoveRole"
	if _, ok := s.sources[source]; !ok {
		return newError(op, ErrUnregisteredSource, "%v", source)
	}
	rec, ok := s.geometries[geometry]
	if !ok {
		return newError(op, ErrUnknownGeometry, "%v", geometry)
	}
	if rec.source != source {
		return newError(op, ErrOwnership, "%v is registered to %v, not %v", geometry, rec.source, source)
	}
	delete(rec.roles, role)
	return nil
}

// FrameBelongsToSource reports whether the frame is owned by the source.
// An unknown frame is an error, not false: false means "registered here,
// owned by someone else". The world frame belongs to no source.
func (s *GeometryState[T]) FrameBelongsToSource(frame ident.FrameID, source ident.SourceID) (bool, error) {
	if frame.IsWorld() {
		return false, nil
	}
	rec, ok := s.frames[frame]
	if !ok {
		return false, newError("GeometryState.FrameBelongsToSource", ErrUnknownFrame, "%v", frame)
	}
	return rec.source == source, nil
}

// GeometryBelongsToSource is the geometry analogue of FrameBelongsToSource.
func (s *GeometryState[T]) GeometryBelongsToSource(geometry ident.GeometryID, source ident.SourceID) (bool, error) {
	rec, ok := s.geometries[geometry]
	if !ok {
		return false, newError("GeometryState.GeometryBelongsToSource", ErrUnknownGeometry, "%v", geometry)
	}
	return rec.source == source, nil
}

// SetFramePoses writes the current world poses for every frame the source
// owns. The supplied map must cover the source's frames exactly: an id the
// source does not own is ErrOwnership (or ErrUnknownFrame if unregistered),
// a missing owned frame is ErrPortMismatch. Validation completes before any
// pose is written.
func (s *GeometryState[T]) SetFramePoses(source ident.SourceID, poses map[ident.FrameID]pose.Pose[T]) error {
	const op = "GeometryState.SetFramePoses"
	src, ok := s.sources[source]
	if !ok {
		return newError(op, ErrUnregisteredSource, "%v", source)
	}
	for fid := range poses {
		rec, ok := s.frames[fid]
		if !ok {
			return newError(op, ErrUnknownFrame, "pose supplied for %v", fid)
		}
		if rec.source != source {
			return newError(op, ErrOwnership, "pose supplied for %v, registered to %v", fid, rec.source)
		}
	}
	if len(poses) != len(src.frames) {
		for _, fid := range src.frames {
			if _, ok := poses[fid]; !ok {
				return newError(op, ErrPortMismatch, "no pose supplied for %v", fid)
			}
		}
	}
	for fid, p := range poses {
		s.frames[fid].poseInWorld = p
	}
	return nil
}

// ExcludeCollisionsWithin adds every unordered pair within the set to the
// collision-filter relation. Already-filtered pairs are untouched.
func (s *GeometryState[T]) ExcludeCollisionsWithin(set GeometrySet) error {
	ids, err := s.expand("GeometryState.ExcludeCollisionsWithin", set)
	if err != nil {
		return err
	}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			s.filtered[makePairKey(ids[i], ids[j])] = struct{}{}
		}
	}
	return nil
}

// ExcludeCollisionsBetween adds every pair spanning setA and setB to the
// collision-filter relation. A geometry appearing in both sets is never
// paired with itself.
func (s *GeometryState[T]) ExcludeCollisionsBetween(setA, setB GeometrySet) error {
	const op = "GeometryState.ExcludeCollisionsBetween"
	idsA, err := s.expand(op, setA)
	if err != nil {
		return err
	}
	idsB, err := s.expand(op, setB)
	if err != nil {
		return err
	}
	for _, a := range idsA {
		for _, b := range idsB {
			if a == b {
				continue
			}
			s.filtered[makePairKey(a, b)] = struct{}{}
		}
	}
	return nil
}

// CollisionFiltered reports whether the unordered pair is excluded from
// proximity queries. Both geometries must be registered.
func (s *GeometryState[T]) CollisionFiltered(a, b ident.GeometryID) (bool, error) {
	const op = "GeometryState.CollisionFiltered"
	if _, ok := s.geometries[a]; !ok {
		return false, newError(op, ErrUnknownGeometry, "%v", a)
	}
	if _, ok := s.geometries[b]; !ok {
		return false, newError(op, ErrUnknownGeometry, "%v", b)
	}
	if a == b {
		return false, nil
	}
	_, ok := s.filtered[makePairKey(a, b)]
	return ok, nil
}

// FilteredPairs returns the filter relation as a sorted slice of normalized
// pairs. The slice is a copy.
func (s *GeometryState[T]) FilteredPairs() [][2]ident.GeometryID {
	out := make([][2]ident.GeometryID, 0, len(s.filtered))
	for pair := range s.filtered {
		out = append(out, [2]ident.GeometryID{pair.a, pair.b})
	}
	sortPairs(out)
	return out
}

func sortPairs(pairs [][2]ident.GeometryID) {
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && lessPair(pairs[j], pairs[j-1]); j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
}

func lessPair(a, b [2]ident.GeometryID) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// GetGeometryIDByName resolves a geometry attached to the frame by name,
// restricted to geometries matching the role (RoleUnassigned matches
// geometries carrying no role at all).
func (s *GeometryState[T]) GetGeometryIDByName(frame ident.FrameID, role prop.Role, name string) (ident.GeometryID, error) {
	const op = "GeometryState.GetGeometryIDByName"
	rec, ok := s.frameRecord(frame)
	if !ok {
		return 0, newError(op, ErrUnknownFrame, "%v", frame)
	}
	var found ident.GeometryID
	count := 0
	for _, gid := range rec.geometries {
		g := s.geometries[gid]
		if g.name != name || !roleMatches(g, role) {
			continue
		}
		found = gid
		count++
	}
	switch {
	case count == 0:
		return 0, newError(op, ErrNotFound, "name %q with role %v on %v", name, role, frame)
	case count > 1:
		return 0, newError(op, ErrAmbiguousName, "name %q matches %d geometries on %v", name, count, frame)
	}
	return found, nil
}

func roleMatches[T scalar.Value[T]](g *geometryRecord[T], role prop.Role) bool {
	if role == prop.RoleUnassigned {
		return len(g.roles) == 0
	}
	_, ok := g.roles[role]
	return ok
}

// NumFramesForSource returns how many frames the source owns.
func (s *GeometryState[T]) NumFramesForSource(source ident.SourceID) (int, error) {
	rec, ok := s.sources[source]
	if !ok {
		return 0, newError("GeometryState.NumFramesForSource", ErrUnregisteredSource, "%v", source)
	}
	return len(rec.frames), nil
}

// FramesForSource returns the source's frames in registration order.
func (s *GeometryState[T]) FramesForSource(source ident.SourceID) ([]ident.FrameID, error) {
	rec, ok := s.sources[source]
	if !ok {
		return nil, newError("GeometryState.FramesForSource", ErrUnregisteredSource, "%v", source)
	}
	out := make([]ident.FrameID, len(rec.frames))
	copy(out, rec.frames)
	return out, nil
}

// NumGeometriesForFrame counts every geometry whose effective frame is the
// given frame, including geometry-parented ones.
func (s *GeometryState[T]) NumGeometriesForFrame(frame ident.FrameID) (int, error) {
	rec, ok := s.frameRecord(frame)
	if !ok {
		return 0, newError("GeometryState.NumGeometriesForFrame", ErrUnknownFrame, "%v", frame)
	}
	return len(rec.geometries), nil
}

// GeometriesForFrame returns the frame's attached geometries in registration
// order.
func (s *GeometryState[T]) GeometriesForFrame(frame ident.FrameID) ([]ident.GeometryID, error) {
	rec, ok := s.frameRecord(frame)
	if !ok {
		return nil, newError("GeometryState.GeometriesForFrame", ErrUnknownFrame, "%v", frame)
	}
	out := make([]ident.GeometryID, len(rec.geometries))
	copy(out, rec.geometries)
	return out, nil
}

// FrameForGeometry returns the geometry's effective frame.
func (s *GeometryState[T]) FrameForGeometry(geometry ident.GeometryID) (ident.FrameID, error) {
	rec, ok := s.geometries[geometry]
	if !ok {
		return 0, newError("GeometryState.FrameForGeometry", ErrUnknownGeometry, "%v", geometry)
	}
	return rec.frame, nil
}

// FrameName returns the frame's name ("world" for the world frame).
func (s *GeometryState[T]) FrameName(frame ident.FrameID) (string, error) {
	rec, ok := s.frameRecord(frame)
	if !ok {
		return "", newError("GeometryState.FrameName", ErrUnknownFrame, "%v", frame)
	}
	return rec.name, nil
}

// GeometryName returns the geometry's name.
func (s *GeometryState[T]) GeometryName(geometry ident.GeometryID) (string, error) {
	rec, ok := s.geometries[geometry]
	if !ok {
		return "", newError("GeometryState.GeometryName", ErrUnknownGeometry, "%v", geometry)
	}
	return rec.name, nil
}

// GeometryShape returns a copy of the geometry's shape specification.
func (s *GeometryState[T]) GeometryShape(geometry ident.GeometryID) (shape.Shape, error) {
	rec, ok := s.geometries[geometry]
	if !ok {
		return nil, newError("GeometryState.GeometryShape", ErrUnknownGeometry, "%v", geometry)
	}
	return rec.shape.Clone(), nil
}

// GetProperties returns a copy of the properties the geometry carries for
// the role, or ErrNotFound if the role is not assigned.
func (s *GeometryState[T]) GetProperties(geometry ident.GeometryID, role prop.Role) (*prop.Properties, error) {
	const op = "GeometryState.GetProperties"
	rec, ok := s.geometries[geometry]
	if !ok {
		return nil, newError(op, ErrUnknownGeometry, "%v", geometry)
	}
	props, ok := rec.roles[role]
	if !ok {
		return nil, newError(op, ErrNotFound, "%v has no %v role", geometry, role)
	}
	return props.Clone(), nil
}

// HasRole reports whether the geometry carries the role.
func (s *GeometryState[T]) HasRole(geometry ident.GeometryID, role prop.Role) (bool, error) {
	rec, ok := s.geometries[geometry]
	if !ok {
		return false, newError("GeometryState.HasRole", ErrUnknownGeometry, "%v", geometry)
	}
	return roleMatches(rec, role), nil
}

// FrameHasRoleGeometry reports whether any geometry attached to the frame
// carries the role.
func (s *GeometryState[T]) FrameHasRoleGeometry(frame ident.FrameID, role prop.Role) (bool, error) {
	rec, ok := s.frameRecord(frame)
	if !ok {
		return false, newError("GeometryState.FrameHasRoleGeometry", ErrUnknownFrame, "%v", frame)
	}
	for _, gid := range rec.geometries {
		if roleMatches(s.geometries[gid], role) {
			return true, nil
		}
	}
	return false, nil
}

// PoseInWorld returns the frame's current world pose.
func (s *GeometryState[T]) PoseInWorld(frame ident.FrameID) (pose.Pose[T], error) {
	rec, ok := s.frameRecord(frame)
	if !ok {
		return pose.Pose[T]{}, newError("GeometryState.PoseInWorld", ErrUnknownFrame, "%v", frame)
	}
	return rec.poseInWorld, nil
}

// GeometryPoseInWorld composes the geometry's world pose from its frame's
// current world pose and the chain of parent-relative offsets.
func (s *GeometryState[T]) GeometryPoseInWorld(geometry ident.GeometryID) (pose.Pose[T], error) {
	rec, ok := s.geometries[geometry]
	if !ok {
		return pose.Pose[T]{}, newError("GeometryState.GeometryPoseInWorld", ErrUnknownGeometry, "%v", geometry)
	}
	// Walk up the geometry chain, composing right to left.
	local := rec.poseInParent
	for rec.parent.IsValid() {
		rec = s.geometries[rec.parent]
		local = rec.poseInParent.Mul(local)
	}
	frameRec, _ := s.frameRecord(rec.frame)
	return frameRec.poseInWorld.Mul(local), nil
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// This is the copy-on-allocate primitive behind context allocation.
func (s *GeometryState[T]) Clone() *GeometryState[T] {
	c := &GeometryState[T]{
		sourceOrder: append([]ident.SourceID(nil), s.sourceOrder...),
		sources:     make(map[ident.SourceID]*sourceRecord, len(s.sources)),
		sourceNames: make(map[string]ident.SourceID, len(s.sourceNames)),
		world:       s.world.clone(),
		frames:      make(map[ident.FrameID]*frameRecord[T], len(s.frames)),
		geometries:  make(map[ident.GeometryID]*geometryRecord[T], len(s.geometries)),
		filtered:    make(map[pairKey]struct{}, len(s.filtered)),
	}
	for id, rec := range s.sources {
		c.sources[id] = &sourceRecord{
			name:     rec.name,
			frames:   append([]ident.FrameID(nil), rec.frames...),
			anchored: append([]ident.GeometryID(nil), rec.anchored...),
		}
	}
	for name, id := range s.sourceNames {
		c.sourceNames[name] = id
	}
	for id, rec := range s.frames {
		c.frames[id] = rec.clone()
	}
	for id, rec := range s.geometries {
		c.geometries[id] = rec.clone()
	}
	for pair := range s.filtered {
		c.filtered[pair] = struct{}{}
	}
	return c
}

func (f *frameRecord[T]) clone() *frameRecord[T] {
	return &frameRecord[T]{
		name:         f.name,
		source:       f.source,
		parent:       f.parent,
		children:     append([]ident.FrameID(nil), f.children...),
		geometries:   append([]ident.GeometryID(nil), f.geometries...),
		poseInParent: f.poseInParent,
		poseInWorld:  f.poseInWorld,
	}
}

func (g *geometryRecord[T]) clone() *geometryRecord[T] {
	c := &geometryRecord[T]{
		name:         g.name,
		source:       g.source,
		frame:        g.frame,
		parent:       g.parent,
		children:     append([]ident.GeometryID(nil), g.children...),
		poseInParent: g.poseInParent,
		shape:        g.shape.Clone(),
		roles:        make(map[prop.Role]*prop.Properties, len(g.roles)),
	}
	for role, props := range g.roles {
		c.roles[role] = props.Clone()
	}
	return c
}
