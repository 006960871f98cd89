package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/shape"
)

func sphere(t *testing.T, radius float64) shape.Shape {
	t.Helper()
	s, err := shape.NewSphere(radius)
	require.NoError(t, err)
	return s
}

func geometrySpec(t *testing.T, name string) Geometry[scalar.Float64] {
	t.Helper()
	return Geometry[scalar.Float64]{Name: name, Shape: sphere(t, 0.5)}
}

// registerSource is a require-wrapped RegisterSource for fixtures.
func registerSource(t *testing.T, s *GeometryState[scalar.Float64], name string) ident.SourceID {
	t.Helper()
	id, err := s.RegisterSource(name)
	require.NoError(t, err)
	return id
}

func registerFrame(t *testing.T, s *GeometryState[scalar.Float64], source ident.SourceID, parent ident.FrameID, name string) ident.FrameID {
	t.Helper()
	id, err := s.RegisterFrame(source, parent, Frame[scalar.Float64]{Name: name})
	require.NoError(t, err)
	return id
}

func registerGeometry(t *testing.T, s *GeometryState[scalar.Float64], source ident.SourceID, frame ident.FrameID, name string) ident.GeometryID {
	t.Helper()
	id, err := s.RegisterGeometry(source, frame, geometrySpec(t, name))
	require.NoError(t, err)
	return id
}

func TestRegisterSourceDefaultNames(t *testing.T) {
	s := New[scalar.Float64]()

	a, err := s.RegisterSource("")
	require.NoError(t, err)
	b, err := s.RegisterSource("")
	require.NoError(t, err)

	nameA, err := s.SourceName(a)
	require.NoError(t, err)
	nameB, err := s.SourceName(b)
	require.NoError(t, err)
	assert.NotEmpty(t, nameA)
	assert.NotEqual(t, nameA, nameB)

	assert.True(t, s.SourceIsRegistered(a))
	assert.False(t, s.SourceIsRegistered(ident.NewSourceID()))
	assert.Equal(t, []ident.SourceID{a, b}, s.SourceOrder())
}

func TestRegisterSourceDuplicateName(t *testing.T) {
	s := New[scalar.Float64]()
	registerSource(t, s, "robot")

	_, err := s.RegisterSource("robot")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestSourceNameUnknownSource(t *testing.T) {
	s := New[scalar.Float64]()
	_, err := s.SourceName(ident.NewSourceID())
	assert.ErrorIs(t, err, ErrUnregisteredSource)
}

func TestRegisterFrame(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")

	base := registerFrame(t, s, src, ident.World, "base")
	arm := registerFrame(t, s, src, base, "arm")

	n, err := s.NumFramesForSource(src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	frames, err := s.FramesForSource(src)
	require.NoError(t, err)
	assert.Equal(t, []ident.FrameID{base, arm}, frames)

	name, err := s.FrameName(arm)
	require.NoError(t, err)
	assert.Equal(t, "arm", name)
}

func TestRegisterFrameValidation(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	otherFrame := registerFrame(t, s, other, ident.World, "wall")

	_, err := s.RegisterFrame(ident.NewSourceID(), ident.World, Frame[scalar.Float64]{Name: "f"})
	assert.ErrorIs(t, err, ErrUnregisteredSource)

	_, err = s.RegisterFrame(src, ident.World, Frame[scalar.Float64]{})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.RegisterFrame(src, ident.NewFrameID(), Frame[scalar.Float64]{Name: "f"})
	assert.ErrorIs(t, err, ErrUnknownFrame)

	// A parent owned by a different source is as good as unregistered.
	_, err = s.RegisterFrame(src, otherFrame, Frame[scalar.Float64]{Name: "f"})
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestRegisterFrameZeroPoseIsIdentity(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")

	p, err := s.PoseInWorld(base)
	require.NoError(t, err)
	assert.Equal(t, pose.Identity[scalar.Float64](), p)
}

func TestRegisterFramePoseComposesWithParent(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")

	base, err := s.RegisterFrame(src, ident.World, Frame[scalar.Float64]{
		Name: "base", Pose: pose.Translation(1, 0, 0),
	})
	require.NoError(t, err)
	arm, err := s.RegisterFrame(src, base, Frame[scalar.Float64]{
		Name: "arm", Pose: pose.Translation(0, 2, 0),
	})
	require.NoError(t, err)

	p, err := s.PoseInWorld(arm)
	require.NoError(t, err)
	assert.Equal(t, pose.Translation(1, 2, 0), p)
}

func TestRegisterGeometryValidation(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	frame := registerFrame(t, s, src, ident.World, "base")
	otherFrame := registerFrame(t, s, other, ident.World, "wall")

	_, err := s.RegisterGeometry(ident.NewSourceID(), frame, geometrySpec(t, "g"))
	assert.ErrorIs(t, err, ErrUnregisteredSource)

	_, err = s.RegisterGeometry(src, ident.NewFrameID(), geometrySpec(t, "g"))
	assert.ErrorIs(t, err, ErrUnknownFrame)

	_, err = s.RegisterGeometry(src, otherFrame, geometrySpec(t, "g"))
	assert.ErrorIs(t, err, ErrUnknownFrame)

	_, err = s.RegisterGeometry(src, frame, Geometry[scalar.Float64]{Shape: sphere(t, 1)})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.RegisterGeometry(src, frame, Geometry[scalar.Float64]{Name: "g"})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRegisterGeometryDuplicateSiblingName(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	arm := registerFrame(t, s, src, base, "arm")

	registerGeometry(t, s, src, base, "shell")
	_, err := s.RegisterGeometry(src, base, geometrySpec(t, "shell"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Same name on a different frame is fine.
	registerGeometry(t, s, src, arm, "shell")
}

func TestRegisterGeometryOnGeometry(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")

	nested, err := s.RegisterGeometryOnGeometry(src, body, geometrySpec(t, "sensor"))
	require.NoError(t, err)

	frame, err := s.FrameForGeometry(nested)
	require.NoError(t, err)
	assert.Equal(t, base, frame)

	n, err := s.NumGeometriesForFrame(base)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.RegisterGeometryOnGeometry(src, body, geometrySpec(t, "sensor"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.RegisterGeometryOnGeometry(src, ident.NewGeometryID(), geometrySpec(t, "g"))
	assert.ErrorIs(t, err, ErrUnknownGeometry)

	other := registerSource(t, s, "obstacles")
	_, err = s.RegisterGeometryOnGeometry(other, body, geometrySpec(t, "g"))
	assert.ErrorIs(t, err, ErrUnknownGeometry)
}

func TestRegisterAnchoredGeometry(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "terrain")

	ground, err := s.RegisterAnchoredGeometry(src, geometrySpec(t, "ground"))
	require.NoError(t, err)

	frame, err := s.FrameForGeometry(ground)
	require.NoError(t, err)
	assert.True(t, frame.IsWorld())

	n, err := s.NumGeometriesForFrame(ident.World)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGeometryPoseInWorldComposesChain(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base, err := s.RegisterFrame(src, ident.World, Frame[scalar.Float64]{
		Name: "base", Pose: pose.Translation(1, 0, 0),
	})
	require.NoError(t, err)

	body, err := s.RegisterGeometry(src, base, Geometry[scalar.Float64]{
		Name: "body", Pose: pose.Translation(0, 1, 0), Shape: sphere(t, 1),
	})
	require.NoError(t, err)
	tip, err := s.RegisterGeometryOnGeometry(src, body, Geometry[scalar.Float64]{
		Name: "tip", Pose: pose.Translation(0, 0, 1), Shape: sphere(t, 0.1),
	})
	require.NoError(t, err)

	p, err := s.GeometryPoseInWorld(tip)
	require.NoError(t, err)
	assert.Equal(t, pose.Translation(1, 1, 1), p)
}

func TestRemoveFrameCascade(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	arm := registerFrame(t, s, src, base, "arm")
	body := registerGeometry(t, s, src, base, "body")
	hand := registerGeometry(t, s, src, arm, "hand")
	sensor, err := s.RegisterGeometryOnGeometry(src, hand, geometrySpec(t, "sensor"))
	require.NoError(t, err)

	keepFrame := registerFrame(t, s, src, ident.World, "keep")
	keep := registerGeometry(t, s, src, keepFrame, "keep")
	require.NoError(t, s.ExcludeCollisionsBetween(
		GeometrySetFrom(keep), GeometrySetFrom(body, hand)))
	require.Equal(t, 2, filteredPairCount(s))

	require.NoError(t, s.RemoveFrame(src, base))

	for _, fid := range []ident.FrameID{base, arm} {
		_, err := s.FrameName(fid)
		assert.ErrorIs(t, err, ErrUnknownFrame)
	}
	for _, gid := range []ident.GeometryID{body, hand, sensor} {
		_, err := s.GeometryName(gid)
		assert.ErrorIs(t, err, ErrUnknownGeometry)
	}

	n, err := s.NumFramesForSource(src)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, liveFrameCount(s))
	assert.Equal(t, 1, liveGeometryCount(s))

	// Filter pairs referencing removed geometry are scrubbed.
	assert.Equal(t, 0, filteredPairCount(s))
	assert.Equal(t, []ident.FrameID{keepFrame}, frameChildren(s, ident.World))
}

func TestRemoveFrameErrors(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	base := registerFrame(t, s, src, ident.World, "base")

	assert.ErrorIs(t, s.RemoveFrame(ident.NewSourceID(), base), ErrUnregisteredSource)
	assert.ErrorIs(t, s.RemoveFrame(src, ident.World), ErrOwnership)
	assert.ErrorIs(t, s.RemoveFrame(src, ident.NewFrameID()), ErrUnknownFrame)
	assert.ErrorIs(t, s.RemoveFrame(other, base), ErrOwnership)

	// All failures left the frame in place.
	_, err := s.FrameName(base)
	assert.NoError(t, err)
}

func TestRemoveGeometryCascade(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")
	sensor, err := s.RegisterGeometryOnGeometry(src, body, geometrySpec(t, "sensor"))
	require.NoError(t, err)
	lens, err := s.RegisterGeometryOnGeometry(src, sensor, geometrySpec(t, "lens"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveGeometry(src, sensor))

	for _, gid := range []ident.GeometryID{sensor, lens} {
		_, err := s.GeometryName(gid)
		assert.ErrorIs(t, err, ErrUnknownGeometry)
	}
	n, err := s.NumGeometriesForFrame(base)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The surviving parent no longer lists the removed child.
	_, err = s.RegisterGeometryOnGeometry(src, body, geometrySpec(t, "sensor"))
	assert.NoError(t, err)
}

func TestRemoveGeometryErrors(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")

	assert.ErrorIs(t, s.RemoveGeometry(ident.NewSourceID(), body), ErrUnregisteredSource)
	assert.ErrorIs(t, s.RemoveGeometry(src, ident.NewGeometryID()), ErrUnknownGeometry)
	assert.ErrorIs(t, s.RemoveGeometry(other, body), ErrOwnership)
}

func TestAssignRole(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")

	has, err := s.HasRole(body, prop.RoleUnassigned)
	require.NoError(t, err)
	assert.True(t, has)

	props := prop.NewIllustrationProperties()
	props.Set("phong", "diffuse", [4]float64{1, 0, 0, 1})
	require.NoError(t, s.AssignRole(src, body, props))

	has, err = s.HasRole(body, prop.RoleIllustration)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = s.HasRole(body, prop.RoleUnassigned)
	require.NoError(t, err)
	assert.False(t, has)

	// Re-assignment replaces the properties wholesale.
	replacement := prop.NewIllustrationProperties()
	replacement.Set("phong", "diffuse", [4]float64{0, 1, 0, 1})
	require.NoError(t, s.AssignRole(src, body, replacement))

	got, err := s.GetProperties(body, prop.RoleIllustration)
	require.NoError(t, err)
	v, ok := got.Get("phong", "diffuse")
	require.True(t, ok)
	assert.Equal(t, [4]float64{0, 1, 0, 1}, v)

	// The registry keeps its own copy.
	replacement.Set("phong", "diffuse", [4]float64{0, 0, 1, 1})
	got, err = s.GetProperties(body, prop.RoleIllustration)
	require.NoError(t, err)
	v, _ = got.Get("phong", "diffuse")
	assert.Equal(t, [4]float64{0, 1, 0, 1}, v)
}

func TestAssignRoleErrors(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")

	props := prop.NewProximityProperties()
	assert.ErrorIs(t, s.AssignRole(ident.NewSourceID(), body, props), ErrUnregisteredSource)
	assert.ErrorIs(t, s.AssignRole(src, ident.NewGeometryID(), props), ErrUnknownGeometry)
	assert.ErrorIs(t, s.AssignRole(other, body, props), ErrOwnership)
	assert.ErrorIs(t, s.AssignRole(src, body, nil), ErrInvalidName)
}

func TestRemoveRole(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")
	require.NoError(t, s.AssignRole(src, body, prop.NewProximityProperties()))

	// Removing an unassigned role is a no-op.
	require.NoError(t, s.RemoveRole(src, body, prop.RoleIllustration))

	require.NoError(t, s.RemoveRole(src, body, prop.RoleProximity))
	has, err := s.HasRole(body, prop.RoleProximity)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.GetProperties(body, prop.RoleProximity)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.RemoveRole(other, body, prop.RoleProximity), ErrOwnership)
}

func TestFrameBelongsToSource(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	base := registerFrame(t, s, src, ident.World, "base")

	owns, err := s.FrameBelongsToSource(base, src)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = s.FrameBelongsToSource(base, other)
	require.NoError(t, err)
	assert.False(t, owns)

	// The world frame is registered but owned by no one.
	owns, err = s.FrameBelongsToSource(ident.World, src)
	require.NoError(t, err)
	assert.False(t, owns)

	// An id never registered is an error, not false.
	_, err = s.FrameBelongsToSource(ident.NewFrameID(), src)
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestGeometryBelongsToSource(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")

	owns, err := s.GeometryBelongsToSource(body, src)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = s.GeometryBelongsToSource(body, other)
	require.NoError(t, err)
	assert.False(t, owns)

	_, err = s.GeometryBelongsToSource(ident.NewGeometryID(), src)
	assert.ErrorIs(t, err, ErrUnknownGeometry)
}

func TestSetFramePoses(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	arm := registerFrame(t, s, src, base, "arm")

	poses := map[ident.FrameID]pose.Pose[scalar.Float64]{
		base: pose.Translation(1, 0, 0),
		arm:  pose.Translation(1, 2, 0),
	}
	require.NoError(t, s.SetFramePoses(src, poses))

	p, err := s.PoseInWorld(arm)
	require.NoError(t, err)
	assert.Equal(t, pose.Translation(1, 2, 0), p)
}

func TestSetFramePosesValidation(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	other := registerSource(t, s, "obstacles")
	base := registerFrame(t, s, src, ident.World, "base")
	arm := registerFrame(t, s, src, base, "arm")
	wall := registerFrame(t, s, other, ident.World, "wall")

	err := s.SetFramePoses(ident.NewSourceID(), nil)
	assert.ErrorIs(t, err, ErrUnregisteredSource)

	err = s.SetFramePoses(src, map[ident.FrameID]pose.Pose[scalar.Float64]{
		base: pose.Translation(1, 0, 0),
		arm:  pose.Translation(1, 2, 0),
		ident.NewFrameID(): pose.Identity[scalar.Float64](),
	})
	assert.ErrorIs(t, err, ErrUnknownFrame)

	err = s.SetFramePoses(src, map[ident.FrameID]pose.Pose[scalar.Float64]{
		base: pose.Translation(1, 0, 0),
		arm:  pose.Translation(1, 2, 0),
		wall: pose.Identity[scalar.Float64](),
	})
	assert.ErrorIs(t, err, ErrOwnership)

	err = s.SetFramePoses(src, map[ident.FrameID]pose.Pose[scalar.Float64]{
		base: pose.Translation(1, 0, 0),
	})
	assert.ErrorIs(t, err, ErrPortMismatch)

	// None of the failed calls wrote any pose.
	p, perr := s.PoseInWorld(base)
	require.NoError(t, perr)
	assert.Equal(t, pose.Identity[scalar.Float64](), p)
}

func TestCollisionFilters(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	a := registerGeometry(t, s, src, base, "a")
	b := registerGeometry(t, s, src, base, "b")
	c := registerGeometry(t, s, src, base, "c")

	filtered, err := s.CollisionFiltered(a, b)
	require.NoError(t, err)
	assert.False(t, filtered)

	require.NoError(t, s.ExcludeCollisionsWithin(GeometrySetFrom(a, b)))

	filtered, err = s.CollisionFiltered(a, b)
	require.NoError(t, err)
	assert.True(t, filtered)
	// The relation is unordered.
	filtered, err = s.CollisionFiltered(b, a)
	require.NoError(t, err)
	assert.True(t, filtered)

	filtered, err = s.CollisionFiltered(a, c)
	require.NoError(t, err)
	assert.False(t, filtered)

	// A geometry is never filtered against itself.
	filtered, err = s.CollisionFiltered(a, a)
	require.NoError(t, err)
	assert.False(t, filtered)

	_, err = s.CollisionFiltered(a, ident.NewGeometryID())
	assert.ErrorIs(t, err, ErrUnknownGeometry)
}

func TestExcludeCollisionsWithinFrame(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	a := registerGeometry(t, s, src, base, "a")
	b := registerGeometry(t, s, src, base, "b")
	nested, err := s.RegisterGeometryOnGeometry(src, a, geometrySpec(t, "nested"))
	require.NoError(t, err)

	// A frame in the set covers every geometry attached to it, including
	// geometry-parented ones.
	require.NoError(t, s.ExcludeCollisionsWithin(GeometrySetFromFrames(base)))
	assert.Equal(t, 3, filteredPairCount(s))

	for _, pair := range [][2]ident.GeometryID{{a, b}, {a, nested}, {b, nested}} {
		filtered, err := s.CollisionFiltered(pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, filtered)
	}
}

func TestExcludeCollisionsBetween(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	arm := registerFrame(t, s, src, base, "arm")
	a := registerGeometry(t, s, src, base, "a")
	b := registerGeometry(t, s, src, arm, "b")
	c := registerGeometry(t, s, src, arm, "c")

	require.NoError(t, s.ExcludeCollisionsBetween(
		GeometrySetFrom(a), GeometrySetFromFrames(arm)))

	for _, other := range []ident.GeometryID{b, c} {
		filtered, err := s.CollisionFiltered(a, other)
		require.NoError(t, err)
		assert.True(t, filtered)
	}
	filtered, err := s.CollisionFiltered(b, c)
	require.NoError(t, err)
	assert.False(t, filtered)

	// A geometry in both sets is not paired with itself.
	require.NoError(t, s.ExcludeCollisionsBetween(GeometrySetFrom(b), GeometrySetFrom(b)))
	filtered, err = s.CollisionFiltered(b, b)
	require.NoError(t, err)
	assert.False(t, filtered)

	err = s.ExcludeCollisionsBetween(GeometrySetFrom(ident.NewGeometryID()), GeometrySetFrom(a))
	assert.ErrorIs(t, err, ErrUnknownGeometry)
	err = s.ExcludeCollisionsBetween(GeometrySetFrom(a), GeometrySetFromFrames(ident.NewFrameID()))
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestFilteredPairsSorted(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	a := registerGeometry(t, s, src, base, "a")
	b := registerGeometry(t, s, src, base, "b")
	c := registerGeometry(t, s, src, base, "c")

	require.NoError(t, s.ExcludeCollisionsWithin(GeometrySetFrom(a, b, c)))

	pairs := s.FilteredPairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, [][2]ident.GeometryID{{a, b}, {a, c}, {b, c}}, pairs)
}

func TestGetGeometryIDByName(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")
	plain := registerGeometry(t, s, src, base, "plain")
	require.NoError(t, s.AssignRole(src, body, prop.NewIllustrationProperties()))

	got, err := s.GetGeometryIDByName(base, prop.RoleIllustration, "body")
	require.NoError(t, err)
	assert.Equal(t, body, got)

	// RoleUnassigned matches only geometries carrying no role at all.
	got, err = s.GetGeometryIDByName(base, prop.RoleUnassigned, "plain")
	require.NoError(t, err)
	assert.Equal(t, plain, got)
	_, err = s.GetGeometryIDByName(base, prop.RoleUnassigned, "body")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetGeometryIDByName(base, prop.RoleProximity, "body")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetGeometryIDByName(base, prop.RoleIllustration, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetGeometryIDByName(ident.NewFrameID(), prop.RoleIllustration, "body")
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestGetGeometryIDByNameAmbiguous(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")

	// Sibling uniqueness only binds direct children; a geometry-parented
	// geometry may reuse the name, making a frame-wide lookup ambiguous.
	_, err := s.RegisterGeometryOnGeometry(src, body, geometrySpec(t, "body"))
	require.NoError(t, err)

	_, err = s.GetGeometryIDByName(base, prop.RoleUnassigned, "body")
	assert.ErrorIs(t, err, ErrAmbiguousName)
}

func TestCloneIsolation(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base := registerFrame(t, s, src, ident.World, "base")
	body := registerGeometry(t, s, src, base, "body")
	other := registerGeometry(t, s, src, base, "other")

	c := s.Clone()

	// Mutations of the clone never show up in the original.
	extra := registerFrame(t, c, src, base, "extra")
	require.NoError(t, c.AssignRole(src, body, prop.NewProximityProperties()))
	require.NoError(t, c.ExcludeCollisionsWithin(GeometrySetFrom(body, other)))
	require.NoError(t, c.SetFramePoses(src, map[ident.FrameID]pose.Pose[scalar.Float64]{
		base:  pose.Translation(5, 0, 0),
		extra: pose.Translation(5, 5, 0),
	}))

	_, err := s.FrameName(extra)
	assert.ErrorIs(t, err, ErrUnknownFrame)
	has, err := s.HasRole(body, prop.RoleProximity)
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, 0, filteredPairCount(s))
	p, err := s.PoseInWorld(base)
	require.NoError(t, err)
	assert.Equal(t, pose.Identity[scalar.Float64](), p)

	// And the other way around.
	require.NoError(t, s.RemoveGeometry(src, other))
	_, err = c.GeometryName(other)
	assert.NoError(t, err)
}

func TestConvertPreservesStructure(t *testing.T) {
	s := New[scalar.Float64]()
	src := registerSource(t, s, "robot")
	base, err := s.RegisterFrame(src, ident.World, Frame[scalar.Float64]{
		Name: "base", Pose: pose.Translation(1, 2, 3),
	})
	require.NoError(t, err)
	body := registerGeometry(t, s, src, base, "body")
	other := registerGeometry(t, s, src, base, "other")
	require.NoError(t, s.AssignRole(src, body, prop.NewIllustrationProperties()))
	require.NoError(t, s.ExcludeCollisionsWithin(GeometrySetFrom(body, other)))

	d := Convert(s, func(v scalar.Float64) scalar.Dual {
		return scalar.Dual{Real: float64(v)}
	})

	name, err := d.SourceName(src)
	require.NoError(t, err)
	assert.Equal(t, "robot", name)
	name, err = d.FrameName(base)
	require.NoError(t, err)
	assert.Equal(t, "base", name)

	p, err := d.PoseInWorld(base)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.P[0].Real)
	assert.Equal(t, 3.0, p.P[2].Real)
	assert.Equal(t, 0.0, p.P[0].Deriv)

	has, err := d.HasRole(body, prop.RoleIllustration)
	require.NoError(t, err)
	assert.True(t, has)
	filtered, err := d.CollisionFiltered(body, other)
	require.NoError(t, err)
	assert.True(t, filtered)
}
