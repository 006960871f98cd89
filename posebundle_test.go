package armature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/state"
)

func illustrate(t *testing.T, g *SceneGraph[scalar.Float64], source ident.SourceID, geometry ident.GeometryID) {
	t.Helper()
	require.NoError(t, g.AssignRole(source, geometry, prop.NewIllustrationProperties()))
}

func TestMakePoseBundleStructure(t *testing.T) {
	g := NewSceneGraph()
	robot := mustSource(t, g, "robot")
	props := mustSource(t, g, "props")

	// base: illustration geometry, in the bundle.
	base := mustFrame(t, g, robot, ident.World, "base")
	illustrate(t, g, robot, mustGeometry(t, g, robot, base, "body"))

	// bare: no geometry at all, excluded.
	mustFrame(t, g, robot, ident.World, "bare")

	// plain: geometry without the illustration role, excluded.
	plain := mustFrame(t, g, robot, ident.World, "plain")
	mustGeometry(t, g, robot, plain, "shell")

	// Anchored illustration geometry lives on the world frame, which is
	// never bundled.
	illustrate(t, g, props, func() ident.GeometryID {
		id, err := g.RegisterAnchoredGeometry(props, sphereSpec(t, "ground"))
		require.NoError(t, err)
		return id
	}())

	// crate: a second source's illustrated frame.
	crate := mustFrame(t, g, props, ident.World, "crate")
	illustrate(t, g, props, mustGeometry(t, g, props, crate, "hull"))

	bundle := g.MakePoseBundle()
	require.Len(t, bundle, 2)

	assert.Equal(t, robot, bundle[0].Source)
	assert.Equal(t, base, bundle[0].Frame)
	assert.Equal(t, "robot::base", bundle[0].Name)
	assert.Equal(t, pose.Identity[scalar.Float64](), bundle[0].Pose)

	assert.Equal(t, props, bundle[1].Source)
	assert.Equal(t, crate, bundle[1].Frame)
	assert.Equal(t, "props::crate", bundle[1].Name)
}

func TestMakePoseBundleEmpty(t *testing.T) {
	g := NewSceneGraph()
	src := mustSource(t, g, "robot")
	base := mustFrame(t, g, src, ident.World, "base")
	mustGeometry(t, g, src, base, "body")

	// Geometry exists but nothing carries the illustration role.
	assert.Empty(t, g.MakePoseBundle())
}

func TestCalcPoseBundleCurrentPoses(t *testing.T) {
	g := NewSceneGraph()
	src := mustSource(t, g, "robot")
	base := mustFrame(t, g, src, ident.World, "base")
	arm := mustFrame(t, g, src, base, "arm")
	illustrate(t, g, src, mustGeometry(t, g, src, base, "body"))
	illustrate(t, g, src, mustGeometry(t, g, src, arm, "hand"))

	ctx := g.AllocateContext()
	fixAllPoses(t, g, ctx, src, map[ident.FrameID]pose.Pose[scalar.Float64]{
		base: pose.Translation(1, 0, 0),
		arm:  pose.Translation(1, 1, 0),
	})

	bundle, err := g.CalcPoseBundle(ctx)
	require.NoError(t, err)
	require.Len(t, bundle, 2)
	assert.Equal(t, pose.Translation(1, 0, 0), bundle[0].Pose)
	assert.Equal(t, pose.Translation(1, 1, 0), bundle[1].Pose)
	assert.Equal(t, pose.Vec3[scalar.Float64]{}, bundle[0].Velocity)
}

func TestCalcPoseBundleUnconnected(t *testing.T) {
	g := NewSceneGraph()
	src := mustSource(t, g, "robot")
	base := mustFrame(t, g, src, ident.World, "base")
	illustrate(t, g, src, mustGeometry(t, g, src, base, "body"))

	ctx := g.AllocateContext()
	_, err := g.CalcPoseBundle(ctx)
	assert.ErrorIs(t, err, state.ErrPortUnconnected)
}

func TestCalcPoseBundleSeesContextGeometry(t *testing.T) {
	g := NewSceneGraph()
	src := mustSource(t, g, "robot")
	base := mustFrame(t, g, src, ident.World, "base")
	mustGeometry(t, g, src, base, "body")
	ctx := g.AllocateContext()

	// An illustration role assigned only in the context shows up in the
	// context's bundle, not the model's.
	insp := ctx.Inspector()
	gid, err := insp.GetGeometryIDByName(base, prop.RoleUnassigned, "body")
	require.NoError(t, err)
	require.NoError(t, g.AssignRoleInContext(ctx, src, gid, prop.NewIllustrationProperties()))

	fixAllPoses(t, g, ctx, src, map[ident.FrameID]pose.Pose[scalar.Float64]{
		base: pose.Translation(0, 0, 1),
	})
	bundle, err := g.CalcPoseBundle(ctx)
	require.NoError(t, err)
	require.Len(t, bundle, 1)
	assert.Equal(t, "robot::base", bundle[0].Name)

	assert.Empty(t, g.MakePoseBundle())
}
