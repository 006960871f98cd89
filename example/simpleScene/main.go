package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/armature"
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/internal/logging"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/shape"
)

// SetupScene registers a robot arm source (two links) and a ground plane.
func SetupScene() (*armature.SceneGraph[scalar.Float64], ident.SourceID, []ident.FrameID) {
	graph := armature.NewSceneGraph()
	graph.SetLogger(logging.New(logging.Config{Level: "debug"}))

	robot, err := graph.RegisterSource("robot")
	if err != nil {
		panic(err)
	}

	base, err := graph.RegisterFrame(robot, ident.World, armature.Frame[scalar.Float64]{
		Name: "base",
		Pose: pose.Translation(0, 0, 0),
	})
	if err != nil {
		panic(err)
	}
	arm, err := graph.RegisterFrame(robot, base, armature.Frame[scalar.Float64]{
		Name: "arm",
		Pose: pose.Translation(0, 0, 1),
	})
	if err != nil {
		panic(err)
	}

	baseShape, _ := shape.NewCylinder(0.3, 0.4)
	if _, err := graph.RegisterGeometry(robot, base, armature.Geometry[scalar.Float64]{
		Name:  "base_link",
		Shape: baseShape,
	}); err != nil {
		panic(err)
	}

	armShape, _ := shape.NewBox(mgl64.Vec3{0.1, 0.1, 0.5})
	armGeometry, err := graph.RegisterGeometry(robot, arm, armature.Geometry[scalar.Float64]{
		Name:  "arm_link",
		Shape: armShape,
	})
	if err != nil {
		panic(err)
	}
	if err := graph.AssignRole(robot, armGeometry, prop.NewIllustrationProperties()); err != nil {
		panic(err)
	}
	if err := graph.AssignRole(robot, armGeometry, prop.NewProximityProperties()); err != nil {
		panic(err)
	}

	ground, _ := shape.NewHalfSpace(mgl64.Vec3{0, 0, 1}, 0)
	if _, err := graph.RegisterAnchoredGeometry(robot, armature.Geometry[scalar.Float64]{
		Name:  "ground",
		Shape: ground,
	}); err != nil {
		panic(err)
	}

	return graph, robot, []ident.FrameID{base, arm}
}

func main() {
	graph, robot, frames := SetupScene()
	ctx := graph.AllocateContext()
	port, err := graph.SourcePosePort(robot)
	if err != nil {
		panic(err)
	}

	// Swing the arm through a few steps and print the pose bundle.
	const steps = 5
	for step := 0; step < steps; step++ {
		angle := float64(step) * math.Pi / 16
		rotation := mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0})
		ctx.FixPoseInput(port, armature.FramePoseVector[scalar.Float64]{
			Poses: map[ident.FrameID]pose.Pose[scalar.Float64]{
				frames[0]: pose.Identity[scalar.Float64](),
				frames[1]: pose.FromMgl(mgl64.Vec3{0, 0, 1}, rotation),
			},
		})

		bundle, err := graph.CalcPoseBundle(ctx)
		if err != nil {
			panic(err)
		}
		fmt.Printf("--- step %d ---\n", step)
		for _, entry := range bundle {
			position, _ := pose.Mgl(entry.Pose)
			fmt.Printf("  %s: %v\n", entry.Name, position)
		}
	}

	// Structural queries go through the inspector.
	inspector := ctx.Inspector()
	n, _ := inspector.NumFramesForSource(robot)
	fmt.Printf("robot owns %d frames\n", n)
}
