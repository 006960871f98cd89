package armature

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/state"
)

// PosePort is the handle to one source's pose input. Ports are created at
// allocation time, one per source registered on the model at that moment.
type PosePort struct {
	source ident.SourceID
}

// Source returns the source the port feeds.
func (p PosePort) Source() ident.SourceID { return p.source }

// FramePoseVector is one step's pose input for one source: the world pose
// of every frame the source owns. The frame set must match the source's
// registered frames exactly.
type FramePoseVector[T scalar.Value[T]] struct {
	Source ident.SourceID
	Poses  map[ident.FrameID]pose.Pose[T]
}

// Context is one evaluation timeline's view of the scene: a private deep
// copy of the geometry state taken at allocation time plus the externally
// supplied pose inputs. A context never shares mutable state with the model
// or with sibling contexts; each context belongs to exactly one timeline
// (and at most one goroutine).
type Context[T scalar.Value[T]] struct {
	state  *state.GeometryState[T]
	order  []ident.SourceID
	inputs map[ident.SourceID]FramePoseVector[T]
}

// FixPoseInput connects a pose value to the port. Fixing the same port
// again replaces the previous value; validation happens at FullPoseUpdate.
func (c *Context[T]) FixPoseInput(port PosePort, poses FramePoseVector[T]) {
	poses.Source = port.source
	c.inputs[port.source] = poses
}

// Inspector returns a read-only view of this context's private state. It
// holds a reference, so it reflects later mutations of this context (and
// only this context).
func (c *Context[T]) Inspector() Inspector[T] {
	return Inspector[T]{state: c.state}
}
