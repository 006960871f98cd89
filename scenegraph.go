// Package armature is a versioned, source-partitioned scene-graph registry.
// Clients register sources, movable frames and shaped geometries against a
// SceneGraph; the graph owns the long-lived model state, stamps out
// independent deep-copied Contexts for evaluation, pulls per-source pose
// inputs each step, and answers structural queries through read-only
// Inspectors. Proximity math itself lives behind the ProximityEngine seam.
package armature

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/internal/logging"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/state"
)

// Frame is the registration spec for a frame.
type Frame[T scalar.Value[T]] = state.Frame[T]

// Geometry is the registration spec for a geometry.
type Geometry[T scalar.Value[T]] = state.Geometry[T]

// GeometrySet names frames and geometries for collision-filter operations.
type GeometrySet = state.GeometrySet

// SceneGraph coordinates the model GeometryState and the contexts derived
// from it. Registration methods without a context argument mutate the model;
// they are legal before and after allocation but never retroactively affect
// an already-allocated context. The *InContext variants mutate exactly one
// context's private state.
//
// A SceneGraph is not safe for concurrent use; in particular, model
// mutation must not race AllocateContext.
type SceneGraph[T scalar.Value[T]] struct {
	model *state.GeometryState[T]
	log   logging.Logger
}

// New returns an empty scene graph over the given scalar backend.
func New[T scalar.Value[T]]() *SceneGraph[T] {
	return &SceneGraph[T]{
		model: state.New[T](),
		log:   logging.Discard(),
	}
}

// NewSceneGraph returns an empty scene graph over the default Float64
// backend.
func NewSceneGraph() *SceneGraph[scalar.Float64] {
	return New[scalar.Float64]()
}

// SetLogger installs a logger for debug traces. The default discards
// everything.
func (g *SceneGraph[T]) SetLogger(log logging.Logger) {
	if log == nil {
		log = logging.Discard()
	}
	g.log = log
}

// WorldFrameID returns the id of the implicit world frame.
func (g *SceneGraph[T]) WorldFrameID() ident.FrameID { return ident.World }

// RegisterSource registers a new geometry source on the model. An empty
// name selects an auto-generated unique one.
func (g *SceneGraph[T]) RegisterSource(name string) (ident.SourceID, error) {
	id, err := g.model.RegisterSource(name)
	if err != nil {
		return 0, err
	}
	g.log.Debug("registered source", logging.Any("source", id))
	return id, nil
}

// SourceIsRegistered reports whether the source is registered on the model.
func (g *SceneGraph[T]) SourceIsRegistered(id ident.SourceID) bool {
	return g.model.SourceIsRegistered(id)
}

// RegisterFrame registers a frame on the model as a child of parent; pass
// ident.World for a root frame.
func (g *SceneGraph[T]) RegisterFrame(source ident.SourceID, parent ident.FrameID, f Frame[T]) (ident.FrameID, error) {
	return g.model.RegisterFrame(source, parent, f)
}

// RegisterGeometry registers a geometry on the model, attached to the frame.
func (g *SceneGraph[T]) RegisterGeometry(source ident.SourceID, frame ident.FrameID, spec Geometry[T]) (ident.GeometryID, error) {
	return g.model.RegisterGeometry(source, frame, spec)
}

// RegisterGeometryOnGeometry registers a geometry on the model, rigidly
// attached to another geometry.
func (g *SceneGraph[T]) RegisterGeometryOnGeometry(source ident.SourceID, parent ident.GeometryID, spec Geometry[T]) (ident.GeometryID, error) {
	return g.model.RegisterGeometryOnGeometry(source, parent, spec)
}

// RegisterAnchoredGeometry registers a world-fixed geometry on the model.
func (g *SceneGraph[T]) RegisterAnchoredGeometry(source ident.SourceID, spec Geometry[T]) (ident.GeometryID, error) {
	return g.model.RegisterAnchoredGeometry(source, spec)
}

// RemoveFrame removes a model frame and its subtree.
func (g *SceneGraph[T]) RemoveFrame(source ident.SourceID, frame ident.FrameID) error {
	return g.model.RemoveFrame(source, frame)
}

// RemoveGeometry removes a model geometry and its attached geometries.
func (g *SceneGraph[T]) RemoveGeometry(source ident.SourceID, geometry ident.GeometryID) error {
	return g.model.RemoveGeometry(source, geometry)
}

// AssignRole assigns role properties to a model geometry; re-assigning a
// role overwrites its properties.
func (g *SceneGraph[T]) AssignRole(source ident.SourceID, geometry ident.GeometryID, properties *prop.Properties) error {
	return g.model.AssignRole(source, geometry, properties)
}

// RemoveRole removes a role from a model geometry.
func (g *SceneGraph[T]) RemoveRole(source ident.SourceID, geometry ident.GeometryID, role prop.Role) error {
	return g.model.RemoveRole(source, geometry, role)
}

// ExcludeCollisionsWithin filters all pairs within the set on the model.
func (g *SceneGraph[T]) ExcludeCollisionsWithin(set GeometrySet) error {
	return g.model.ExcludeCollisionsWithin(set)
}

// ExcludeCollisionsBetween filters all pairs spanning the sets on the model.
func (g *SceneGraph[T]) ExcludeCollisionsBetween(setA, setB GeometrySet) error {
	return g.model.ExcludeCollisionsBetween(setA, setB)
}

// RegisterFrameInContext registers a frame on the context's private state
// only; the model and sibling contexts are unaffected.
func (g *SceneGraph[T]) RegisterFrameInContext(ctx *Context[T], source ident.SourceID, parent ident.FrameID, f Frame[T]) (ident.FrameID, error) {
	return ctx.state.RegisterFrame(source, parent, f)
}

// RegisterGeometryInContext registers a frame-attached geometry on the
// context's private state only.
func (g *SceneGraph[T]) RegisterGeometryInContext(ctx *Context[T], source ident.SourceID, frame ident.FrameID, spec Geometry[T]) (ident.GeometryID, error) {
	return ctx.state.RegisterGeometry(source, frame, spec)
}

// RegisterGeometryOnGeometryInContext registers a geometry-attached geometry
// on the context's private state only.
func (g *SceneGraph[T]) RegisterGeometryOnGeometryInContext(ctx *Context[T], source ident.SourceID, parent ident.GeometryID, spec Geometry[T]) (ident.GeometryID, error) {
	return ctx.state.RegisterGeometryOnGeometry(source, parent, spec)
}

// RemoveFrameInContext removes a frame subtree from the context's private
// state only.
func (g *SceneGraph[T]) RemoveFrameInContext(ctx *Context[T], source ident.SourceID, frame ident.FrameID) error {
	return ctx.state.RemoveFrame(source, frame)
}

// RemoveGeometryInContext removes a geometry from the context's private
// state only.
func (g *SceneGraph[T]) RemoveGeometryInContext(ctx *Context[T], source ident.SourceID, geometry ident.GeometryID) error {
	return ctx.state.RemoveGeometry(source, geometry)
}

// AssignRoleInContext assigns role properties on the context's private
// state only.
func (g *SceneGraph[T]) AssignRoleInContext(ctx *Context[T], source ident.SourceID, geometry ident.GeometryID, properties *prop.Properties) error {
	return ctx.state.AssignRole(source, geometry, properties)
}

// ExcludeCollisionsWithinContext filters pairs on the context's private
// state only.
func (g *SceneGraph[T]) ExcludeCollisionsWithinContext(ctx *Context[T], set GeometrySet) error {
	return ctx.state.ExcludeCollisionsWithin(set)
}

// ExcludeCollisionsBetweenContext filters spanning pairs on the context's
// private state only.
func (g *SceneGraph[T]) ExcludeCollisionsBetweenContext(ctx *Context[T], setA, setB GeometrySet) error {
	return ctx.state.ExcludeCollisionsBetween(setA, setB)
}

// ModelInspector returns a read-only view of the model state. The inspector
// holds a reference: it reflects model mutations made after its
// construction, and never context mutations.
func (g *SceneGraph[T]) ModelInspector() Inspector[T] {
	return Inspector[T]{state: g.model}
}

// SourcePosePort returns the pose input port handle for the source. The
// source must be registered on the model; sources added after allocation
// are acceptable targets.
func (g *SceneGraph[T]) SourcePosePort(source ident.SourceID) (PosePort, error) {
	if !g.model.SourceIsRegistered(source) {
		return PosePort{}, &state.Error{
			Op:     "SceneGraph.SourcePosePort",
			Err:    state.ErrUnregisteredSource,
			Detail: "can't acquire pose port for unknown " + source.String(),
		}
	}
	return PosePort{source: source}, nil
}

// AllocateContext deep-copies the current model state into a fresh context
// with one pose input port per source registered at this moment. Later
// model mutations never reach the returned context.
func (g *SceneGraph[T]) AllocateContext() *Context[T] {
	ctx := &Context[T]{
		state:  g.model.Clone(),
		order:  g.model.SourceOrder(),
		inputs: map[ident.SourceID]FramePoseVector[T]{},
	}
	g.log.Debug("allocated context", logging.Int("sources", len(ctx.order)))
	return ctx
}

// FullPoseUpdate pulls the pose input of every source registered in the
// context and writes the poses into the context's state. Sources are
// visited in registration order; the first source that owns frames but has
// no fixed input aborts the update with ErrPortUnconnected. A fixed input
// whose frame set does not exactly match the source's frames aborts with
// ErrPortMismatch (or ErrOwnership for frames of another source). Sources
// without frames are implicitly satisfied.
func (g *SceneGraph[T]) FullPoseUpdate(ctx *Context[T]) error {
	const op = "SceneGraph.FullPoseUpdate"
	for _, source := range ctx.order {
		n, err := ctx.state.NumFramesForSource(source)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		input, ok := ctx.inputs[source]
		if !ok {
			return &state.Error{
				Op:  op,
				Err: state.ErrPortUnconnected,
				Detail: source.String() +
					" has registered frames but does not provide pose values on the input port",
			}
		}
		if err := ctx.state.SetFramePoses(source, input.Poses); err != nil {
			return err
		}
	}
	return nil
}
