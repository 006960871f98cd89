package armature

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/state"
)

// ConvertScalar rebuilds the scene graph under a different scalar backend.
// The result has structurally identical topology — same sources, frames,
// geometries and ports — and shares no mutable state with the input.
// Structural data (ids, names, hierarchy) carries over verbatim; every
// numeric field is re-assigned through fn. The input keeps working
// unchanged, whether or not contexts have been allocated from it.
func ConvertScalar[From scalar.Value[From], To scalar.Value[To]](g *SceneGraph[From], fn func(From) To) *SceneGraph[To] {
	return &SceneGraph[To]{
		model: state.Convert(g.model, fn),
		log:   g.log,
	}
}

// ConvertContext copies a context across scalar representations for use
// with the converted scene graph. Structure is preserved; poses, both in
// the state and in any fixed inputs, are re-assigned through fn.
func ConvertContext[From scalar.Value[From], To scalar.Value[To]](ctx *Context[From], fn func(From) To) *Context[To] {
	out := &Context[To]{
		state:  state.Convert(ctx.state, fn),
		order:  append([]ident.SourceID(nil), ctx.order...),
		inputs: map[ident.SourceID]FramePoseVector[To]{},
	}
	for source, input := range ctx.inputs {
		converted := FramePoseVector[To]{
			Source: source,
			Poses:  make(map[ident.FrameID]pose.Pose[To], len(input.Poses)),
		}
		for frame, p := range input.Poses {
			converted.Poses[frame] = pose.Convert(p, fn)
		}
		out.inputs[source] = converted
	}
	return out
}

// ToDual lifts a Float64 scene graph into the dual-number backend with zero
// derivatives.
func ToDual(g *SceneGraph[scalar.Float64]) *SceneGraph[scalar.Dual] {
	return ConvertScalar(g, func(v scalar.Float64) scalar.Dual {
		return scalar.Dual{Real: float64(v)}
	})
}

// ToFloat32 narrows a Float64 scene graph to the float32 backend.
func ToFloat32(g *SceneGraph[scalar.Float64]) *SceneGraph[scalar.Float32] {
	return ConvertScalar(g, func(v scalar.Float64) scalar.Float32 {
		return scalar.Float32(v)
	})
}
