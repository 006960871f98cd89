package armature

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/scalar"
)

// QueryObject binds a scene graph to one of its contexts and exposes the
// data a proximity engine consumes: the context's inspector, the filter
// relation, and candidate pairs. The narrow-phase math itself is supplied
// by the engine, not by this package.
type QueryObject[T scalar.Value[T]] struct {
	graph *SceneGraph[T]
	ctx   *Context[T]
}

// NewQueryObject binds graph and context. The context must have been
// allocated from graph.
func NewQueryObject[T scalar.Value[T]](graph *SceneGraph[T], ctx *Context[T]) QueryObject[T] {
	return QueryObject[T]{graph: graph, ctx: ctx}
}

// Inspector returns the bound context's inspector.
func (q QueryObject[T]) Inspector() Inspector[T] {
	return q.ctx.Inspector()
}

// FilteredPairs returns the context's collision-filter relation as sorted
// normalized pairs.
func (q QueryObject[T]) FilteredPairs() [][2]ident.GeometryID {
	return q.ctx.state.FilteredPairs()
}

// ProximityEngine is the seam to the external collision engine. An engine
// receives the query object — poses, shapes, filters — and produces
// whatever proximity results it implements; none ships with this module.
type ProximityEngine[T scalar.Value[T]] interface {
	Evaluate(q QueryObject[T]) error
}
