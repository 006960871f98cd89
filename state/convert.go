package state

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
)

// Convert rebuilds the state under a different scalar backend. Structural
// data (ids, names, hierarchy, roles, the filter relation) is preserved
// verbatim; every numeric field is re-assigned through fn. The result
// shares no mutable state with the input.
func Convert[From scalar.Value[From], To scalar.Value[To]](s *GeometryState[From], fn func(From) To) *GeometryState[To] {
	c := &GeometryState[To]{
		sourceOrder: append([]ident.SourceID(nil), s.sourceOrder...),
		sources:     make(map[ident.SourceID]*sourceRecord, len(s.sources)),
		sourceNames: make(map[string]ident.SourceID, len(s.sourceNames)),
		world:       convertFrame(s.world, fn),
		frames:      make(map[ident.FrameID]*frameRecord[To], len(s.frames)),
		geometries:  make(map[ident.GeometryID]*geometryRecord[To], len(s.geometries)),
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
		c.frames[id] = convertFrame(rec, fn)
	}
	for id, rec := range s.geometries {
		c.geometries[id] = convertGeometry(rec, fn)
	}
	for pair := range s.filtered {
		c.filtered[pair] = struct{}{}
	}
	return c
}

func convertFrame[From scalar.Value[From], To scalar.Value[To]](f *frameRecord[From], fn func(From) To) *frameRecord[To] {
	return &frameRecord[To]{
		name:         f.name,
		source:       f.source,
		parent:       f.parent,
		children:     append([]ident.FrameID(nil), f.children...),
		geometries:   append([]ident.GeometryID(nil), f.geometries...),
		poseInParent: pose.Convert(f.poseInParent, fn),
		poseInWorld:  pose.Convert(f.poseInWorld, fn),
	}
}

func convertGeometry[From scalar.Value[From], To scalar.Value[To]](g *geometryRecord[From], fn func(From) To) *geometryRecord[To] {
	c := &geometryRecord[To]{
		name:         g.name,
		source:       g.source,
		frame:        g.frame,
		parent:       g.parent,
		children:     append([]ident.GeometryID(nil), g.children...),
		poseInParent: pose.Convert(g.poseInParent, fn),
		shape:        g.shape.Clone(),
		roles:        make(map[prop.Role]*prop.Properties, len(g.roles)),
	}
	for role, props := range g.roles {
		c.roles[role] = props.Clone()
	}
	return c
}
