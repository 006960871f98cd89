package armature

import (
	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/state"
)

// PoseBundleEntry is one frame's entry in a pose bundle: its identity, its
// current world pose, and its world linear velocity (zero unless a velocity
// source supplies one). Entries exist only for non-world frames that carry
// at least one geometry with the illustration role.
type PoseBundleEntry[T scalar.Value[T]] struct {
	Source ident.SourceID
	Frame  ident.FrameID
	// Name is "<source name>::<frame name>", unique within the bundle.
	Name     string
	Pose     pose.Pose[T]
	Velocity pose.Vec3[T]
}

// MakePoseBundle materializes the bundle structure from the model state:
// one entry per (source, frame) pair where the frame has illustration
// geometry, in source-registration order, with identity poses. The world
// frame is never included.
func (g *SceneGraph[T]) MakePoseBundle() []PoseBundleEntry[T] {
	return bundleFrom(g.model, false)
}

// CalcPoseBundle runs FullPoseUpdate on the context and returns the bundle
// with the context's current world poses filled in.
func (g *SceneGraph[T]) CalcPoseBundle(ctx *Context[T]) ([]PoseBundleEntry[T], error) {
	if err := g.FullPoseUpdate(ctx); err != nil {
		return nil, err
	}
	return bundleFrom(ctx.state, true), nil
}

func bundleFrom[T scalar.Value[T]](s *state.GeometryState[T], current bool) []PoseBundleEntry[T] {
	var bundle []PoseBundleEntry[T]
	for _, source := range s.SourceOrder() {
		sourceName, err := s.SourceName(source)
		if err != nil {
			continue
		}
		frames, err := s.FramesForSource(source)
		if err != nil {
			continue
		}
		for _, frame := range frames {
			ok, err := s.FrameHasRoleGeometry(frame, prop.RoleIllustration)
			if err != nil || !ok {
				continue
			}
			frameName, _ := s.FrameName(frame)
			entry := PoseBundleEntry[T]{
				Source: source,
				Frame:  frame,
				Name:   sourceName + "::" + frameName,
				Pose:   pose.Identity[T](),
			}
			if current {
				if p, err := s.PoseInWorld(frame); err == nil {
					entry.Pose = p
				}
			}
			bundle = append(bundle, entry)
		}
	}
	return bundle
}
