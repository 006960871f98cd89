package armature

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/akmonengine/armature/ident"
	"github.com/akmonengine/armature/internal/logging"
	"github.com/akmonengine/armature/pose"
	"github.com/akmonengine/armature/prop"
	"github.com/akmonengine/armature/scalar"
	"github.com/akmonengine/armature/shape"
)

// SceneSummary lists what a scene file registered. Mainly useful for
// logging from the embedding application.
type SceneSummary struct {
	Sources    map[string]ident.SourceID
	Frames     []ident.FrameID
	Geometries []ident.GeometryID
}

// Unexported YAML shapes, free to evolve with the file format.
type sceneYAML struct {
	Sources []sourceYAML `yaml:"sources"`
}

type sourceYAML struct {
	Name     string         `yaml:"name"`
	Frames   []frameYAML    `yaml:"frames"`
	Anchored []geometryYAML `yaml:"anchored"`
}

type frameYAML struct {
	Name        string         `yaml:"name"`
	Translation []float64      `yaml:"translation"`
	Rotation    []float64      `yaml:"rotation"` // w, x, y, z
	Frames      []frameYAML    `yaml:"frames"`
	Geometries  []geometryYAML `yaml:"geometries"`
}

type geometryYAML struct {
	Name        string    `yaml:"name"`
	Translation []float64 `yaml:"translation"`
	Rotation    []float64 `yaml:"rotation"`
	Shape       shapeYAML `yaml:"shape"`
	Roles       []string  `yaml:"roles"`
}

type shapeYAML struct {
	Kind        string    `yaml:"kind"`
	Radius      float64   `yaml:"radius"`
	Length      float64   `yaml:"length"`
	HalfExtents []float64 `yaml:"half_extents"`
	Normal      []float64 `yaml:"normal"`
	Offset      float64   `yaml:"offset"`
	Filename    string    `yaml:"filename"`
	Scale       float64   `yaml:"scale"`
}

// LoadScene reads a YAML scene description from r and registers its
// sources, frames and geometries on the model. It fails on YAML, shape or
// role errors and on anything the registry itself rejects; a failed load
// may leave earlier entries registered.
func LoadScene(g *SceneGraph[scalar.Float64], r io.Reader) (*SceneSummary, error) {
	var scene sceneYAML
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&scene); err != nil {
		return nil, fmt.Errorf("LoadScene: decode failed: %w", err)
	}

	summary := &SceneSummary{Sources: map[string]ident.SourceID{}}
	for _, src := range scene.Sources {
		sourceID, err := g.RegisterSource(src.Name)
		if err != nil {
			return nil, fmt.Errorf("LoadScene: source %q: %w", src.Name, err)
		}
		name, _ := g.model.SourceName(sourceID)
		summary.Sources[name] = sourceID

		for _, f := range src.Frames {
			if err := loadFrame(g, summary, sourceID, ident.World, f); err != nil {
				return nil, err
			}
		}
		for _, geo := range src.Anchored {
			spec, err := geometrySpec(geo)
			if err != nil {
				return nil, err
			}
			gid, err := g.RegisterAnchoredGeometry(sourceID, spec)
			if err != nil {
				return nil, fmt.Errorf("LoadScene: anchored geometry %q: %w", geo.Name, err)
			}
			summary.Geometries = append(summary.Geometries, gid)
			if err := assignRoles(g, sourceID, gid, geo.Roles); err != nil {
				return nil, err
			}
		}
		g.log.Info("loaded source",
			logging.String("source", name),
			logging.Int("frames", len(summary.Frames)),
			logging.Int("geometries", len(summary.Geometries)))
	}
	return summary, nil
}

func loadFrame(g *SceneGraph[scalar.Float64], summary *SceneSummary, source ident.SourceID, parent ident.FrameID, f frameYAML) error {
	framePose, err := poseFromYAML(f.Translation, f.Rotation)
	if err != nil {
		return fmt.Errorf("LoadScene: frame %q: %w", f.Name, err)
	}
	frameID, err := g.RegisterFrame(source, parent, Frame[scalar.Float64]{Name: f.Name, Pose: framePose})
	if err != nil {
		return fmt.Errorf("LoadScene: frame %q: %w", f.Name, err)
	}
	summary.Frames = append(summary.Frames, frameID)

	for _, geo := range f.Geometries {
		spec, err := geometrySpec(geo)
		if err != nil {
			return err
		}
		gid, err := g.RegisterGeometry(source, frameID, spec)
		if err != nil {
			return fmt.Errorf("LoadScene: geometry %q: %w", geo.Name, err)
		}
		summary.Geometries = append(summary.Geometries, gid)
		if err := assignRoles(g, source, gid, geo.Roles); err != nil {
			return err
		}
	}
	for _, child := range f.Frames {
		if err := loadFrame(g, summary, source, frameID, child); err != nil {
			return err
		}
	}
	return nil
}

func geometrySpec(geo geometryYAML) (Geometry[scalar.Float64], error) {
	var spec Geometry[scalar.Float64]
	p, err := poseFromYAML(geo.Translation, geo.Rotation)
	if err != nil {
		return spec, fmt.Errorf("LoadScene: geometry %q: %w", geo.Name, err)
	}
	sh, err := shapeFromYAML(geo.Shape)
	if err != nil {
		return spec, fmt.Errorf("LoadScene: geometry %q: %w", geo.Name, err)
	}
	return Geometry[scalar.Float64]{Name: geo.Name, Pose: p, Shape: sh}, nil
}

func assignRoles(g *SceneGraph[scalar.Float64], source ident.SourceID, geometry ident.GeometryID, roles []string) error {
	for _, role := range roles {
		var props *prop.Properties
		switch role {
		case "proximity":
			props = prop.NewProximityProperties()
		case "illustration":
			props = prop.NewIllustrationProperties()
		case "perception":
			props = prop.NewPerceptionProperties()
		default:
			return fmt.Errorf("LoadScene: unknown role %q", role)
		}
		if err := g.AssignRole(source, geometry, props); err != nil {
			return fmt.Errorf("LoadScene: role %q: %w", role, err)
		}
	}
	return nil
}

func poseFromYAML(translation, rotation []float64) (pose.Pose[scalar.Float64], error) {
	p := pose.Identity[scalar.Float64]()
	switch len(translation) {
	case 0:
	case 3:
		p.P = pose.Vec3[scalar.Float64]{
			scalar.Float64(translation[0]),
			scalar.Float64(translation[1]),
			scalar.Float64(translation[2]),
		}
	default:
		return p, fmt.Errorf("translation needs 3 components, got %d", len(translation))
	}
	switch len(rotation) {
	case 0:
	case 4:
		q := mgl64.Quat{
			W: rotation[0],
			V: mgl64.Vec3{rotation[1], rotation[2], rotation[3]},
		}.Normalize()
		p.R = pose.FromMgl(mgl64.Vec3{}, q).R
	default:
		return p, fmt.Errorf("rotation needs 4 components (w, x, y, z), got %d", len(rotation))
	}
	return p, nil
}

func shapeFromYAML(s shapeYAML) (shape.Shape, error) {
	switch s.Kind {
	case "sphere":
		return shape.NewSphere(s.Radius)
	case "box":
		if len(s.HalfExtents) != 3 {
			return nil, fmt.Errorf("box needs 3 half-extents, got %d", len(s.HalfExtents))
		}
		return shape.NewBox(mgl64.Vec3{s.HalfExtents[0], s.HalfExtents[1], s.HalfExtents[2]})
	case "half_space":
		if len(s.Normal) != 3 {
			return nil, fmt.Errorf("half-space needs a 3-component normal, got %d", len(s.Normal))
		}
		return shape.NewHalfSpace(mgl64.Vec3{s.Normal[0], s.Normal[1], s.Normal[2]}, s.Offset)
	case "cylinder":
		return shape.NewCylinder(s.Radius, s.Length)
	case "convex":
		scale := s.Scale
		if scale == 0 {
			scale = 1
		}
		return shape.NewConvex(s.Filename, scale)
	}
	return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
}
