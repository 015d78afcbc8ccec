package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// wheelsModel is the shared model holding every wheel variant as a named frame.
const wheelsModel = "wheels"

// translateRotate builds T·R for an object.
func translateRotate(obj game_object.GameObject) mgl32.Mat4 {
	p := obj.Position()
	return mgl32.Translate3D(p[0], p[1], p[2]).Mul4(obj.Rotation().Mat4())
}

// instanceMatrix uses the physics body when present, otherwise T·S·R.
func instanceMatrix(obj game_object.GameObject) mgl32.Mat4 {
	if body := obj.Body(); body != nil {
		return body.WorldTransform()
	}
	p, s := obj.Position(), obj.Scale()
	return mgl32.Translate3D(p[0], p[1], p[2]).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2])).
		Mul4(obj.Rotation().Mat4())
}

// lookupModel fetches an object's model, warning when it is not loaded.
func (s *scene) lookupModel(obj game_object.GameObject) (model.Model, bool) {
	m, ok := s.models.Model(obj.ModelName())
	if !ok {
		s.logger.Warn().Uint64("object", obj.ID()).Str("model", obj.ModelName()).Str("kind", obj.Kind().String()).Msg("model not loaded, skipping")
	}
	return m, ok
}

func (s *scene) renderPedestrians(peds []game_object.GameObject) {
	for _, obj := range peds {
		if !obj.Enabled() {
			continue
		}
		m, ok := s.lookupModel(obj)
		if !ok {
			continue
		}
		s.fr.renderModel(m, translateRotate(obj), obj, CullPedestrian)
	}
}

// instanceActive applies the object's on/off hour window.
func instanceActive(timeOn, timeOff int, hour float32) bool {
	on, off := float32(timeOn), float32(timeOff)
	return !(timeOn != timeOff && hour < on && hour > off)
}

func (s *scene) renderInstances(instances []game_object.GameObject, hour float32, camPos mgl32.Vec3) {
	for _, obj := range instances {
		if !obj.Enabled() {
			continue
		}
		def := obj.Definition()
		if def == nil {
			continue
		}
		if !instanceActive(def.TimeOn, def.TimeOff, hour) {
			continue
		}
		m, ok := s.lookupModel(obj)
		if !ok {
			continue
		}
		matrix := instanceMatrix(obj)

		linked := obj.LOD()
		decision := SelectLOD(def, linkedDefinition(linked), m, MinDistance(m, originOf(matrix), camPos))

		switch decision.Kind {
		case LODCulled:
			s.fr.counters.cull(CullInstance)
		case LODFull:
			s.fr.renderModel(m, matrix, obj, CullInstance)
		case LODLinked:
			lm, ok := s.models.Model(linked.ModelName())
			if !ok {
				continue
			}
			s.fr.renderModel(lm, matrix, nil, CullInstance)
		case LODChild:
			s.fr.renderFrameTree(m, decision.Frame, childMatrix(matrix, m.Frame(decision.Frame)), nil, CullInstance)
		}
	}
}

func linkedDefinition(linked game_object.GameObject) *catalog.ObjectDefinition {
	if linked == nil {
		return nil
	}
	return linked.Definition()
}

func (s *scene) renderVehicles(vehicles []game_object.GameObject, camPos mgl32.Vec3) {
	for _, obj := range vehicles {
		if !obj.Enabled() {
			continue
		}
		if m, ok := s.lookupModel(obj); ok {
			s.renderVehicleBody(obj, m, camPos)
		}
		s.renderWheels(obj)
	}
}

// renderVehicleBody picks the body's detail level from the vehicle's draw definition. A vehicle
// without one always draws its whole model. The vehicle stays the owning object on every branch
// so paint colors still resolve.
func (s *scene) renderVehicleBody(obj game_object.GameObject, m model.Model, camPos mgl32.Vec3) {
	matrix := translateRotate(obj)
	def := obj.Definition()
	if def == nil {
		s.fr.renderModel(m, matrix, obj, CullVehicle)
		return
	}

	decision := SelectLOD(def, nil, m, MinDistance(m, originOf(matrix), camPos))
	switch decision.Kind {
	case LODCulled:
		s.fr.counters.cull(CullVehicle)
	case LODFull:
		s.fr.renderModel(m, matrix, obj, CullVehicle)
	case LODChild:
		s.fr.renderFrameTree(m, decision.Frame, childMatrix(matrix, m.Frame(decision.Frame)), obj, CullVehicle)
	}
}

// renderWheels draws each wheel of a vehicle from the frame of the shared wheels model named by
// the vehicle's wheel model.
func (s *scene) renderWheels(obj game_object.GameObject) {
	info := obj.Vehicle()
	if info == nil || info.Physics == nil || info.WheelModel == "" || info.Physics.WheelCount() == 0 {
		return
	}
	wheels, ok := s.models.Model(wheelsModel)
	if !ok {
		s.logger.Warn().Uint64("object", obj.ID()).Str("wheel", info.WheelModel).Msg("wheel model not loaded")
		return
	}
	frameIdx, ok := wheels.FindFrame(info.WheelModel)
	if !ok {
		s.logger.Warn().Uint64("object", obj.ID()).Str("wheel", info.WheelModel).Msg("wheel frame not found")
		return
	}
	frame := wheels.Frame(frameIdx)
	if len(frame.Children) == 0 {
		return
	}
	firstLOD := wheels.Frame(frame.Children[0])

	for i := 0; i < info.Physics.WheelCount(); i++ {
		tf := WheelMatrix(info.Physics.WheelTransform(i), info.WheelScale, info.Physics.WheelConnectionPoint(i))
		origin := common.TranslationOf(tf)
		for _, g := range firstLOD.Geometries {
			chunk := wheels.Geometry(g)
			if chunk == nil {
				continue
			}
			if !s.culler.Intersects(chunk.Bounds.Center.Add(origin), chunk.Bounds.Radius) {
				s.fr.counters.cull(CullWheel)
				continue
			}
			s.fr.renderChunk(wheels, g, tf, nil)
		}
	}
}

// WheelMatrix scales a wheel's physics transform and mirrors wheels mounted on the left side.
//
// Parameters:
//   - transform: the wheel's world transform from the physics vehicle
//   - scale: the vehicle's wheel scale
//   - connection: the wheel's chassis connection point
//
// Returns:
//   - mgl32.Mat4: the wheel draw matrix
func WheelMatrix(transform mgl32.Mat4, scale float32, connection mgl32.Vec3) mgl32.Mat4 {
	tf := transform.Mul4(mgl32.Scale3D(scale, scale, scale))
	if connection.X() < 0 {
		tf = tf.Mul4(mgl32.Scale3D(-1, 1, 1))
	}
	return tf
}
