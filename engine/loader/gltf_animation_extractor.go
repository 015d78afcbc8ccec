package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// extractAnimations converts document animations into clips keyed by frame name.
// Only translation and rotation channels are kept; scale and morph weights are ignored.
//
// Parameters:
//   - parser: the parser holding the document
//   - frames: the extracted frame arena
//   - nodeToFrame: glTF node index to frame index
//
// Returns:
//   - []*model.AnimationClip: one clip per document animation
//   - error: error if keyframe data cannot be read
func extractAnimations(parser gltfParser, frames []model.Frame, nodeToFrame map[int]int) ([]*model.AnimationClip, error) {
	doc := parser.Document()
	clips := make([]*model.AnimationClip, 0, len(doc.Animations))

	for ai := range doc.Animations {
		anim := &doc.Animations[ai]
		clip := &model.AnimationClip{
			Name:     anim.Name,
			Channels: make(map[string]*model.AnimationChannel),
		}
		if clip.Name == "" {
			clip.Name = fmt.Sprintf("animation_%d", ai)
		}

		for ci, ch := range anim.Channels {
			if ch.Target.Node == nil {
				continue
			}
			if ch.Target.Path != gltfAnimPathTranslation && ch.Target.Path != gltfAnimPathRotation {
				continue
			}
			fi, ok := nodeToFrame[*ch.Target.Node]
			if !ok {
				continue
			}
			if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
				return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", clip.Name, ci, ch.Sampler)
			}
			sampler := anim.Samplers[ch.Sampler]

			times, err := parser.ReadFloats(sampler.Input, gltfAccessorTypeScalar)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", clip.Name, ci, err)
			}
			if len(times) > 0 && times[len(times)-1] > clip.Duration {
				clip.Duration = times[len(times)-1]
			}

			name := frames[fi].Name
			channel := clip.Channels[name]
			if channel == nil {
				channel = &model.AnimationChannel{FrameName: name}
				clip.Channels[name] = channel
			}

			switch ch.Target.Path {
			case gltfAnimPathTranslation:
				values, err := parser.ReadFloats(sampler.Output, gltfAccessorTypeVec3)
				if err != nil {
					return nil, fmt.Errorf("animation %q channel %d: %w", clip.Name, ci, err)
				}
				for k := 0; k < len(times) && k*3+2 < len(values); k++ {
					channel.PositionKeys = append(channel.PositionKeys, model.VectorKeyframe{
						Time:  times[k],
						Value: mgl32.Vec3{values[k*3], values[k*3+1], values[k*3+2]},
					})
				}
			case gltfAnimPathRotation:
				values, err := parser.ReadFloats(sampler.Output, gltfAccessorTypeVec4)
				if err != nil {
					return nil, fmt.Errorf("animation %q channel %d: %w", clip.Name, ci, err)
				}
				for k := 0; k < len(times) && k*4+3 < len(values); k++ {
					channel.RotationKeys = append(channel.RotationKeys, model.QuaternionKeyframe{
						Time:  times[k],
						Value: mgl32.Quat{W: values[k*4+3], V: mgl32.Vec3{values[k*4], values[k*4+1], values[k*4+2]}},
					})
				}
			}
		}
		clips = append(clips, clip)
	}
	return clips, nil
}
