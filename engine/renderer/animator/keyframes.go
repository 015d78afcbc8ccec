package animator

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// keySpan finds the pair of keyframes bracketing t and the blend factor between them.
// Times before the first key clamp to the first key, times after the last key clamp to the last.
func keySpan(count int, timeAt func(int) float32, t float32) (int, int, float32) {
	if count == 1 || t <= timeAt(0) {
		return 0, 0, 0
	}
	if t >= timeAt(count-1) {
		return count - 1, count - 1, 0
	}
	next := sort.Search(count, func(i int) bool { return timeAt(i) > t })
	prev := next - 1
	span := timeAt(next) - timeAt(prev)
	if span <= 0 {
		return prev, prev, 0
	}
	return prev, next, (t - timeAt(prev)) / span
}

func sampleVector(keys []model.VectorKeyframe, t float32) mgl32.Vec3 {
	a, b, f := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if a == b {
		return keys[a].Value
	}
	va, vb := keys[a].Value, keys[b].Value
	return va.Add(vb.Sub(va).Mul(f))
}

func sampleQuaternion(keys []model.QuaternionKeyframe, t float32) mgl32.Quat {
	a, b, f := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if a == b {
		return keys[a].Value.Normalize()
	}
	return mgl32.QuatSlerp(keys[a].Value, keys[b].Value, f).Normalize()
}
