package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider_Empty(t *testing.T) {
	p := NewBindGroupProvider("mesh 1", WithMesh(nil, nil, 36))

	assert.Equal(t, "mesh 1", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(0))
	assert.Nil(t, p.Sampler(1))
	assert.Equal(t, uint32(36), p.IndexCount())
}

func TestRelease_ClearsState(t *testing.T) {
	p := NewBindGroupProvider("textured", WithUniform(0, nil))
	p.SetTexture(0, nil, nil)
	p.SetSampler(1, nil)
	p.SetMesh(nil, nil, 6)

	p.Release()
	p.Release()

	assert.Equal(t, uint32(0), p.IndexCount())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
}
