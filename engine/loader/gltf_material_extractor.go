package loader

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
)

// extractMaterials converts document materials. The base color factor becomes the byte material color,
// the base color texture becomes a texture reference named after its image, and extras select vehicle
// paint flags and lighting intensities.
//
// Parameters:
//   - doc: the parsed document
//
// Returns:
//   - []material.Material: one material per document material
//   - error: error if a material's extras are malformed
func extractMaterials(doc *gltfDocument) ([]material.Material, error) {
	out := make([]material.Material, len(doc.Materials))
	for i := range doc.Materials {
		src := &doc.Materials[i]

		color := [4]uint8{255, 255, 255, 255}
		var textures []material.TextureRef
		if pbr := src.PbrMetallicRoughness; pbr != nil {
			if f := pbr.BaseColorFactor; f != nil {
				for c := range color {
					color[c] = toByte(f[c])
				}
			}
			if pbr.BaseColorTexture != nil {
				if name := textureName(doc, pbr.BaseColorTexture.Index); name != "" {
					textures = append(textures, material.TextureRef{Name: name})
				}
			}
		}

		var extras gltfMaterialExtras
		if len(src.Extras) > 0 {
			if err := json.Unmarshal(src.Extras, &extras); err != nil {
				return nil, fmt.Errorf("material %d extras: %w", i, err)
			}
		}
		var flags material.MaterialFlag
		if extras.PrimaryColor {
			flags |= material.MaterialFlagPrimaryColor
		}
		if extras.SecondaryColor {
			flags |= material.MaterialFlagSecondaryColor
		}
		diffuse, ambient := float32(1), float32(1)
		if extras.Diffuse != nil {
			diffuse = *extras.Diffuse
		}
		if extras.Ambient != nil {
			ambient = *extras.Ambient
		}

		out[i] = material.NewMaterial(
			material.WithName(src.Name),
			material.WithColor(color),
			material.WithIntensities(diffuse, ambient),
			material.WithTextures(textures),
			material.WithFlags(flags),
		)
	}
	return out, nil
}

// textureName resolves a texture index to the name used by the texture cache:
// the image name, or the image URI's base name without extension.
func textureName(doc *gltfDocument, textureIndex int) string {
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return ""
	}
	src := doc.Textures[textureIndex].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return ""
	}
	img := &doc.Images[*src]
	if img.Name != "" {
		return img.Name
	}
	if img.URI == "" || strings.HasPrefix(img.URI, "data:") {
		return ""
	}
	base := path.Base(img.URI)
	return strings.TrimSuffix(base, path.Ext(base))
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
