package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBHeader   = errors.New("invalid GLB header")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir  string
	document *gltfDocument
	binChunk []byte
}

// gltfParser decodes a glTF or GLB payload and reads typed accessor data from it.
type gltfParser interface {
	// Parse decodes a glTF JSON or GLB payload. GLB is detected from the magic number.
	//
	// Parameters:
	//   - data: the file contents
	//   - baseDir: the directory external buffer URIs are resolved against, may be empty
	//
	// Returns:
	//   - error: error if decoding fails
	Parse(data []byte, baseDir string) error

	// Document returns the parsed document, or nil before a successful Parse.
	//
	// Returns:
	//   - *gltfDocument: the parsed document
	Document() *gltfDocument

	// ReadFloats reads a float accessor of the given type as a flat slice.
	// Normalized integer accessors are converted to [0, 1] floats.
	//
	// Parameters:
	//   - accessorIndex: the accessor
	//   - accessorType: the expected element type, such as VEC3
	//
	// Returns:
	//   - []float32: count * components values
	//   - error: error if the accessor has another type or cannot be read
	ReadFloats(accessorIndex int, accessorType string) ([]float32, error)

	// ReadIndices reads an index accessor of any unsigned component type as uint32.
	//
	// Parameters:
	//   - accessorIndex: the accessor
	//
	// Returns:
	//   - []uint32: the indices
	//   - error: error if the accessor cannot be read
	ReadIndices(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(data []byte, baseDir string) error {
	p.baseDir = baseDir
	jsonData := data
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic {
		var err error
		if jsonData, err = p.splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}
	p.document = &doc
	return nil
}

// splitGLB walks the GLB chunks, keeping the binary chunk and returning the JSON chunk.
func (p *gltfParserImpl) splitGLB(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)
	var header struct{ Magic, Version, Length uint32 }
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil || header.Version != gltfGLBVersion {
		return nil, errInvalidGLBHeader
	}

	var jsonData []byte
	for {
		var chunk struct{ Length, Type uint32 }
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		payload := make([]byte, chunk.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.Type {
		case gltfGLBChunkJSON:
			jsonData = payload
		case gltfGLBChunkBIN:
			p.binChunk = payload
		}
	}
	if jsonData == nil {
		return nil, errMissingJSONChunk
	}
	return jsonData, nil
}

func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.binChunk != nil:
			buf.Data = p.binChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("failed to load buffer file %q: %w", buf.URI, err)
			}
			buf.Data = data
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, errInvalidBufferURI
	}
	if !strings.Contains(uri[5:comma], "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", uri[5:comma])
	}
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// elements returns the raw bytes of each accessor element, honoring byte stride.
func (p *gltfParserImpl) elements(accessorIndex int) (*gltfAccessor, [][]byte, error) {
	if p.document == nil {
		return nil, nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &p.document.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, nil, errors.New("sparse accessors not supported")
	}
	if acc.BufferView == nil || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, nil, errors.New("accessor has no bufferView")
	}
	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, nil, fmt.Errorf("bufferView references buffer %d", bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].Data

	size := componentSize(acc.ComponentType) * componentCount(acc.Type)
	if size == 0 {
		return nil, nil, fmt.Errorf("unsupported accessor %s/%d", acc.Type, acc.ComponentType)
	}
	stride := size
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	base := bv.ByteOffset + acc.ByteOffset
	out := make([][]byte, acc.Count)
	for i := range out {
		start := base + i*stride
		if start+size > len(data) {
			return nil, nil, fmt.Errorf("accessor %d: %w", accessorIndex, errBufferSizeMismatch)
		}
		out[i] = data[start : start+size]
	}
	return acc, out, nil
}

func (p *gltfParserImpl) ReadFloats(accessorIndex int, accessorType string) ([]float32, error) {
	acc, elems, err := p.elements(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != accessorType {
		return nil, fmt.Errorf("accessor %d is %s, want %s", accessorIndex, acc.Type, accessorType)
	}

	n := componentCount(acc.Type)
	cs := componentSize(acc.ComponentType)
	out := make([]float32, 0, len(elems)*n)
	for _, e := range elems {
		for c := 0; c < n; c++ {
			raw := e[c*cs : (c+1)*cs]
			switch acc.ComponentType {
			case gltfComponentTypeFloat:
				out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(raw)))
			case gltfComponentTypeUnsignedByte:
				out = append(out, float32(raw[0])/math.MaxUint8)
			case gltfComponentTypeUnsignedShort:
				out = append(out, float32(binary.LittleEndian.Uint16(raw))/math.MaxUint16)
			default:
				return nil, fmt.Errorf("accessor %d: unsupported float component type %d", accessorIndex, acc.ComponentType)
			}
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadIndices(accessorIndex int) ([]uint32, error) {
	acc, elems, err := p.elements(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}
	out := make([]uint32, len(elems))
	for i, e := range elems {
		switch acc.ComponentType {
		case gltfComponentTypeUnsignedByte:
			out[i] = uint32(e[0])
		case gltfComponentTypeUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(e))
		case gltfComponentTypeUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(e)
		default:
			return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
		}
	}
	return out, nil
}

func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

func componentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
