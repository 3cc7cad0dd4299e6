package assets

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/qmuntal/gltf"
)

const GLB_MAGIC = 0x46546C67
const GLB_VERSION = 2

const (
	GLB_CHUNK_JSON = 0x4E4F534A
	GLB_CHUNK_BIN  = 0x004E4942
)

// ModelInfo is the inventory of one glb group: enough to weight load
// progress and to sanity check the scene without decoding any geometry.
type ModelInfo struct {
	GLTFVersion string
	Generator   string
	Nodes       int
	Meshes      int
	Materials   int
	Animations  int
	Cameras     int
	Textures    int
	BinarySize  int64
}

func init() {
	SetProber(TYPE_MODEL, ProbeModel)
}

func ProbeModel(d Descriptor, r *io.SectionReader) (interface{}, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("[assets] Cannot read %q header: %v", d.Name, err)
	}

	var doc gltf.Document
	var binSize int64

	if binary.LittleEndian.Uint32(magic[:]) == GLB_MAGIC {
		size, err := probeGLB(r, &doc)
		if err != nil {
			return nil, fmt.Errorf("[assets] Bad glb container %q: %v", d.Name, err)
		}
		binSize = size
	} else {
		// separate gltf mode ships plain json
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("[assets] %q is neither glb nor gltf: %v", d.Name, err)
		}
	}

	return &ModelInfo{
		GLTFVersion: doc.Asset.Version,
		Generator:   doc.Asset.Generator,
		Nodes:       len(doc.Nodes),
		Meshes:      len(doc.Meshes),
		Materials:   len(doc.Materials),
		Animations:  len(doc.Animations),
		Cameras:     len(doc.Cameras),
		Textures:    len(doc.Textures),
		BinarySize:  binSize,
	}, nil
}

// probeGLB walks the binary container chunks. r is positioned after the
// 4 magic bytes. Only the json chunk is materialized; bin chunks are
// skipped and just measured.
func probeGLB(r *io.SectionReader, doc *gltf.Document) (int64, error) {
	var rest [8]byte
	if _, err := io.ReadFull(r, rest[:]); err != nil {
		return 0, fmt.Errorf("Truncated header: %v", err)
	}
	if version := binary.LittleEndian.Uint32(rest[0:]); version != GLB_VERSION {
		return 0, fmt.Errorf("Unsupported glb version %v", version)
	}

	var binSize int64
	haveJson := false
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("Truncated chunk header: %v", err)
		}
		length := binary.LittleEndian.Uint32(chunkHeader[0:])
		chunkType := binary.LittleEndian.Uint32(chunkHeader[4:])

		switch chunkType {
		case GLB_CHUNK_JSON:
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return 0, fmt.Errorf("Truncated json chunk: %v", err)
			}
			if err := json.Unmarshal(data, doc); err != nil {
				return 0, fmt.Errorf("Bad json chunk: %v", err)
			}
			haveJson = true
		case GLB_CHUNK_BIN:
			binSize += int64(length)
			if _, err := r.Seek(int64(length), io.SeekCurrent); err != nil {
				return 0, err
			}
		default:
			if _, err := r.Seek(int64(length), io.SeekCurrent); err != nil {
				return 0, err
			}
		}
	}

	if !haveJson {
		return 0, fmt.Errorf("No json chunk")
	}
	return binSize, nil
}
