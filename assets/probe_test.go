package assets

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"
	"testing"

	"golang.org/x/image/bmp"
)

const glbDoc = `{"asset":{"version":"2.0","generator":"NX Exporter 1.4"},` +
	`"scene":0,"scenes":[{"nodes":[0,1]}],` +
	`"nodes":[{"name":"Cube"},{"name":"Sun"}],` +
	`"meshes":[{"name":"Cube","primitives":[]}],` +
	`"materials":[{"name":"Mat"}]}`

func sectionOf(data []byte) *io.SectionReader {
	return io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data)))
}

func buildGLB(t *testing.T, version uint32, doc string) []byte {
	jsonChunk := []byte(doc)
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := make([]byte, 8)

	var buf bytes.Buffer
	u32 := func(v uint32) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	u32(GLB_MAGIC)
	u32(version)
	u32(uint32(12 + 8 + len(jsonChunk) + 8 + len(binChunk)))
	u32(uint32(len(jsonChunk)))
	u32(GLB_CHUNK_JSON)
	buf.Write(jsonChunk)
	u32(uint32(len(binChunk)))
	u32(GLB_CHUNK_BIN)
	buf.Write(binChunk)
	return buf.Bytes()
}

func buildWave(t *testing.T) []byte {
	data := make([]byte, 8000)

	var buf bytes.Buffer
	u32 := func(v uint32) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	u16 := func(v uint16) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}
	u32(RIFF_MAGIC)
	u32(uint32(4 + 8 + 16 + 8 + len(data)))
	u32(RIFF_TYPE_WAVE)
	u32(RIFF_CHUNK_FMT)
	u32(16)
	u16(1) // pcm
	u16(1) // mono
	u32(8000)
	u32(8000)
	u16(1)
	u16(8)
	u32(RIFF_CHUNK_DATA)
	u32(uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func buildPNG(t *testing.T) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const radiancePicture = "#?RADIANCE\n" +
	"# Made with NX\n" +
	"FORMAT=32-bit_rle_rgbe\n" +
	"EXPOSURE=2.0\n" +
	"\n" +
	"-Y 4 +X 8\n"

func TestProbeModelGLB(t *testing.T) {
	d := Descriptor{Type: TYPE_MODEL, Name: "Scene.glb"}
	details, err := ProbeModel(d, sectionOf(buildGLB(t, GLB_VERSION, glbDoc)))
	if err != nil {
		t.Fatal(err)
	}
	info := details.(*ModelInfo)
	if info.GLTFVersion != "2.0" {
		t.Errorf("GLTFVersion = %q; expected \"2.0\"", info.GLTFVersion)
	}
	if info.Generator != "NX Exporter 1.4" {
		t.Errorf("Generator = %q", info.Generator)
	}
	if info.Nodes != 2 || info.Meshes != 1 || info.Materials != 1 {
		t.Errorf("Inventory = %v nodes, %v meshes, %v materials; expected 2, 1, 1",
			info.Nodes, info.Meshes, info.Materials)
	}
	if info.BinarySize != 8 {
		t.Errorf("BinarySize = %v; expected 8", info.BinarySize)
	}
}

func TestProbeModelSeparateGLTF(t *testing.T) {
	d := Descriptor{Type: TYPE_MODEL, Name: "Scene.gltf"}
	details, err := ProbeModel(d, sectionOf([]byte(glbDoc)))
	if err != nil {
		t.Fatal(err)
	}
	info := details.(*ModelInfo)
	if info.Nodes != 2 {
		t.Errorf("Nodes = %v; expected 2", info.Nodes)
	}
	if info.BinarySize != 0 {
		t.Errorf("BinarySize = %v; expected 0 for separate mode", info.BinarySize)
	}
}

func TestProbeModelErrors(t *testing.T) {
	d := Descriptor{Type: TYPE_MODEL, Name: "Broken.glb"}
	if _, err := ProbeModel(d, sectionOf(buildGLB(t, 3, glbDoc))); err == nil {
		t.Errorf("Expected error for glb version 3")
	}
	if _, err := ProbeModel(d, sectionOf([]byte("not a model at all"))); err == nil {
		t.Errorf("Expected error for garbage bytes")
	}
}

func TestProbeAudioWave(t *testing.T) {
	d := Descriptor{Type: TYPE_AUDIO, Name: "step.wav"}
	details, err := ProbeAudio(d, sectionOf(buildWave(t)))
	if err != nil {
		t.Fatal(err)
	}
	info := details.(*AudioInfo)
	if info.Format != "wav" {
		t.Errorf("Format = %q; expected \"wav\"", info.Format)
	}
	if info.Channels != 1 || info.SampleRate != 8000 || info.BitsPerSample != 8 {
		t.Errorf("Header = %v ch %v hz %v bit; expected 1 ch 8000 hz 8 bit",
			info.Channels, info.SampleRate, info.BitsPerSample)
	}
	if info.Duration != 1.0 {
		t.Errorf("Duration = %v; expected 1.0", info.Duration)
	}
}

func TestProbeAudioCompressed(t *testing.T) {
	ogg := append([]byte("OggS"), make([]byte, 60)...)
	d := Descriptor{Type: TYPE_AUDIO, Name: "music.ogg"}
	details, err := ProbeAudio(d, sectionOf(ogg))
	if err != nil {
		t.Fatal(err)
	}
	if info := details.(*AudioInfo); info.Format != "ogg" {
		t.Errorf("Format = %q; expected \"ogg\"", info.Format)
	}

	if _, err := ProbeAudio(d, sectionOf([]byte("silence?"))); err == nil {
		t.Errorf("Expected error for non audio bytes")
	}
}

func TestProbeTexture(t *testing.T) {
	d := Descriptor{Type: TYPE_TEXTURE, Name: "stone.png"}
	details, err := ProbeTexture(d, sectionOf(buildPNG(t)))
	if err != nil {
		t.Fatal(err)
	}
	info := details.(*TextureInfo)
	if info.Width != 8 || info.Height != 4 {
		t.Errorf("Size = %vx%v; expected 8x4", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format = %q; expected \"png\"", info.Format)
	}
}

func TestProbeTextureBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatal(err)
	}
	d := Descriptor{Type: TYPE_TEXTURE, Name: "stone.bmp"}
	details, err := ProbeTexture(d, sectionOf(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	info := details.(*TextureInfo)
	if info.Width != 8 || info.Height != 4 || info.Format != "bmp" {
		t.Errorf("Probe = %vx%v %q; expected 8x4 bmp", info.Width, info.Height, info.Format)
	}
}

func TestProbeTextureSniffFallback(t *testing.T) {
	// a bare riff header carries no sizeable chunk, the sniffer still
	// recognizes the container
	webp := append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 60)...)
	d := Descriptor{Type: TYPE_TEXTURE, Name: "stone.webp"}
	details, err := ProbeTexture(d, sectionOf(webp))
	if err != nil {
		t.Fatal(err)
	}
	if info := details.(*TextureInfo); info.Format != "webp" {
		t.Errorf("Format = %q; expected \"webp\"", info.Format)
	}
}

func TestProbeHDR(t *testing.T) {
	d := Descriptor{Type: TYPE_HDR, Name: "env.hdr"}
	details, err := ProbeHDR(d, sectionOf([]byte(radiancePicture)))
	if err != nil {
		t.Fatal(err)
	}
	info := details.(*HDRInfo)
	if info.Width != 8 || info.Height != 4 {
		t.Errorf("Size = %vx%v; expected 8x4", info.Width, info.Height)
	}
	if info.Format != "32-bit_rle_rgbe" {
		t.Errorf("Format = %q", info.Format)
	}
	if info.Exposure != 2.0 {
		t.Errorf("Exposure = %v; expected 2.0", info.Exposure)
	}
}

func TestProbeHDRErrors(t *testing.T) {
	d := Descriptor{Type: TYPE_HDR, Name: "env.hdr"}
	for _, src := range []string{
		"PF\n8 4\n",
		"#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n",
		"#?RADIANCE\n\n8 4 -Y +X\n",
	} {
		if _, err := ProbeHDR(d, sectionOf([]byte(src))); err == nil {
			t.Errorf("Expected error for %q", src)
		}
	}
}
