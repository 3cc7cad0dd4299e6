package vfs

import (
	"archive/zip"
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

var bundleMembers = map[string]string{
	"project.nx":            `{"name":"test"}`,
	"Scene.glb":             "glTFbinary",
	"scene_assets/env.hdr":  "#?RADIANCE\n",
	"scene_assets/step.wav": "RIFFdata",
}

func buildBundle(t *testing.T) *ZipDriver {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range bundleMembers {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	drv, err := NewZipDriverFromReaderAt(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "test.nxb")
	if err != nil {
		t.Fatal(err)
	}
	return drv
}

func TestZipDriverList(t *testing.T) {
	drv := buildBundle(t)

	names, err := drv.List()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)

	expected := []string{"Scene.glb", "project.nx", "scene_assets"}
	if len(names) != len(expected) {
		t.Fatalf("List() = %v; expected %v", names, expected)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("List()[%d] = %q; expected %q", i, names[i], expected[i])
		}
	}
}

func TestZipDriverRead(t *testing.T) {
	drv := buildBundle(t)

	for name, body := range bundleMembers {
		data, err := ReadFileAll(drv, name)
		if err != nil {
			t.Errorf("ReadFileAll(%q): %v", name, err)
			continue
		}
		if string(data) != body {
			t.Errorf("ReadFileAll(%q) = %q; expected %q", name, data, body)
		}
	}
}

func TestZipDriverMissing(t *testing.T) {
	drv := buildBundle(t)
	if _, err := drv.GetElement("nope.glb"); !os.IsNotExist(err) {
		t.Errorf("GetElement(nope.glb) err = %v; expected not exist", err)
	}
	if _, err := ReadFileAll(drv, "scene_assets/nope.wav"); err == nil {
		t.Errorf("Expected error for missing nested file")
	}
}

// The directory driver over an unpacked tree must behave exactly like the
// zip driver over the packed bundle.
func TestDirectoryDriverMatchesZip(t *testing.T) {
	root := t.TempDir()
	for name, body := range bundleMembers {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if err := ioutil.WriteFile(full, []byte(body), 0666); err != nil {
			t.Fatal(err)
		}
	}

	dir := NewDirectoryDriver(root)
	zipDrv := buildBundle(t)

	for name := range bundleMembers {
		fromDir, err := ReadFileAll(dir, name)
		if err != nil {
			t.Fatalf("dir ReadFileAll(%q): %v", name, err)
		}
		fromZip, err := ReadFileAll(zipDrv, name)
		if err != nil {
			t.Fatalf("zip ReadFileAll(%q): %v", name, err)
		}
		if !bytes.Equal(fromDir, fromZip) {
			t.Errorf("Driver mismatch for %q: dir %q, zip %q", name, fromDir, fromZip)
		}
	}
}
