package vfs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	path_ "path"
	"strings"
)

const BUNDLE_EXTENSION = ".nxb"

// ZipDriver serves a compiled project bundle (a plain zip of the build
// directory, conventionally named *.nxb) without unpacking it to disk.
type ZipDriver struct {
	zipDirectory
	closer io.Closer
}

type zipDirectory struct {
	name    string
	subdirs map[string]*zipDirectory
	files   map[string]*ZipDriverFile
}

func (zd *zipDirectory) Init(parent Directory) {}

func (zd *zipDirectory) Name() string {
	return zd.name
}

func (zd *zipDirectory) IsDirectory() bool {
	return true
}

func (zd *zipDirectory) List() ([]string, error) {
	result := make([]string, 0, len(zd.subdirs)+len(zd.files))
	for name := range zd.subdirs {
		result = append(result, name)
	}
	for name := range zd.files {
		result = append(result, name)
	}
	return result, nil
}

func (zd *zipDirectory) GetElement(name string) (Element, error) {
	if sub, ok := zd.subdirs[name]; ok {
		return sub, nil
	}
	if f, ok := zd.files[name]; ok {
		return f, nil
	}
	return nil, os.ErrNotExist
}

func (zd *zipDirectory) subdir(name string) *zipDirectory {
	if zd.subdirs == nil {
		zd.subdirs = make(map[string]*zipDirectory)
	}
	if sub, ok := zd.subdirs[name]; ok {
		return sub
	}
	sub := &zipDirectory{name: name}
	zd.subdirs[name] = sub
	return sub
}

func (zd *zipDirectory) insert(zf *zip.File) {
	parts := strings.Split(strings.Trim(zf.Name, "/"), "/")
	dir := zd
	for i := 0; i < len(parts)-1; i++ {
		dir = dir.subdir(parts[i])
	}
	last := parts[len(parts)-1]
	if zf.FileInfo().IsDir() {
		dir.subdir(last)
		return
	}
	if dir.files == nil {
		dir.files = make(map[string]*ZipDriverFile)
	}
	dir.files[last] = &ZipDriverFile{f: zf}
}

func (zd *ZipDriver) Close() error {
	if zd.closer != nil {
		return zd.closer.Close()
	}
	return nil
}

func NewZipDriver(path string) (*ZipDriver, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open bundle '%s': %v", path, err)
	}
	drv := newZipDriver(&r.Reader, path_.Base(path))
	drv.closer = r
	return drv, nil
}

func NewZipDriverFromReaderAt(r io.ReaderAt, size int64, name string) (*ZipDriver, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("Cannot read bundle '%s': %v", name, err)
	}
	return newZipDriver(zr, name), nil
}

func newZipDriver(zr *zip.Reader, name string) *ZipDriver {
	drv := &ZipDriver{zipDirectory: zipDirectory{name: name}}
	for _, zf := range zr.File {
		drv.insert(zf)
	}
	return drv
}

// ZipDriverFile materializes the member on Open. Bundle members are
// scene-sized (manifest, glb, textures), not disc-sized, so holding one
// in memory while opened is fine.
type ZipDriverFile struct {
	f    *zip.File
	data []byte
}

func (f *ZipDriverFile) Init(parent Directory) {}

func (f *ZipDriverFile) Name() string {
	return path_.Base(f.f.Name)
}

func (f *ZipDriverFile) IsDirectory() bool {
	return false
}

func (f *ZipDriverFile) Size() int64 {
	return int64(f.f.UncompressedSize64)
}

func (f *ZipDriverFile) Open() error {
	if f.data != nil {
		return fmt.Errorf("File already opened")
	}
	r, err := f.f.Open()
	if err != nil {
		return fmt.Errorf("Cannot open bundle member '%s': %v", f.f.Name, err)
	}
	defer r.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return fmt.Errorf("Cannot read bundle member '%s': %v", f.f.Name, err)
	}
	f.data = data
	return nil
}

func (f *ZipDriverFile) Close() error {
	f.data = nil
	return nil
}

func (f *ZipDriverFile) Reader() (*io.SectionReader, error) {
	if f.data == nil {
		return nil, fmt.Errorf("First you need to open file")
	}
	return io.NewSectionReader(bytes.NewReader(f.data), 0, int64(len(f.data))), nil
}

func (f *ZipDriverFile) ReadAt(b []byte, off int64) (n int, err error) {
	if f.data == nil {
		return 0, fmt.Errorf("First you need to open file")
	}
	return bytes.NewReader(f.data).ReadAt(b, off)
}
