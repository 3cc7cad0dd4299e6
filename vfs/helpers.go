package vfs

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"
)

func OpenFileAndGetReader(f File) (*io.SectionReader, error) {
	if err := f.Open(); err != nil {
		return nil, fmt.Errorf("Cannot open file '%s': %v", f.Name(), err)
	} else {
		if r, err := f.Reader(); err != nil {
			defer f.Close()
			return nil, fmt.Errorf("Cannot get file '%s' reader: %v", f.Name(), err)
		} else {
			return r, err
		}
	}
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	if f, err := d.GetElement(name); err != nil {
		return nil, fmt.Errorf("Cannot open file '%s': %v", name, err)
	} else if f.IsDirectory() {
		return nil, fmt.Errorf("File '%s' is directory, not a file!", name)
	} else {
		return f.(File), nil
	}
}

func DirectoryGetDirectory(d Directory, name string) (Directory, error) {
	if e, err := d.GetElement(name); err != nil {
		return nil, fmt.Errorf("Cannot open directory '%s': %v", name, err)
	} else if !e.IsDirectory() {
		return nil, fmt.Errorf("'%s' is a file, not a directory!", name)
	} else {
		return e.(Directory), nil
	}
}

// GetFileByPath walks a slash-separated path ("scene_assets/env.hdr")
// down from d. Build layouts nest assets one level deep at most, but the
// walk is generic.
func GetFileByPath(d Directory, p string) (File, error) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		sub, err := DirectoryGetDirectory(d, parts[i])
		if err != nil {
			return nil, err
		}
		d = sub
	}
	return DirectoryGetFile(d, parts[len(parts)-1])
}

// ReadFileAll opens, reads and closes a file by path.
func ReadFileAll(d Directory, p string) ([]byte, error) {
	f, err := GetFileByPath(d, p)
	if err != nil {
		return nil, err
	}
	r, err := OpenFileAndGetReader(f)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Cannot read file '%s': %v", p, err)
	}
	return data, nil
}
