package project

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/config"
	"github.com/nxengine/nx_player/utils"
	"github.com/nxengine/nx_player/vfs"
	"github.com/nxengine/nx_player/webutils"
)

// Parse unmarshals and validates manifest bytes.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal manifest")
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(err, "Invalid manifest")
	}
	if config.GetDebug() {
		utils.LogDump(&p)
	}
	return &p, nil
}

// LoadFromDirectory reads the manifest out of a project source.
func LoadFromDirectory(d vfs.Directory) (*Project, error) {
	data, err := vfs.ReadFileAll(d, PROJECT_FILE_NAME)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", PROJECT_FILE_NAME)
	}
	return Parse(data)
}

// LoadFromURL fetches the manifest of a hosted build.
func LoadFromURL(client *http.Client, url string) (*Project, error) {
	data, err := webutils.FetchBytes(client, url)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// TryLoad is the swallowing loader: nil on any failure, after logging.
// The shell shows nil as a loading screen error instead of crashing.
func TryLoad(d vfs.Directory) *Project {
	p, err := LoadFromDirectory(d)
	if err != nil {
		log.Printf("[project] Failed to load project: %v", err)
		return nil
	}
	return p
}

func TryLoadURL(client *http.Client, url string) *Project {
	p, err := LoadFromURL(client, url)
	if err != nil {
		log.Printf("[project] Failed to load project from %q: %v", url, err)
		return nil
	}
	return p
}
