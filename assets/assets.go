package assets

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

const (
	TYPE_MODEL   = "model"
	TYPE_TEXTURE = "texture"
	TYPE_AUDIO   = "audio"
	TYPE_HDR     = "hdr"
)

// Descriptor is one entry of a scene's load list: what to load, what to
// call it, where the bytes live. URLs are either source-relative paths
// or absolute http(s) locations.
type Descriptor struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (d Descriptor) Location() string {
	if d.URL != "" {
		return d.URL
	}
	return d.Name
}

func (d Descriptor) IsRemote() bool {
	loc := d.Location()
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// Info is a staged asset: probed, inventoried, ready to be served to the
// viewer and enqueued on its task manager.
type Info struct {
	Task uuid.UUID
	Descriptor
	Size    int64
	MIME    string
	Details interface{}
}

type Prober func(d Descriptor, r *io.SectionReader) (interface{}, error)

var gProbers = make(map[string]Prober)

func SetProber(assetType string, p Prober) {
	gProbers[strings.ToLower(assetType)] = p
}

func HasProber(assetType string) bool {
	_, found := gProbers[strings.ToLower(assetType)]
	return found
}

func CallProber(d Descriptor, r *io.SectionReader) (interface{}, error) {
	if p, found := gProbers[strings.ToLower(d.Type)]; found {
		return p(d, r)
	}
	return nil, fmt.Errorf("[assets] Cannot find prober for type %q", d.Type)
}
