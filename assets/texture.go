package assets

import (
	"fmt"
	"image"
	"io"
	"io/ioutil"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/h2non/filetype"
)

type TextureInfo struct {
	Width  int
	Height int
	Format string
}

func init() {
	SetProber(TYPE_TEXTURE, ProbeTexture)
}

// ProbeTexture reads just enough header to report dimensions. Formats
// outside the registered decoders still pass as long as the bytes sniff
// as an image; the viewer decodes them anyway.
func ProbeTexture(d Descriptor, r *io.SectionReader) (interface{}, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err == nil {
		return &TextureInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	head, err := ioutil.ReadAll(io.LimitReader(r, 262))
	if err != nil {
		return nil, err
	}
	if filetype.IsImage(head) {
		if t, err := filetype.Match(head); err == nil {
			return &TextureInfo{Format: t.Extension}, nil
		}
	}
	return nil, fmt.Errorf("[assets] %q does not look like an image", d.Name)
}
