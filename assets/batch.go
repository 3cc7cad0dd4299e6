package assets

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/h2non/filetype"
	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/utils"
	"github.com/nxengine/nx_player/vfs"
	"github.com/nxengine/nx_player/webutils"
)

// Batch stages one scene's asset list. Entries with an unregistered type
// are logged and skipped; the first staging failure aborts the rest.
// There is exactly one batch in flight per session, so this runs inline.
type Batch struct {
	source vfs.Directory
	client *http.Client

	OnProgress func(fraction float32)
	OnSuccess  func(loaded []*Info)
	OnError    func(err error)
}

func NewBatch(source vfs.Directory) *Batch {
	return &Batch{source: source}
}

func (b *Batch) SetClient(client *http.Client) {
	b.client = client
}

func (b *Batch) Run(list []Descriptor) ([]*Info, error) {
	tasks := make([]Descriptor, 0, len(list))
	for _, d := range list {
		if !HasProber(d.Type) {
			log.Printf("[assets] Skipping %q: unknown asset type %q", d.Name, d.Type)
			continue
		}
		tasks = append(tasks, d)
	}

	b.progress(0)

	loaded := make([]*Info, 0, len(tasks))
	for i, d := range tasks {
		info, err := b.stage(d)
		if err != nil {
			err = errors.Wrapf(err, "Failed to stage %q", d.Name)
			log.Printf("[assets] %v", err)
			if b.OnError != nil {
				b.OnError(err)
			}
			return loaded, err
		}
		loaded = append(loaded, info)
		b.progress(float32(i+1) / float32(len(tasks)))
	}

	if len(tasks) == 0 {
		b.progress(1)
	}
	if b.OnSuccess != nil {
		b.OnSuccess(loaded)
	}
	return loaded, nil
}

func (b *Batch) progress(fraction float32) {
	if b.OnProgress != nil {
		b.OnProgress(fraction)
	}
}

func (b *Batch) stage(d Descriptor) (*Info, error) {
	data, err := b.resolve(d)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Task:       utils.NewUUID(),
		Descriptor: d,
		Size:       int64(len(data)),
	}

	if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
		info.MIME = t.MIME.Value
		if mismatch := sniffMismatch(d.Type, data); mismatch != "" {
			log.Printf("[assets] %q declared %q but its bytes look like %q",
				d.Name, d.Type, mismatch)
		}
	}

	r := io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data)))
	details, err := CallProber(d, r)
	if err != nil {
		return nil, err
	}
	info.Details = details
	return info, nil
}

func (b *Batch) resolve(d Descriptor) ([]byte, error) {
	if d.IsRemote() {
		return webutils.FetchBytes(b.client, d.Location())
	}
	if b.source == nil {
		return nil, errors.Errorf("No project source for %q", d.Location())
	}
	data, err := vfs.ReadFileAll(b.source, d.Location())
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", d.Location())
	}
	return data, nil
}

func sniffMismatch(assetType string, data []byte) string {
	t, err := filetype.Match(data)
	if err != nil || t == filetype.Unknown {
		return ""
	}
	switch assetType {
	case TYPE_TEXTURE, TYPE_HDR:
		if filetype.IsAudio(data) {
			return t.MIME.Value
		}
	case TYPE_AUDIO:
		if filetype.IsImage(data) {
			return t.MIME.Value
		}
	case TYPE_MODEL:
		if filetype.IsImage(data) || filetype.IsAudio(data) {
			return t.MIME.Value
		}
	}
	return ""
}
