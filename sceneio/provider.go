// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package sceneio loads and saves scenes as glTF 2.0
// files (.gltf or .glb).
//
// Files are accessed through github.com/viant/afs, so
// any location it supports (local paths, file://, mem://
// and so on) can be used.
package sceneio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	neturl "net/url"
	"path"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/gviegas/animcombine/gltf"
	"github.com/gviegas/animcombine/scene"
)

// Generator is written to asset.generator of saved files.
const Generator = "animcombine"

// Config configures a Provider.
type Config struct {
	// FrameRate is the frame rate, in frames per second,
	// that key times are expressed in.
	// It is recorded in saved takes and used by Snap.
	// 0 means unspecified.
	FrameRate float64

	// Snap rounds key times to the nearest frame on load.
	// It requires FrameRate to be set.
	Snap bool

	// Embed stores the binary buffer of .gltf output as a
	// data URI instead of a separate .bin file.
	// .glb output always embeds the buffer.
	Embed bool

	// Logger receives diagnostics.
	// Default is slog.Default().
	Logger *slog.Logger
}

// Provider is a Scene I/O provider.
// It holds no state across calls and can be used from
// multiple goroutines.
type Provider struct {
	fs  afs.Service
	cfg Config
	log *slog.Logger
}

// New creates a provider that uses the default afs
// service.
func New(cfg Config) *Provider { return NewWithService(afs.New(), cfg) }

// NewWithService creates a provider that uses fs for
// every file access.
func NewWithService(fs afs.Service, cfg Config) *Provider {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Provider{fs: fs, cfg: cfg, log: log}
}

// Config returns the provider's configuration.
func (p *Provider) Config() Config { return p.cfg }

// Error is the error returned when a file cannot be
// loaded or saved.
type Error struct {
	Op   string // "load", "save" or "list"
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sceneio: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Exts lists the file extensions the provider handles.
var Exts = [...]string{".gltf", ".glb"}

func supported(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, x := range Exts {
		if ext == x {
			return true
		}
	}
	return false
}

// Stem returns the base name of location without its
// extension.
func Stem(location string) string {
	name := path.Base(location)
	return strings.TrimSuffix(name, path.Ext(name))
}

// List returns the locations of the regular .gltf and .glb
// files directly inside dir, sorted by name without
// extension, then by full name.
func (p *Provider) List(ctx context.Context, dir string) ([]string, error) {
	objs, err := p.fs.List(ctx, dir)
	if err != nil {
		return nil, &Error{"list", dir, err}
	}
	var locs []string
	for _, o := range objs {
		if o.IsDir() || !supported(o.Name()) {
			continue
		}
		locs = append(locs, o.URL())
	}
	sort.Slice(locs, func(i, j int) bool {
		si, sj := Stem(locs[i]), Stem(locs[j])
		if si != sj {
			return si < sj
		}
		return locs[i] < locs[j]
	})
	return locs, nil
}

// Load reads the glTF file at location and converts it
// into a scene.
// The scene is named after the glTF scene, or after the
// file if the glTF scene has no name.
func (p *Provider) Load(ctx context.Context, location string) (*scene.Scene, error) {
	b, err := p.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, &Error{"load", location, err}
	}
	var doc *gltf.GLTF
	var glb []byte
	if gltf.IsGLB(b) {
		doc, glb, err = gltf.ReadGLB(b)
	} else {
		doc, err = gltf.Decode(bytes.NewReader(b))
	}
	if err == nil {
		err = doc.Check()
	}
	if err != nil {
		return nil, &Error{"load", location, err}
	}
	bin, err := p.consolidate(ctx, location, doc, glb)
	if err != nil {
		return nil, &Error{"load", location, err}
	}
	s, err := p.decode(doc, bin, Stem(location))
	if err != nil {
		return nil, &Error{"load", location, err}
	}
	p.log.Debug("loaded scene", "path", location, "nodes", s.Graph.Len(),
		"takes", s.TakeCount(), "buffer", humanize.Bytes(uint64(len(bin))))
	return s, nil
}

// Save converts s into glTF and writes it to location.
// The container is chosen by extension: .glb writes a
// binary glTF; .gltf writes JSON, with the buffer either
// embedded or written next to it as <stem>.bin.
func (p *Provider) Save(ctx context.Context, s *scene.Scene, location string) error {
	ext := strings.ToLower(path.Ext(location))
	if !supported(location) {
		return &Error{"save", location, fmt.Errorf("unsupported extension %q", ext)}
	}
	doc, bin, err := p.encode(s)
	if err == nil {
		err = doc.Check()
	}
	if err != nil {
		return &Error{"save", location, err}
	}

	var buf bytes.Buffer
	if ext == ".glb" {
		if len(bin) == 0 {
			bin = nil
		}
		err = gltf.WriteGLB(&buf, doc, bin)
	} else {
		if len(bin) > 0 {
			if p.cfg.Embed {
				doc.Buffers[0].URI = gltf.EncodeDataURI(bin)
			} else {
				parent, _ := url.Split(location, file.Scheme)
				name := Stem(location) + ".bin"
				doc.Buffers[0].URI = neturl.PathEscape(name)
				err = p.fs.Upload(ctx, url.Join(parent, name), file.DefaultFileOsMode, bytes.NewReader(bin))
				if err != nil {
					return &Error{"save", location, err}
				}
			}
		}
		if err == nil {
			err = gltf.Encode(&buf, doc)
		}
	}
	if err != nil {
		return &Error{"save", location, err}
	}
	size := buf.Len()
	if err := p.fs.Upload(ctx, location, file.DefaultFileOsMode, &buf); err != nil {
		return &Error{"save", location, err}
	}
	p.log.Info("wrote scene", "path", location, "takes", len(doc.Animations),
		"size", humanize.Bytes(uint64(size)))
	return nil
}
