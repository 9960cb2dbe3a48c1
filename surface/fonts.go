// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts resolves text styles to font faces. Sources are parsed once and
// faces are cached per size. The zero value is not usable; use NewFonts.
//
// Only the Go font family is bundled. Families containing "mono" map to Go
// Mono; every other family falls back to Go. Additional families can be
// registered with Register.
type Fonts struct {
	mu      sync.Mutex
	sources map[fontKey]*text.FontSource
	faces   map[faceKey]text.Face
	data    map[fontKey][]byte
}

type fontKey struct {
	family       string
	bold, italic bool
}

type faceKey struct {
	fontKey
	size float64
}

// NewFonts returns a resolver with the bundled Go fonts.
func NewFonts() *Fonts {
	f := &Fonts{
		sources: make(map[fontKey]*text.FontSource),
		faces:   make(map[faceKey]text.Face),
		data:    make(map[fontKey][]byte),
	}
	f.data[fontKey{"go", false, false}] = goregular.TTF
	f.data[fontKey{"go", true, false}] = gobold.TTF
	f.data[fontKey{"go", false, true}] = goitalic.TTF
	f.data[fontKey{"go", true, true}] = gobolditalic.TTF
	f.data[fontKey{"go mono", false, false}] = gomono.TTF
	f.data[fontKey{"go mono", true, false}] = gomonobold.TTF
	return f
}

// Register adds TrueType/OpenType data for a family and style.
func (f *Fonts) Register(family string, bold, italic bool, ttf []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := fontKey{strings.ToLower(family), bold, italic}
	f.data[k] = ttf
	delete(f.sources, k)
	for fk := range f.faces {
		if fk.fontKey == k {
			delete(f.faces, fk)
		}
	}
}

// Face returns the face for style.
func (f *Fonts) Face(style TextStyle) (text.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := f.resolve(style)
	fk := faceKey{k, style.Size}
	if face, ok := f.faces[fk]; ok {
		return face, nil
	}
	src, ok := f.sources[k]
	if !ok {
		var err error
		src, err = text.NewFontSource(f.data[k])
		if err != nil {
			return nil, fmt.Errorf("surface: load font %s: %w", k.family, err)
		}
		f.sources[k] = src
	}
	face := src.Face(style.Size)
	f.faces[fk] = face
	return face, nil
}

// resolve finds the closest registered font, dropping italic then bold
// before falling back to the default family.
func (f *Fonts) resolve(style TextStyle) fontKey {
	family := strings.ToLower(style.Family)
	if _, ok := f.data[fontKey{family, false, false}]; !ok {
		family = "go"
		if strings.Contains(strings.ToLower(style.Family), "mono") {
			family = "go mono"
		}
	}
	for _, k := range []fontKey{
		{family, style.Bold, style.Italic},
		{family, style.Bold, false},
		{family, false, style.Italic},
		{family, false, false},
	} {
		if _, ok := f.data[k]; ok {
			return k
		}
	}
	return fontKey{"go", false, false}
}
