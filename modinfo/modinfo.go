// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

// Package modinfo reads mod.xml descriptors shipped next to IRO archives.
// Descriptors carry display metadata, optional folder groups and
// configuration choices; they are independent of archive extraction.
package modinfo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RootElement is the required document root.
const RootElement = "ModInfo"

var (
	// ErrNotModInfo means the document root is not <ModInfo>.
	ErrNotModInfo = errors.New("document root is not ModInfo")
	// ErrInvalidDefault means a ConfigOption Default value is neither integer nor boolean.
	ErrInvalidDefault = errors.New("invalid config option default")
)

// ModInfo describes one mod package.
type ModInfo struct {
	Name          string         `xml:"Name" json:"name,omitempty" yaml:"name,omitempty"`
	ID            string         `xml:"ID" json:"id,omitempty" yaml:"id,omitempty"`
	Author        string         `xml:"Author" json:"author,omitempty" yaml:"author,omitempty"`
	Version       string         `xml:"Version" json:"version,omitempty" yaml:"version,omitempty"`
	Description   string         `xml:"Description" json:"description,omitempty" yaml:"description,omitempty"`
	Link          string         `xml:"Link" json:"link,omitempty" yaml:"link,omitempty"`
	PreviewFile   string         `xml:"PreviewFile" json:"preview_file,omitempty" yaml:"preview_file,omitempty"`
	Category      string         `xml:"Category" json:"category,omitempty" yaml:"category,omitempty"`
	ReleaseDate   string         `xml:"ReleaseDate" json:"release_date,omitempty" yaml:"release_date,omitempty"`
	ReleaseNotes  string         `xml:"ReleaseNotes" json:"release_notes,omitempty" yaml:"release_notes,omitempty"`
	ModFolders    []ModFolder    `xml:"ModFolder" json:"mod_folders,omitempty" yaml:"mod_folders,omitempty"`
	ConfigOptions []ConfigOption `xml:"ConfigOption" json:"config_options,omitempty" yaml:"config_options,omitempty"`
}

// ModFolder is an optional folder group activated by a condition.
type ModFolder struct {
	// Folder is the folder name inside the mod.
	Folder string `xml:"Folder,attr" json:"folder" yaml:"folder"`
	// ActiveWhen is the raw activation condition.
	ActiveWhen string `xml:"ActiveWhen,attr" json:"active_when,omitempty" yaml:"active_when,omitempty"`
}

// ConfigOption is one user-facing configuration choice.
type ConfigOption struct {
	Type        string              `xml:"Type" json:"type,omitempty" yaml:"type,omitempty"`
	ID          string              `xml:"ID" json:"id,omitempty" yaml:"id,omitempty"`
	Name        string              `xml:"Name" json:"name,omitempty" yaml:"name,omitempty"`
	Description string              `xml:"Description" json:"description,omitempty" yaml:"description,omitempty"`
	Options     []ConfigOptionValue `xml:"Option" json:"options,omitempty" yaml:"options,omitempty"`
	Default     Flag                `xml:"Default" json:"default" yaml:"default"`
}

// ConfigOptionValue is one selectable value of a ConfigOption.
type ConfigOptionValue struct {
	Name        string `xml:"Name,attr" json:"name" yaml:"name"`
	PreviewFile string `xml:"PreviewFile,attr" json:"preview_file,omitempty" yaml:"preview_file,omitempty"`
	Value       int    `xml:"Value,attr" json:"value" yaml:"value"`
}

// Flag is a boolean that accepts integer (>0 is true) or boolean text.
type Flag bool

// UnmarshalXML implements xml.Unmarshaler.
func (f *Flag) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text string
	if err := d.DecodeElement(&text, &start); err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		*f = false
		return nil
	}

	if n, err := strconv.Atoi(text); err == nil {
		*f = n > 0
		return nil
	}

	b, err := strconv.ParseBool(text)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDefault, text)
	}

	*f = Flag(b)
	return nil
}

// Open reads a mod descriptor from path.
func Open(path string) (*ModInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mod info: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse decodes a mod descriptor document.
func Parse(r io.Reader) (*ModInfo, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: empty document", ErrNotModInfo)
			}

			return nil, fmt.Errorf("parse mod info: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if start.Name.Local != RootElement {
			return nil, fmt.Errorf("%w: <%s>", ErrNotModInfo, start.Name.Local)
		}

		info := &ModInfo{}
		if err := dec.DecodeElement(info, &start); err != nil {
			return nil, fmt.Errorf("parse mod info: %w", err)
		}

		info.trim()
		return info, nil
	}
}

// trim strips surrounding whitespace from text fields.
func (m *ModInfo) trim() {
	for _, s := range []*string{
		&m.Name, &m.ID, &m.Author, &m.Version, &m.Description,
		&m.Link, &m.PreviewFile, &m.Category, &m.ReleaseDate, &m.ReleaseNotes,
	} {
		*s = strings.TrimSpace(*s)
	}

	for i := range m.ModFolders {
		m.ModFolders[i].Folder = strings.TrimSpace(m.ModFolders[i].Folder)
		m.ModFolders[i].ActiveWhen = strings.TrimSpace(m.ModFolders[i].ActiveWhen)
	}

	for i := range m.ConfigOptions {
		opt := &m.ConfigOptions[i]
		opt.Type = strings.TrimSpace(opt.Type)
		opt.ID = strings.TrimSpace(opt.ID)
		opt.Name = strings.TrimSpace(opt.Name)
		opt.Description = strings.TrimSpace(opt.Description)
	}
}
