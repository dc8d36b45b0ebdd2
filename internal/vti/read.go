package vti

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadOption adjusts how a file is decoded.
type ReadOption func(*readConfig)

type readConfig struct {
	field   string
	slice2D bool
}

// WithField selects a named scalar attribute instead of the first one found.
func WithField(name string) ReadOption {
	return func(c *readConfig) { c.field = name }
}

// WithSlice2D drops axes of extent <= 1 from the logical shape, so a
// single-layer 3D file decodes as a plain 2D array.
func WithSlice2D() ReadOption {
	return func(c *readConfig) { c.slice2D = true }
}

// On-disk layout of a .vti file, as far as the codec cares.
type xmlVTKFile struct {
	XMLName   xml.Name      `xml:"VTKFile"`
	Type      string        `xml:"type,attr"`
	ImageData *xmlImageData `xml:"ImageData"`
}

type xmlImageData struct {
	WholeExtent string     `xml:"WholeExtent,attr"`
	Origin      string     `xml:"Origin,attr"`
	Spacing     string     `xml:"Spacing,attr"`
	Pieces      []xmlPiece `xml:"Piece"`
}

type xmlPiece struct {
	Extent    string       `xml:"Extent,attr"`
	CellData  xmlAttrBlock `xml:"CellData"`
	PointData xmlAttrBlock `xml:"PointData"`
}

type xmlAttrBlock struct {
	Scalars string         `xml:"Scalars,attr"`
	Arrays  []xmlDataArray `xml:"DataArray"`
}

type xmlDataArray struct {
	Type   string `xml:"type,attr"`
	Name   string `xml:"Name,attr"`
	Format string `xml:"format,attr"`
	Body   string `xml:",chardata"`
}

// ReadFile decodes one .vti file into a Grid.
//
// Attribute selection follows an ordered fallback: cell data when the file
// carries any cell arrays, point data otherwise; within the chosen block, the
// array named via WithField, else the first array. A file with no usable
// array, or whose value count does not match the computed shape, yields a
// *FormatError.
func ReadFile(path string, opts ...ReadOption) (*Grid, error) {
	var cfg readConfig
	for _, o := range opts {
		o(&cfg)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vti: read %s: %w", path, err)
	}

	var doc xmlVTKFile
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, formatErrf(path, "not a VTK XML file: %v", err)
	}
	if doc.Type != "" && doc.Type != "ImageData" {
		return nil, formatErrf(path, "unsupported VTKFile type %q", doc.Type)
	}
	if doc.ImageData == nil || len(doc.ImageData.Pieces) == 0 {
		return nil, formatErrf(path, "no ImageData piece")
	}

	img := doc.ImageData
	piece := img.Pieces[0]

	dims, err := extentToDims(img.WholeExtent)
	if err != nil {
		return nil, formatErrf(path, "bad WholeExtent %q: %v", img.WholeExtent, err)
	}
	spacing, err := parseTriple(img.Spacing)
	if err != nil {
		return nil, formatErrf(path, "bad Spacing %q: %v", img.Spacing, err)
	}
	origin, err := parseTriple(img.Origin)
	if err != nil {
		return nil, formatErrf(path, "bad Origin %q: %v", img.Origin, err)
	}

	// Cell data wins whenever the file has any; point data is the fallback.
	block := piece.CellData
	cellData := len(block.Arrays) > 0
	if !cellData {
		block = piece.PointData
	}

	arr, ok := pickArray(block.Arrays, cfg.field)
	if !ok {
		if cfg.field != "" {
			return nil, formatErrf(path, "no data array named %q", cfg.field)
		}
		return nil, formatErrf(path, "no data array found")
	}

	shape := make([]int, 0, 3)
	for _, d := range dims {
		if cellData {
			d--
		}
		shape = append(shape, d)
	}
	if cfg.slice2D {
		kept := shape[:0]
		for _, d := range shape {
			if d > 1 {
				kept = append(kept, d)
			}
		}
		shape = kept
	}

	values, err := parseValues(arr.Body)
	if err != nil {
		return nil, formatErrf(path, "array %q: %v", arr.Name, err)
	}
	if want := NumValues(shape); len(values) != want {
		return nil, formatErrf(path, "array %q holds %d values, shape %v needs %d",
			arr.Name, len(values), shape, want)
	}

	return &Grid{
		Dims:    dims,
		Spacing: spacing,
		Origin:  origin,
		Field:   arr.Name,
		Shape:   shape,
		Values:  values,
	}, nil
}

// pickArray returns the named array, or the first one when name is empty.
func pickArray(arrays []xmlDataArray, name string) (xmlDataArray, bool) {
	if len(arrays) == 0 {
		return xmlDataArray{}, false
	}
	if name == "" {
		return arrays[0], true
	}
	for _, a := range arrays {
		if a.Name == name {
			return a, true
		}
	}
	return xmlDataArray{}, false
}

// extentToDims converts a "x0 x1 y0 y1 z0 z1" extent into point counts.
func extentToDims(s string) ([3]int, error) {
	var dims [3]int
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return dims, fmt.Errorf("want 6 ints, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		lo, err := strconv.Atoi(fields[2*i])
		if err != nil {
			return dims, err
		}
		hi, err := strconv.Atoi(fields[2*i+1])
		if err != nil {
			return dims, err
		}
		dims[i] = hi - lo + 1
	}
	return dims, nil
}

func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return out, fmt.Errorf("want 3 floats, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func parseValues(body string) ([]float64, error) {
	fields := strings.Fields(body)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
