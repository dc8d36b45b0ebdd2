// Package sweep expands a YAML-described parameter space into the case names
// a SPPARKS am/ellipsoid campaign is launched under, and writes them to
// chunked config files for the scheduler to fan out over.
package sweep

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rangeSpec is a half-open numeric range, start <= v < stop.
type rangeSpec struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
}

// baseRangeSpec is a range whose bounds are offsets against the first value
// of another, already expanded parameter.
type baseRangeSpec struct {
	Base        string  `yaml:"base"`
	StartOffset float64 `yaml:"start_offset"`
	StopOffset  float64 `yaml:"stop_offset"`
	Step        float64 `yaml:"step"`
}

// offsetSpec shifts every value of another parameter by a constant.
type offsetSpec struct {
	Offset float64 `yaml:"offset"`
}

type paramFile struct {
	VScan          rangeSpec     `yaml:"v_scan"`
	Hatch          []float64     `yaml:"hatch"`
	StartingPos    []string      `yaml:"starting_pos"`
	Heading        []string      `yaml:"heading"`
	MeltTailLength rangeSpec     `yaml:"melt_tail_length"`
	MeltDepth      rangeSpec     `yaml:"melt_depth"`
	CapHeight      rangeSpec     `yaml:"cap_height"`
	ExpFactor      []float64     `yaml:"exp_factor"`
	SpotWidth      baseRangeSpec `yaml:"spot_width"`
	HAZWidth       baseRangeSpec `yaml:"HAZ_width"`
	HAZTail        offsetSpec    `yaml:"HAZ_tail"`
	DepthHAZ       offsetSpec    `yaml:"depth_HAZ"`
	CapHAZ         offsetSpec    `yaml:"cap_HAZ"`
}

// Params is the fully expanded parameter space for one campaign.
type Params struct {
	VScan       []float64 // scan speed, mm/s
	Hatch       []float64 // hatch spacing, sites
	StartingPos []string  // layer start corner: LL, UL, LR, UR
	Heading     []string  // scan heading axis: x or y

	// Melt-pool geometry.
	SpotWidth      []float64
	MeltTailLength []float64
	MeltDepth      []float64
	CapHeight      []float64

	// Heat-affected-zone geometry. Each HAZ dimension must exceed its
	// melt-pool counterpart; HAZPermutations enforces that.
	HAZWidth  []float64
	HAZTail   []float64
	DepthHAZ  []float64
	CapHAZ    []float64
	ExpFactor []float64
}

// LoadParams reads and expands a parameter-space YAML file.
func LoadParams(path string) (*Params, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sweep: read %s: %w", path, err)
	}
	var pf paramFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("sweep: parse %s: %w", path, err)
	}

	p := &Params{
		VScan:          arange(pf.VScan),
		Hatch:          pf.Hatch,
		StartingPos:    pf.StartingPos,
		Heading:        pf.Heading,
		MeltTailLength: arange(pf.MeltTailLength),
		MeltDepth:      arange(pf.MeltDepth),
		CapHeight:      arange(pf.CapHeight),
		ExpFactor:      pf.ExpFactor,
	}

	// Base-relative ranges resolve against the first value of the named
	// parameter, so plain ranges must be expanded first.
	p.SpotWidth, err = p.baseRange(pf.SpotWidth)
	if err != nil {
		return nil, fmt.Errorf("sweep: %s: spot_width: %w", path, err)
	}
	p.HAZWidth, err = p.baseRange(pf.HAZWidth)
	if err != nil {
		return nil, fmt.Errorf("sweep: %s: HAZ_width: %w", path, err)
	}
	p.HAZTail = offset(p.MeltTailLength, pf.HAZTail.Offset)
	p.DepthHAZ = offset(p.MeltDepth, pf.DepthHAZ.Offset)
	p.CapHAZ = offset(p.CapHeight, pf.CapHAZ.Offset)

	return p, nil
}

// arange expands a half-open range, numpy.arange style.
func arange(r rangeSpec) []float64 {
	if r.Step <= 0 {
		return nil
	}
	var out []float64
	for v := r.Start; v < r.Stop; v += r.Step {
		out = append(out, v)
	}
	return out
}

func (p *Params) baseRange(r baseRangeSpec) ([]float64, error) {
	base, err := p.lookup(r.Base)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("base parameter %q is empty", r.Base)
	}
	return arange(rangeSpec{
		Start: base[0] + r.StartOffset,
		Stop:  base[0] + r.StopOffset,
		Step:  r.Step,
	}), nil
}

func (p *Params) lookup(name string) ([]float64, error) {
	switch name {
	case "v_scan":
		return p.VScan, nil
	case "hatch":
		return p.Hatch, nil
	case "spot_width":
		return p.SpotWidth, nil
	case "melt_tail_length":
		return p.MeltTailLength, nil
	case "melt_depth":
		return p.MeltDepth, nil
	case "cap_height":
		return p.CapHeight, nil
	case "HAZ_width":
		return p.HAZWidth, nil
	case "HAZ_tail":
		return p.HAZTail, nil
	case "depth_HAZ":
		return p.DepthHAZ, nil
	case "cap_HAZ":
		return p.CapHAZ, nil
	case "exp_factor":
		return p.ExpFactor, nil
	default:
		return nil, fmt.Errorf("unknown base parameter %q", name)
	}
}

func offset(base []float64, delta float64) []float64 {
	out := make([]float64, len(base))
	for i, v := range base {
		out[i] = v + delta
	}
	return out
}
