// Package deck materializes per-case SPPARKS input decks: it parses the
// parameter values back out of a case name and rewrites the campaign's
// template deck with them, line by line.
//
// The in.potts template is a fixed-format file; the rewrite substitutes
// whole lines at known positions (the variable block and the
// am cartesian_layer command) and copies everything else verbatim. Shifting
// the template layout therefore breaks materialization loudly, which is
// preferable to quietly launching a simulation with template defaults.
package deck

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sara-nl/spparks-hpc/internal/fsutil"
	"github.com/sara-nl/spparks-hpc/internal/sweep"
)

// Default file names inside a campaign working directory.
const (
	DefaultInitFile     = "IN100_3d.init"
	DefaultTemplateFile = "in.potts_am_IN100_3d"
)

// Fixed line positions (0-based) the rewrite substitutes in the template.
const (
	lineVX       = 11
	lineVY       = 12
	lineHatchX   = 15
	lineHatchY   = 16
	lineCaseName = 25
	lineATOI     = 31 // ATOI_1..ATOI_9 occupy nine consecutive lines
	lineLayer    = 94
	minLines     = lineLayer + 1
)

// CaseConfig is the parameter set encoded in one case name.
type CaseConfig struct {
	VScan       float64 // sites/mcs
	Hatch       int     // sites
	StartingPos string  // LL, UL, LR or UR
	Heading     string  // x or y

	// ATOI are the nine melt-pool/HAZ deck variables, in template order;
	// the last one is the fractional expansion factor.
	ATOI [9]float64
}

// ParseCaseName is the inverse of the sweep name builder: it decodes a
// vHpdV_... case name back into deck parameters. Fractional fields (scan
// speed, expansion factor) occupy two underscore-separated slots each.
func ParseCaseName(name string) (*CaseConfig, error) {
	if !strings.HasPrefix(name, sweep.NamePrefix) {
		return nil, fmt.Errorf("deck: case name %q lacks %q prefix", name, sweep.NamePrefix)
	}
	fields := strings.Split(strings.TrimPrefix(name, sweep.NamePrefix), "_")
	// v (2) + hatch + pos + heading + 8 HAZ ints + exp_factor (2)
	if len(fields) != 15 {
		return nil, fmt.Errorf("deck: case name %q has %d fields, want 15", name, len(fields))
	}

	cfg := &CaseConfig{}
	v, err := strconv.ParseFloat(fields[0]+"."+fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("deck: case name %q: scan speed: %w", name, err)
	}
	cfg.VScan = v

	cfg.Hatch, err = strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("deck: case name %q: hatch: %w", name, err)
	}

	cfg.StartingPos = fields[3]
	switch cfg.StartingPos {
	case "LL", "UL", "LR", "UR":
	default:
		return nil, fmt.Errorf("deck: case name %q: bad starting position %q", name, cfg.StartingPos)
	}
	cfg.Heading = fields[4]
	if cfg.Heading != "x" && cfg.Heading != "y" {
		return nil, fmt.Errorf("deck: case name %q: bad heading %q", name, cfg.Heading)
	}

	for i := 0; i < 8; i++ {
		n, err := strconv.Atoi(fields[5+i])
		if err != nil {
			return nil, fmt.Errorf("deck: case name %q: ATOI_%d: %w", name, i+1, err)
		}
		cfg.ATOI[i] = float64(n)
	}
	exp, err := strconv.ParseFloat(fields[13]+"."+fields[14], 64)
	if err != nil {
		return nil, fmt.Errorf("deck: case name %q: expansion factor: %w", name, err)
	}
	cfg.ATOI[8] = exp

	return cfg, nil
}

// LayerCommand builds the am cartesian_layer line for a start corner and
// heading. The single-hatch offset is +-100 sites along the heading axis,
// away from the starting corner.
func LayerCommand(pos, heading string) (string, error) {
	var offset string
	switch heading {
	case "x":
		switch pos {
		case "LL", "LR":
			offset = "-100.0 0.0"
		case "UL", "UR":
			offset = "100.0 0.0"
		}
	case "y":
		switch pos {
		case "LL", "LR":
			offset = "0.0 -100.0"
		case "UL", "UR":
			offset = "0.0 100.0"
		}
	}
	if offset == "" {
		return "", fmt.Errorf("deck: no layer command for pos %q heading %q", pos, heading)
	}
	return fmt.Sprintf("am cartesian_layer 1 start %s pass_id 1 thickness 25 offset %s", pos, offset), nil
}

// RewriteDeck substitutes caseName's parameters into the template at their
// fixed line positions and returns the new deck contents.
func RewriteDeck(template []byte, caseName string) ([]byte, error) {
	cfg, err := ParseCaseName(caseName)
	if err != nil {
		return nil, err
	}
	layer, err := LayerCommand(cfg.StartingPos, cfg.Heading)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(template), "\n")
	if len(lines) < minLines {
		return nil, fmt.Errorf("deck: template has %d lines, want at least %d", len(lines), minLines)
	}

	lines[lineVX] = "variable V_x equal " + deckFloat(cfg.VScan)
	lines[lineVY] = "variable V_y equal " + deckFloat(cfg.VScan)
	lines[lineHatchX] = "variable HATCH_x equal " + strconv.Itoa(cfg.Hatch)
	lines[lineHatchY] = "variable HATCH_y equal " + strconv.Itoa(cfg.Hatch)
	lines[lineCaseName] = "variable case_name universe " + caseName
	for i, v := range cfg.ATOI {
		lines[lineATOI+i] = fmt.Sprintf("variable ATOI_%d equal %s", i+1, deckNum(v))
	}
	lines[lineLayer] = layer

	return []byte(strings.Join(lines, "\n")), nil
}

// Materialize prepares one case directory under workDir: the directory
// itself, a copy of the initial condition, and the rewritten input deck.
// It is idempotent; an existing case directory is left untouched and
// reported with created == false.
func Materialize(fsys fsutil.FileSystem, workDir, caseName string) (created bool, err error) {
	caseDir := workDir + "/" + caseName
	if fsys.Exists(caseDir) {
		return false, nil
	}
	if err := fsys.MkdirAll(caseDir, 0o755); err != nil {
		return false, fmt.Errorf("deck: create %s: %w", caseDir, err)
	}

	init, err := fsys.ReadFile(workDir + "/" + DefaultInitFile)
	if err != nil {
		return false, fmt.Errorf("deck: initial condition: %w", err)
	}
	if err := fsys.WriteFile(caseDir+"/"+DefaultInitFile, init, 0o644); err != nil {
		return false, fmt.Errorf("deck: copy initial condition: %w", err)
	}

	template, err := fsys.ReadFile(workDir + "/" + DefaultTemplateFile)
	if err != nil {
		return false, fmt.Errorf("deck: template: %w", err)
	}
	out, err := RewriteDeck(template, caseName)
	if err != nil {
		return false, err
	}
	if err := fsys.WriteFile(caseDir+"/"+DefaultTemplateFile, out, 0o644); err != nil {
		return false, fmt.Errorf("deck: write deck: %w", err)
	}
	return true, nil
}

// deckFloat keeps a fractional part, matching the variable lines SPPARKS
// expects (80 -> "80.0").
func deckFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// deckNum drops the decimal point for integral values.
func deckNum(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
