package sweep

import (
	"math"
	"strconv"
	"strings"
)

// NamePrefix starts every case name; the fields after it are, in order:
// scan speed (sites/mcs), hatch, starting corner, heading, then the nine
// HAZ-row values. Decimal points become underscores, so a name like
// vHpdV_80_0_20_UR_y_24_70_35_11_48_80_40_16_0_1 encodes v=80.0 and
// exp_factor=0.1.
const NamePrefix = "vHpdV_"

// HAZRow is one valid melt-pool/heat-affected-zone combination, in the fixed
// field order the input deck's ATOI variables expect.
type HAZRow struct {
	SpotWidth      float64
	MeltTailLength float64
	MeltDepth      float64
	CapHeight      float64
	HAZWidth       float64
	HAZTail        float64
	DepthHAZ       float64
	CapHAZ         float64
	ExpFactor      float64
}

// HAZPermutations builds the cartesian product of the nine melt-pool/HAZ
// parameter lists and keeps only physically consistent rows: every
// heat-affected-zone dimension must exceed its melt-pool counterpart.
func HAZPermutations(p *Params) []HAZRow {
	var rows []HAZRow
	for _, sw := range p.SpotWidth {
		for _, mtl := range p.MeltTailLength {
			for _, md := range p.MeltDepth {
				for _, ch := range p.CapHeight {
					for _, hw := range p.HAZWidth {
						if sw >= hw {
							continue
						}
						for _, ht := range p.HAZTail {
							if mtl >= ht {
								continue
							}
							for _, dh := range p.DepthHAZ {
								if md >= dh {
									continue
								}
								for _, caph := range p.CapHAZ {
									if ch >= caph {
										continue
									}
									for _, ef := range p.ExpFactor {
										rows = append(rows, HAZRow{
											SpotWidth:      sw,
											MeltTailLength: mtl,
											MeltDepth:      md,
											CapHeight:      ch,
											HAZWidth:       hw,
											HAZTail:        ht,
											DepthHAZ:       dh,
											CapHAZ:         caph,
											ExpFactor:      ef,
										})
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return rows
}

// CaseNames expands the full configuration space into case names: the
// cartesian product of scan speed, hatch, starting corner and heading with
// every HAZ row. Scan speed is converted from mm/s to sites/mcs (x100)
// first; hatch is already in sites.
func CaseNames(p *Params, rows []HAZRow) []string {
	names := make([]string, 0, len(p.VScan)*len(p.Hatch)*len(p.StartingPos)*len(p.Heading)*len(rows))
	for _, v := range p.VScan {
		for _, h := range p.Hatch {
			for _, pos := range p.StartingPos {
				for _, head := range p.Heading {
					for i := range rows {
						names = append(names, caseName(v*100, h, pos, head, &rows[i]))
					}
				}
			}
		}
	}
	return names
}

func caseName(vSites, hatch float64, pos, heading string, row *HAZRow) string {
	fields := []string{
		decimalField(vSites),
		numField(hatch),
		pos,
		heading,
		numField(row.SpotWidth),
		numField(row.MeltTailLength),
		numField(row.MeltDepth),
		numField(row.CapHeight),
		numField(row.HAZWidth),
		numField(row.HAZTail),
		numField(row.DepthHAZ),
		numField(row.CapHAZ),
		decimalField(row.ExpFactor),
	}
	return NamePrefix + strings.Join(fields, "_")
}

// numField renders integral values without a decimal point, matching how the
// deck parser reads them back.
func numField(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strings.ReplaceAll(strconv.FormatFloat(v, 'g', -1, 64), ".", "_")
}

// decimalField always keeps a fractional part (80 -> "80_0"): the scan-speed
// and expansion-factor fields occupy two underscore-separated slots in the
// name, and the parser relies on that.
func decimalField(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return strings.ReplaceAll(s, ".", "_")
}
