// Package cube reads .cube 3D LUT files and applies them with trilinear interpolation.
package cube

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const maxSize = 256

// Cube is a 3D LUT. Table holds Size^3 RGB triplets with red varying fastest.
type Cube struct {
	Title     string
	Size      int
	DomainMin [3]float32
	DomainMax [3]float32
	Table     []float32
}

// ReadFile parses the .cube file at path.
func ReadFile(path string) (*Cube, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read parses a .cube LUT.
func Read(r io.Reader) (*Cube, error) {
	c := &Cube{DomainMax: [3]float32{1, 1, 1}}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || s[0] == '#' {
			continue
		}
		fields := strings.Fields(s)
		switch fields[0] {
		case "TITLE":
			c.Title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(s, "TITLE")), `"`)
			continue
		case "LUT_1D_SIZE":
			return nil, errors.New("1D LUTs are not supported")
		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed LUT_3D_SIZE", line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 2 || n > maxSize {
				return nil, fmt.Errorf("line %d: invalid LUT_3D_SIZE %q", line, fields[1])
			}
			c.Size = n
			c.Table = make([]float32, 0, n*n*n*3)
			continue
		case "DOMAIN_MIN", "DOMAIN_MAX":
			v, err := parseTriplet(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, fields[0], err)
			}
			if fields[0] == "DOMAIN_MIN" {
				c.DomainMin = v
			} else {
				c.DomainMax = v
			}
			continue
		case "LUT_3D_INPUT_RANGE":
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: malformed LUT_3D_INPUT_RANGE", line)
			}
			v, err := parseTriplet([]string{fields[1], fields[1], fields[1]})
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			c.DomainMin = v
			if v, err = parseTriplet([]string{fields[2], fields[2], fields[2]}); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			c.DomainMax = v
			continue
		}

		if c.Size == 0 {
			return nil, fmt.Errorf("line %d: data before LUT_3D_SIZE", line)
		}
		v, err := parseTriplet(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(c.Table) == cap(c.Table) {
			return nil, fmt.Errorf("line %d: too many entries", line)
		}
		c.Table = append(c.Table, v[0], v[1], v[2])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if c.Size == 0 {
		return nil, errors.New("missing LUT_3D_SIZE")
	}
	if want := c.Size * c.Size * c.Size * 3; len(c.Table) != want {
		return nil, fmt.Errorf("got %d entries, want %d", len(c.Table)/3, want/3)
	}
	for i := 0; i < 3; i++ {
		if !(c.DomainMax[i] > c.DomainMin[i]) {
			return nil, fmt.Errorf("empty domain on channel %d", i)
		}
	}
	return c, nil
}

// Identity returns an n^3 LUT mapping every input to itself.
func Identity(n int) *Cube {
	c := &Cube{Size: n, DomainMax: [3]float32{1, 1, 1}, Table: make([]float32, 0, n*n*n*3)}
	step := 1 / float32(n-1)
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				c.Table = append(c.Table, float32(r)*step, float32(g)*step, float32(b)*step)
			}
		}
	}
	return c
}

// Process maps each (r[i], g[i], b[i]) through the LUT in place.
func (c *Cube) Process(r, g, b []float32) {
	n := len(r)
	if len(g) < n || len(b) < n {
		panic("cube: channel length mismatch")
	}
	for i := 0; i < n; i++ {
		r[i], g[i], b[i] = c.lookup(r[i], g[i], b[i])
	}
}

func (c *Cube) lookup(r, g, b float32) (float32, float32, float32) {
	domain := float32(c.Size - 1)
	x0, fx := c.cell(r, 0, domain)
	y0, fy := c.cell(g, 1, domain)
	z0, fz := c.cell(b, 2, domain)

	strideY := c.Size * 3
	strideZ := c.Size * c.Size * 3
	x1, y1, z1 := 0, 0, 0
	if x0 < c.Size-1 {
		x1 = 3
	}
	if y0 < c.Size-1 {
		y1 = strideY
	}
	if z0 < c.Size-1 {
		z1 = strideZ
	}
	base := x0*3 + y0*strideY + z0*strideZ

	var out [3]float32
	for ch := 0; ch < 3; ch++ {
		t := c.Table[base+ch:]
		d000 := t[0]
		d100 := t[x1]
		d010 := t[y1]
		d110 := t[x1+y1]
		d001 := t[z1]
		d101 := t[x1+z1]
		d011 := t[y1+z1]
		d111 := t[x1+y1+z1]

		dx00 := lerp(fx, d000, d100)
		dx10 := lerp(fx, d010, d110)
		dx01 := lerp(fx, d001, d101)
		dx11 := lerp(fx, d011, d111)

		dxy0 := lerp(fy, dx00, dx10)
		dxy1 := lerp(fy, dx01, dx11)

		out[ch] = lerp(fz, dxy0, dxy1)
	}
	return out[0], out[1], out[2]
}

// cell returns the lower grid index and fractional position of v on channel ch.
func (c *Cube) cell(v float32, ch int, domain float32) (int, float32) {
	p := (v - c.DomainMin[ch]) / (c.DomainMax[ch] - c.DomainMin[ch])
	if p < 1.0e-9 || math.IsNaN(float64(p)) {
		return 0, 0
	}
	if p >= 1 {
		return c.Size - 1, 0
	}
	p *= domain
	i := int(p)
	return i, p - float32(i)
}

func lerp(a, l, h float32) float32 {
	return l + (h-l)*a
}

func parseTriplet(fields []string) ([3]float32, error) {
	var v [3]float32
	if len(fields) != 3 {
		return v, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(x)
	}
	return v, nil
}
