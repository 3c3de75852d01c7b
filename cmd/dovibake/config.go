package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	cfg "github.com/cnotch/loader"
	"github.com/vearutop/dovibake"
)

const name = "dovibake"

type config struct {
	BL       string     `json:"bl"`                 // BL planar 16-bit .yuv file
	EL       string     `json:"el,omitempty"`       // EL planar 16-bit .yuv file
	Width    int        `json:"width"`              // BL luma width
	Height   int        `json:"height"`             // BL luma height
	BLLayout string     `json:"bl_layout"`          // 420, 422 or 444
	ELLayout string     `json:"el_layout"`          // 420, 422 or 444
	ELWidth  int        `json:"el_width,omitempty"` // defaults to Width
	ELHeight int        `json:"el_height,omitempty"`
	Fast     bool       `json:"fast"`
	YUV      bool       `json:"yuv"`
	LUTs     stringList `json:"luts,omitempty"` // threshold:path.cube
	Matrix   string     `json:"matrix"`
	Limited  bool       `json:"limited"`
	MaxPq    int        `json:"max_pq"`
	MaxCLL   int        `json:"max_cll"`
	FEL      bool       `json:"fel"`
	NoEL     bool       `json:"no_el"`
	First    int        `json:"first"`
	Last     int        `json:"last"`
	Workers  int        `json:"workers"`
	Out      string     `json:"out"`
	Preview  uint       `json:"preview"` // max preview width, 0 disables previews
	Log      LogConfig  `json:"log"`
}

func (c *config) initFlags() {
	flag.StringVar(&c.BL, "bl", "", "Base layer 16-bit planar .yuv file")
	flag.StringVar(&c.EL, "el", "", "Enhancement layer 16-bit planar .yuv file")
	flag.IntVar(&c.Width, "width", 0, "Base layer luma width")
	flag.IntVar(&c.Height, "height", 0, "Base layer luma height")
	flag.StringVar(&c.BLLayout, "bl-layout", "420", "Base layer chroma layout (420, 422, 444)")
	flag.StringVar(&c.ELLayout, "el-layout", "420", "Enhancement layer chroma layout (420, 422, 444)")
	flag.IntVar(&c.ELWidth, "el-width", 0, "Enhancement layer luma width, defaults to -width")
	flag.IntVar(&c.ELHeight, "el-height", 0, "Enhancement layer luma height, defaults to -height")
	flag.BoolVar(&c.Fast, "fast", false, "Combine layers straight to RGB in one pass")
	flag.BoolVar(&c.YUV, "yuv", false, "Write normalized YUV instead of RGB")
	flag.Var(&c.LUTs, "lut", "Tone-mapping LUT as threshold:file.cube, repeatable, ascending")
	flag.StringVar(&c.Matrix, "matrix", "2020", "YCbCr to RGB matrix (2020, 709)")
	flag.BoolVar(&c.Limited, "limited", false, "Input YCbCr is limited range")
	flag.IntVar(&c.MaxPq, "max-pq", 0, "Max PQ code (12-bit) reported for every frame, derived from -max-cll when 0")
	flag.IntVar(&c.MaxCLL, "max-cll", 0, "Max content light level in nits, derived from -max-pq when 0")
	flag.BoolVar(&c.FEL, "fel", false, "Stream carries a full enhancement layer")
	flag.BoolVar(&c.NoEL, "no-el", false, "Disable EL processing")
	flag.IntVar(&c.First, "first", 0, "First frame to process")
	flag.IntVar(&c.Last, "last", -1, "Last frame to process, -1 for the final frame")
	flag.IntVar(&c.Workers, "workers", 0, "Frames processed concurrently, 0 for GOMAXPROCS")
	flag.StringVar(&c.Out, "out", "out", "Output directory")
	flag.UintVar(&c.Preview, "preview", 0, "Also write PNG previews no wider than this")

	c.Log.initFlags()
}

// loadConfig reads the JSON config file (if any), then DOVIBAKE_* environment
// variables, then flags.
func loadConfig() (*config, error) {
	c := new(config)
	c.initFlags()

	env := &cfg.EnvLoader{Prefix: strings.ToUpper(name)}
	var err error
	if path := configPath(); path != "" {
		err = cfg.Load(c, &cfg.JSONLoader{Path: path}, env, &cfg.FlagLoader{})
	} else {
		err = cfg.Load(c, env, &cfg.FlagLoader{})
	}
	if err != nil {
		return nil, err
	}

	if c.ELWidth == 0 {
		c.ELWidth = c.Width
	}
	if c.ELHeight == 0 {
		c.ELHeight = c.Height
	}
	return c, nil
}

// configPath returns $DOVIBAKE_CONFIG or dovibake.conf next to the executable
// when that file exists.
func configPath() string {
	if p := os.Getenv("DOVIBAKE_CONFIG"); p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	p := filepath.Join(filepath.Dir(exe), name+".conf")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func (c *config) lutSpecs() ([]dovibake.LUTSpec, error) {
	specs := make([]dovibake.LUTSpec, 0, len(c.LUTs))
	for _, s := range c.LUTs {
		th, path, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("lut %q: want threshold:path", s)
		}
		v, err := strconv.ParseUint(th, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("lut %q: threshold: %w", s, err)
		}
		specs = append(specs, dovibake.LUTSpec{Threshold: uint16(v), Path: path})
	}
	return specs, nil
}

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}
