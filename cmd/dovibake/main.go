// Command dovibake reconstructs HDR frames from raw BL and EL planar streams.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"

	"github.com/cnotch/xlog"
	"github.com/vearutop/dovibake"
)

func main() {
	c, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	c.Log.initLogger()

	if c.BL == "" || c.Width == 0 || c.Height == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, c); err != nil {
		xlog.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *config) error {
	matrix, err := dovibake.ParseColorMatrix(c.Matrix)
	if err != nil {
		return err
	}
	blLayout, err := dovibake.ParseLayout(c.BLLayout)
	if err != nil {
		return fmt.Errorf("bl-layout: %w", err)
	}

	bl, closeBL, err := openRaw(c.BL, c.Width, c.Height, blLayout)
	if err != nil {
		return fmt.Errorf("BL: %w", err)
	}
	defer closeBL()
	bl.SetProps(dovibake.SourceProps(matrix, c.Limited))

	var el dovibake.Source
	if c.EL != "" {
		elLayout, err := dovibake.ParseLayout(c.ELLayout)
		if err != nil {
			return fmt.Errorf("el-layout: %w", err)
		}
		raw, closeEL, err := openRaw(c.EL, c.ELWidth, c.ELHeight, elLayout)
		if err != nil {
			return fmt.Errorf("EL: %w", err)
		}
		defer closeEL()
		el = raw
	}

	specs, err := c.lutSpecs()
	if err != nil {
		return err
	}
	luts, err := dovibake.LoadLUTs(specs)
	if err != nil {
		return err
	}

	reshaper := &dovibake.StaticReshaper{
		Frames:              bl.FrameCount(),
		FEL:                 c.FEL,
		DisableELProcessing: c.NoEL,
		MaxPq:               c.MaxPq,
		MaxCLL:              c.MaxCLL,
		Matrix:              matrix,
		LimitedRange:        c.Limited,
	}

	b, err := dovibake.NewBaker(bl, el, reshaper, func(o *dovibake.Options) {
		o.FastPath = c.Fast
		o.OutputYUV = c.YUV
		o.LUTs = luts
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Out, os.ModePerm); err != nil {
		return err
	}

	last := c.Last
	if last < 0 {
		last = b.FrameCount() - 1
	}

	var skipped atomic.Int32
	err = dovibake.BakeFrames(ctx, b, c.First, last, c.Workers, func(n int, f *dovibake.Frame, err error) error {
		if err != nil {
			xlog.Warnf("%v", err)
			skipped.Add(1)
			return nil
		}
		return c.writeFrame(n, f)
	})
	if err != nil {
		return err
	}
	xlog.L().Infof("frames %d..%d written to %s, %d skipped", c.First, last, c.Out, skipped.Load())
	return nil
}

func openRaw(path string, w, h int, l dovibake.Layout) (*dovibake.RawSource, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	src, err := dovibake.NewRawSource(f, st.Size(), w, h, l)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return src, func() { _ = f.Close() }, nil
}

func (c *config) writeFrame(n int, f *dovibake.Frame) error {
	base := filepath.Join(c.Out, fmt.Sprintf("frame_%06d", n))

	ext := ".tiff"
	if f.Layout != dovibake.LayoutRGB {
		ext = ".yuv"
	}
	if err := writeFile(base+ext, func(w *os.File) error {
		if ext == ".yuv" {
			return dovibake.WriteRaw(w, f)
		}
		return dovibake.EncodeTIFF(w, f)
	}); err != nil {
		return fmt.Errorf("frame %d: %w", n, err)
	}

	if err := writeFile(base+".json", func(w *os.File) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f.Meta(n))
	}); err != nil {
		return fmt.Errorf("frame %d: %w", n, err)
	}

	if c.Preview > 0 && f.Layout == dovibake.LayoutRGB {
		if err := writeFile(base+".png", func(w *os.File) error {
			return dovibake.EncodePreview(w, f, c.Preview)
		}); err != nil {
			return fmt.Errorf("frame %d preview: %w", n, err)
		}
	}

	return nil
}

func writeFile(path string, write func(w *os.File) error) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		return errors.Join(err, w.Close())
	}
	return w.Close()
}
