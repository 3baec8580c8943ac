package collage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"math"
	"math/rand"

	xdraw "golang.org/x/image/draw"

	"olx-telegram-bot/internal/config"
)

// ErrNoComposablePhoto means nothing survived the aspect-ratio filter; the
// caller falls back to a text-only message.
var ErrNoComposablePhoto = errors.New("no composable photo")

const jpegQuality = 90

// Composer packs photos into a grid rendered at a fixed output size.
type Composer struct {
	outputW    int
	outputH    int
	borderFrac float64
	maxAspect  float64
}

func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		outputW:    cfg.CollageOutputWidth,
		outputH:    cfg.CollageOutputHeight,
		borderFrac: cfg.CollageBorderFrac,
		maxAspect:  cfg.MaxAspectRatio,
	}
}

// Result is the outcome of a composition. Exactly one field is set:
// Collage holds the encoded grid, or Single points at the sole surviving
// photo, which the caller passes through without any canvas work.
type Result struct {
	Collage []byte
	Single  *Photo
}

// Compose filters out extreme panoramas, then lays the survivors out in
// equal-height columns and renders them at exactly the configured output
// dimensions. Cell assignment is shuffled for visual variety; the shuffle
// never affects the output size.
func (c *Composer) Compose(photos []*Photo) (*Result, error) {
	kept := make([]*Photo, 0, len(photos))
	for _, p := range photos {
		if p.aspect() > c.maxAspect {
			slog.Debug("Filtered out photo", "aspect_ratio", p.aspect(), "url", p.URL)
			continue
		}
		kept = append(kept, p)
	}

	if len(kept) == 0 {
		return nil, ErrNoComposablePhoto
	}
	if len(kept) == 1 {
		return &Result{Single: kept[0]}, nil
	}

	rand.Shuffle(len(kept), func(i, j int) {
		kept[i], kept[j] = kept[j], kept[i]
	})

	targetRatio := float64(c.outputH) / float64(c.outputW)
	columns := buildColumns(kept, columnCount(kept, targetRatio))

	canvas := c.render(columns)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return &Result{Collage: buf.Bytes()}, nil
}

// render draws the columns onto a white canvas of the exact output size.
// Column widths are chosen so every column's stack reaches the same
// height; each cell is filled with an aspect-preserving center crop.
func (c *Composer) render(columns [][]*Photo) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, c.outputW, c.outputH))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	weights := columnWeights(columns)
	invSum := 0.0
	for _, w := range weights {
		invSum += 1 / w
	}

	border := int(math.Round(c.borderFrac * math.Max(float64(c.outputW), float64(c.outputH))))
	inset := border / 2

	// Column x edges: width share of column i is (1/weight_i)/invSum, so
	// all columns stack to the same height.
	x := 0
	cum := 0.0
	for i, col := range columns {
		cum += (1 / weights[i]) / invSum
		right := int(math.Round(cum * float64(c.outputW)))
		if i == len(columns)-1 {
			right = c.outputW
		}

		y := 0
		cellCum := 0.0
		for j, p := range col {
			cellCum += float64(p.Height) / float64(p.Width)
			bottom := int(math.Round(cellCum / weights[i] * float64(c.outputH)))
			if j == len(col)-1 {
				bottom = c.outputH
			}
			cell := image.Rect(x, y, right, bottom).Inset(inset)
			drawCell(canvas, cell, p.Image)
			y = bottom
		}
		x = right
	}
	return canvas
}

// drawCell scales src to fill the cell, center-cropping whatever the
// cell's shape cannot accommodate. Aspect ratio is preserved by cropping,
// never by stretching.
func drawCell(dst *image.NRGBA, cell image.Rectangle, src image.Image) {
	if cell.Dx() <= 0 || cell.Dy() <= 0 {
		return
	}
	sb := src.Bounds()
	scale := math.Max(
		float64(cell.Dx())/float64(sb.Dx()),
		float64(cell.Dy())/float64(sb.Dy()),
	)
	cropW := int(float64(cell.Dx()) / scale)
	cropH := int(float64(cell.Dy()) / scale)
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}
	crop := image.Rect(0, 0, cropW, cropH).
		Add(sb.Min).
		Add(image.Pt((sb.Dx()-cropW)/2, (sb.Dy()-cropH)/2))

	xdraw.ApproxBiLinear.Scale(dst, cell, src, crop, xdraw.Src, nil)
}
