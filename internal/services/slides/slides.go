// Package slides renders lesson slides and video thumbnails as PNG images
package slides

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// layout holds the geometry of one variant
type layout struct {
	width, height   int
	thumbW, thumbH  int
	margin          float64
	titleSize       float64
	bodySize        float64
	footerSize      float64
	thumbTitleSize  float64
	minBodySize     float64
	bodyLineSpacing float64
}

var layouts = map[production.Variant]layout{
	production.VariantLong: {
		width: 1920, height: 1080, thumbW: 1280, thumbH: 720,
		margin: 120, titleSize: 84, bodySize: 56, footerSize: 30, thumbTitleSize: 88,
		minBodySize: 28, bodyLineSpacing: 1.5,
	},
	production.VariantShort: {
		width: 1080, height: 1920, thumbW: 720, thumbH: 1280,
		margin: 90, titleSize: 96, bodySize: 68, footerSize: 34, thumbTitleSize: 72,
		minBodySize: 32, bodyLineSpacing: 1.6,
	},
}

// Renderer draws slides with the channel's colors and fonts
type Renderer struct {
	regular    *truetype.Font
	bold       *truetype.Font
	background string
	foreground string
	accent     string
	footer     string
}

var _ production.SlideRenderer = (*Renderer)(nil)

// NewRenderer creates a Renderer. When cfg.FontFile is empty the embedded Go fonts are used.
func NewRenderer(cfg config.RenderConfig, ch config.ChannelConfig) (*Renderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}

	if cfg.FontFile != "" {
		custom, err := loadFont(cfg.FontFile)
		if err != nil {
			return nil, err
		}
		regular, bold = custom, custom
		utils.LogVerbose("Using font %s", cfg.FontFile)
	}

	footer := ch.Series
	if ch.Presenter != "" {
		footer = fmt.Sprintf("%s with %s", ch.Series, ch.Presenter)
	}

	return &Renderer{
		regular:    regular,
		bold:       bold,
		background: colorOr(cfg.Background, "#0C111D"),
		foreground: colorOr(cfg.Foreground, "#FFFFFF"),
		accent:     colorOr(cfg.Accent, "#4F8CFF"),
		footer:     footer,
	}, nil
}

func loadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return parsed, nil
}

func colorOr(hex, fallback string) string {
	if strings.TrimSpace(hex) == "" {
		return fallback
	}
	return hex
}

func (r *Renderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// RenderSlide draws one slide into dir as slide_NN.png
func (r *Renderer) RenderSlide(ctx context.Context, dir string, spec production.SlideSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l, ok := layouts[spec.Variant]
	if !ok {
		return "", fmt.Errorf("unknown video variant %q", spec.Variant)
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}

	w, h := float64(l.width), float64(l.height)
	dc := gg.NewContext(l.width, l.height)
	dc.SetHexColor(r.background)
	dc.Clear()

	// accent bar
	dc.SetHexColor(r.accent)
	dc.DrawRectangle(0, 0, w, 14)
	dc.Fill()

	textWidth := w - 2*l.margin
	y := l.margin

	dc.SetFontFace(r.face(r.bold, l.titleSize))
	dc.SetHexColor(r.accent)
	title := strings.TrimSpace(spec.Slide.Title)
	titleLines := len(dc.WordWrap(title, textWidth))
	dc.DrawStringWrapped(title, l.margin, y, 0, 0, textWidth, 1.2, gg.AlignLeft)
	y += float64(titleLines)*l.titleSize*1.2 + l.titleSize*0.6

	bodyHeight := h - y - l.margin - l.footerSize*2
	size := r.fitBody(dc, spec.Slide.Content, textWidth, bodyHeight, l)
	dc.SetFontFace(r.face(r.regular, size))
	dc.SetHexColor(r.foreground)
	for _, paragraph := range strings.Split(strings.TrimSpace(spec.Slide.Content), "\n") {
		if strings.TrimSpace(paragraph) == "" {
			y += size * 0.6
			continue
		}
		lines := len(dc.WordWrap(paragraph, textWidth))
		dc.DrawStringWrapped(paragraph, l.margin, y, 0, 0, textWidth, l.bodyLineSpacing, gg.AlignLeft)
		y += float64(lines) * size * l.bodyLineSpacing
	}

	if spec.Total > 0 {
		dc.SetFontFace(r.face(r.regular, l.footerSize))
		dc.SetHexColor(r.foreground)
		dc.DrawStringAnchored(r.footer, l.margin, h-l.margin/2, 0, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d / %d", spec.Number, spec.Total), w-l.margin, h-l.margin/2, 1, 0.5)
	}

	path := filepath.Join(dir, fmt.Sprintf("slide_%02d.png", spec.Number))
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to save slide: %w", err)
	}
	utils.LogDebug("Rendered %s", path)
	return path, nil
}

// fitBody returns the largest body font size whose wrapped text fits in height
func (r *Renderer) fitBody(dc *gg.Context, text string, width, height float64, l layout) float64 {
	paragraphs := strings.Split(strings.TrimSpace(text), "\n")
	for size := l.bodySize; size > l.minBodySize; size -= 4 {
		dc.SetFontFace(r.face(r.regular, size))
		lines := 0
		for _, p := range paragraphs {
			if strings.TrimSpace(p) == "" {
				lines++
				continue
			}
			lines += len(dc.WordWrap(p, width))
		}
		if float64(lines)*size*l.bodyLineSpacing <= height {
			return size
		}
	}
	return l.minBodySize
}

// RenderThumbnail draws the centered title on the channel background and saves it at path
func (r *Renderer) RenderThumbnail(ctx context.Context, path string, variant production.Variant, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l, ok := layouts[variant]
	if !ok {
		return "", fmt.Errorf("unknown video variant %q", variant)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}

	w, h := float64(l.thumbW), float64(l.thumbH)
	dc := gg.NewContext(l.thumbW, l.thumbH)
	dc.SetHexColor(r.background)
	dc.Clear()

	dc.SetHexColor(r.accent)
	dc.SetLineWidth(12)
	dc.DrawRectangle(6, 6, w-12, h-12)
	dc.Stroke()

	dc.SetFontFace(r.face(r.bold, l.thumbTitleSize))
	dc.SetHexColor(r.foreground)
	dc.DrawStringWrapped(strings.TrimSpace(title), w/2, h/2, 0.5, 0.5, w*0.8, 1.3, gg.AlignCenter)

	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	utils.LogDebug("Rendered thumbnail %s", path)
	return path, nil
}
