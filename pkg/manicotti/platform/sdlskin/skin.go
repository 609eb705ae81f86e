// Package sdlskin provides an SDL2-backed loading screen for the
// manicotti navigation engine: a fade-in overlay with an SVG spinner and
// an optional progress bar, drawn on a renderer the host application owns.
package sdlskin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/manicotti/pkg/manicotti/constants"
	"github.com/BrandonKowalski/manicotti/pkg/manicotti/internal"
	"github.com/BrandonKowalski/manicotti/pkg/manicotti/scene"
)

const frameDelay = 16 // ms per frame when pacing fades manually

// Options configures a loading screen skin.
type Options struct {
	Renderer        *sdl.Renderer // Target renderer (required)
	Width           int32         // Logical width of the overlay
	Height          int32         // Logical height of the overlay
	BackgroundColor sdl.Color     // Overlay fill color
	AccentColor     sdl.Color     // Progress bar color
	SpinnerSVGPath  string        // Optional SVG rendered as a rotating spinner
	SpinnerSize     int32         // Spinner edge length in pixels (default 96)
	FadeDuration    time.Duration // Fade in/out duration (default constants.DefaultFadeDuration)

	// ControlActivation defers scene activation to the skin: the scene
	// activates only after the skin has presented at least one fully
	// opaque frame, so the swap never flashes a half-drawn scene.
	ControlActivation bool

	// Progress optionally supplies fractional load progress for the bar.
	// When nil the bar animates in indeterminate mode.
	Progress func() float64
}

// Skin is an SDL2 loading screen satisfying the manicotti Screen contract.
type Skin struct {
	opts     Options
	textures *textureCache
	spinner  *sdl.Texture
	angle    float64
	log      *slog.Logger
}

// New creates a skin over the host's renderer. The SVG spinner, when
// configured, is rasterized once and cached.
func New(opts Options) (*Skin, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("sdlskin: renderer is required")
	}
	if opts.SpinnerSize == 0 {
		opts.SpinnerSize = 96
	}
	if opts.FadeDuration == 0 {
		opts.FadeDuration = constants.DefaultFadeDuration
	}

	s := &Skin{
		opts:     opts,
		textures: newTextureCache(),
		log:      internal.GetLogger(),
	}

	if opts.SpinnerSVGPath != "" {
		tex, err := s.textures.svg(opts.Renderer, opts.SpinnerSVGPath,
			int(opts.SpinnerSize), int(opts.SpinnerSize))
		if err != nil {
			return nil, fmt.Errorf("sdlskin: spinner: %w", err)
		}
		s.spinner = tex
	}

	return s, nil
}

// ShowAsync fades the overlay in and returns once it is fully opaque.
func (s *Skin) ShowAsync(ctx context.Context) error {
	return s.fade(ctx, 0, 255)
}

// HideAsync fades the overlay out and returns once it is fully gone.
func (s *Skin) HideAsync(ctx context.Context) error {
	return s.fade(ctx, 255, 0)
}

// OnBeforeSceneLoad reports whether the skin wants to control activation.
func (s *Skin) OnBeforeSceneLoad(ctx context.Context, current, target string, mode scene.Mode) (bool, error) {
	s.log.Debug("loading screen engaged", "from", current, "to", target, "mode", mode.String())
	return s.opts.ControlActivation, nil
}

// OnAfterSceneLoad presents one fully opaque frame over the held scene
// and reports ready. The activation hold guarantees the frame lands
// before the swap becomes visible.
func (s *Skin) OnAfterSceneLoad(ctx context.Context, loaded string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.renderFrame(255)
	s.opts.Renderer.Present()
	return true, nil
}

// Destroy releases the skin's textures.
func (s *Skin) Destroy() {
	s.textures.destroy()
	s.spinner = nil
}

// fade drives the overlay alpha from one value to the other, presenting
// paced frames and honoring ctx cancellation between frames.
func (s *Skin) fade(ctx context.Context, from, to uint8) error {
	start := sdl.GetTicks64()
	total := uint64(s.opts.FadeDuration / time.Millisecond)
	if total == 0 {
		total = 1
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		elapsed := sdl.GetTicks64() - start
		t := float64(elapsed) / float64(total)
		if t > 1 {
			t = 1
		}

		alpha := uint8(float64(from) + (float64(to)-float64(from))*t)
		s.renderFrame(alpha)
		s.opts.Renderer.Present()

		if t >= 1 {
			return nil
		}
		sdl.Delay(frameDelay)
	}
}

// renderFrame draws one overlay frame at the given alpha: fill, spinner,
// progress bar.
func (s *Skin) renderFrame(alpha uint8) {
	r := s.opts.Renderer
	bg := s.opts.BackgroundColor

	r.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	r.SetDrawColor(bg.R, bg.G, bg.B, alpha)
	r.FillRect(&sdl.Rect{X: 0, Y: 0, W: s.opts.Width, H: s.opts.Height})

	if s.spinner != nil {
		s.spinner.SetAlphaMod(alpha)
		size := s.opts.SpinnerSize
		dst := sdl.Rect{
			X: s.opts.Width/2 - size/2,
			Y: s.opts.Height/2 - size/2,
			W: size,
			H: size,
		}
		s.angle += 4
		r.CopyEx(s.spinner, nil, &dst, s.angle, nil, sdl.FLIP_NONE)
	}

	s.renderProgressBar(alpha)
}

func (s *Skin) renderProgressBar(alpha uint8) {
	const barHeight = 8
	margin := s.opts.Width / 8
	width := s.opts.Width - margin*2
	y := s.opts.Height - s.opts.Height/6

	r := s.opts.Renderer
	accent := s.opts.AccentColor

	var filled int32
	if s.opts.Progress != nil {
		p := s.opts.Progress()
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		filled = int32(float64(width) * p)
	} else {
		// Indeterminate: a third-width segment sweeping the bar.
		segment := width / 3
		offset := int32(sdl.GetTicks64()/4) % (width + segment)
		x := margin + offset - segment
		r.SetDrawColor(accent.R, accent.G, accent.B, alpha)
		seg := sdl.Rect{X: x, Y: y, W: segment, H: barHeight}
		if seg.X < margin {
			seg.W -= margin - seg.X
			seg.X = margin
		}
		if seg.X+seg.W > margin+width {
			seg.W = margin + width - seg.X
		}
		if seg.W > 0 {
			r.FillRect(&seg)
		}
		return
	}

	r.SetDrawColor(accent.R, accent.G, accent.B, alpha)
	r.FillRect(&sdl.Rect{X: margin, Y: y, W: filled, H: barHeight})
}
