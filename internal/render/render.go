package render

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"

	"idz2_opt/internal/optimizer"
)

// Options — параметры отрисовки анимации
type Options struct {
	Width   int
	Height  int
	Samples int // число точек кривой
	DelayCS int // задержка кадра, сотые доли секунды
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 640
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	if o.Samples <= 0 {
		o.Samples = 400
	}
	if o.DelayCS <= 0 {
		o.DelayCS = 50
	}
	return o
}

var (
	curveColor    = colorful.Hsv(210, 0.75, 0.85)
	bracketColor  = colorful.Hsv(45, 0.18, 1.0)
	bestColor     = colorful.Hsv(0, 0.85, 0.85)
	goldenColor   = colorful.Hsv(130, 0.70, 0.70)
	parabolaColor = colorful.Hsv(280, 0.60, 0.80)
)

// Animate строит по кадру на итерацию: кривая функции на исходном
// интервале [a,b], текущая скобка, лучшая и пробная точки.
func Animate(f optimizer.Func, a, b float64, iters []optimizer.Iter, opt Options) (*gif.GIF, error) {
	if len(iters) == 0 {
		return nil, errors.New("render: empty iteration history")
	}
	if !(a < b) {
		return nil, optimizer.ErrInvalidInterval
	}
	opt = opt.withDefaults()

	// сетка значений функции; точки разрыва остаются NaN и не рисуются
	xs := make([]float64, opt.Samples)
	ys := make([]float64, opt.Samples)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	h := (b - a) / float64(opt.Samples-1)
	for i := range xs {
		x := a + float64(i)*h
		y, err := f.Eval(x)
		if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			y = math.NaN()
		} else {
			ymin = math.Min(ymin, y)
			ymax = math.Max(ymax, y)
		}
		xs[i], ys[i] = x, y
	}
	if math.IsInf(ymin, 0) || math.IsInf(ymax, 0) {
		return nil, errors.New("render: no finite values on the interval")
	}
	if ymin == ymax {
		ymin, ymax = ymin-1, ymax+1
	}
	pad := 0.08 * (ymax - ymin)
	ymin, ymax = ymin-pad, ymax+pad

	const margin = 40.0
	w, ht := float64(opt.Width), float64(opt.Height)
	px := func(x float64) float64 { return margin + (x-a)/(b-a)*(w-2*margin) }
	py := func(y float64) float64 { return ht - margin - (y-ymin)/(ymax-ymin)*(ht-2*margin) }

	anim := &gif.GIF{}
	for _, it := range iters {
		dc := gg.NewContext(opt.Width, opt.Height)
		dc.SetRGB(1, 1, 1)
		dc.Clear()

		// текущая скобка
		dc.SetRGB(bracketColor.R, bracketColor.G, bracketColor.B)
		dc.DrawRectangle(px(it.A), margin, px(it.B)-px(it.A), ht-2*margin)
		dc.Fill()

		// оси
		dc.SetRGB(0.6, 0.6, 0.6)
		dc.SetLineWidth(1)
		dc.DrawLine(margin, ht-margin, w-margin, ht-margin)
		dc.DrawLine(margin, margin, margin, ht-margin)
		dc.Stroke()

		// кривая функции
		dc.SetRGB(curveColor.R, curveColor.G, curveColor.B)
		dc.SetLineWidth(2)
		started := false
		for i := range xs {
			if math.IsNaN(ys[i]) {
				started = false
				continue
			}
			if !started {
				dc.MoveTo(px(xs[i]), py(ys[i]))
				started = true
			} else {
				dc.LineTo(px(xs[i]), py(ys[i]))
			}
		}
		dc.Stroke()

		// пробная точка, цвет по виду шага
		tc := goldenColor
		if it.Step == optimizer.StepParabolic {
			tc = parabolaColor
		}
		dc.SetRGB(tc.R, tc.G, tc.B)
		dc.DrawCircle(px(it.U), py(it.FU), 4)
		dc.Fill()

		// лучшая точка
		dc.SetRGB(bestColor.R, bestColor.G, bestColor.B)
		dc.DrawCircle(px(it.X), py(it.FX), 4)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		label := fmt.Sprintf("k=%d", it.K)
		if it.Step != "" {
			label += " " + string(it.Step)
		}
		dc.DrawString(label, margin, margin-10)

		frame := image.NewPaletted(image.Rect(0, 0, opt.Width, opt.Height), palette.Plan9)
		draw.FloydSteinberg.Draw(frame, frame.Bounds(), dc.Image(), image.Point{})
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, opt.DelayCS)
	}

	return anim, nil
}
