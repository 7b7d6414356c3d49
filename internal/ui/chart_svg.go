package ui

import (
	"fmt"

	. "maragu.dev/gomponents"

	"innings-explorer/internal/chart"
	"innings-explorer/internal/domain"
)

const (
	svgWidth   = 720.0
	svgHeight  = 320.0
	svgPadLeft = 48.0
	svgPadTop  = 12.0
	svgPadBot  = 56.0
	svgPadRt   = 12.0
	maxXLabels = 24
)

// plot maps axis values onto the drawing area.
type plot struct {
	w, h float64
}

func newPlot() plot {
	return plot{w: svgWidth - svgPadLeft - svgPadRt, h: svgHeight - svgPadTop - svgPadBot}
}

func (p plot) y(a chart.Axis, v float64) float64 {
	return svgPadTop + p.h - p.h*(v-a.Domain.Min)/(a.Domain.Max-a.Domain.Min)
}

func (p plot) x(a chart.Axis, v float64) float64 {
	return svgPadLeft + p.w*(v-a.Domain.Min)/(a.Domain.Max-a.Domain.Min)
}

func chartSVG(b chart.Bundle) Node {
	if len(b.Axes) == 0 {
		return nil
	}
	p := newPlot()
	var body []Node
	if b.Spec.Kind == domain.ChartScatter && len(b.Axes) == 2 {
		body = scatterNodes(p, b)
	} else {
		body = barNodes(p, b)
	}
	yAxis := b.Axes[len(b.Axes)-1]

	return El("svg",
		Attr("class", "chart"),
		Attr("viewBox", fmt.Sprintf("0 0 %g %g", svgWidth, svgHeight)),
		Attr("role", "img"),
		Attr("aria-label", chartTitle(b)),
		yGrid(p, yAxis),
		Group(body),
	)
}

func yGrid(p plot, a chart.Axis) Node {
	nodes := make([]Node, 0, 2*len(a.Ticks))
	for _, t := range a.Ticks {
		y := p.y(a, t)
		nodes = append(nodes,
			El("line", Attr("class", "grid"), num("x1", svgPadLeft), num("x2", svgWidth-svgPadRt), num("y1", y), num("y2", y)),
			El("text", num("x", svgPadLeft-6), num("y", y+3), Attr("text-anchor", "end"), Text(domain.FormatNumber(t))),
		)
	}
	return Group(nodes)
}

func barNodes(p plot, b chart.Bundle) []Node {
	a := b.Axes[0]
	n := len(b.Points)
	if n == 0 {
		return nil
	}
	band := p.w / float64(n)
	base := p.y(a, a.Domain.Min)
	nodes := make([]Node, 0, 2*n)
	for i, pt := range b.Points {
		x := svgPadLeft + band*float64(i)
		if v := pt.Values[0]; v != nil {
			top := p.y(a, *v)
			nodes = append(nodes, El("rect",
				num("x", x+band*0.1), num("y", top),
				num("width", band*0.8), num("height", base-top),
				Attr("fill", pt.Color),
				El("title", Text(pt.Label+": "+domain.FormatNumber(*v))),
			))
		}
		if n <= maxXLabels {
			cx := x + band/2
			nodes = append(nodes, El("text",
				num("x", cx), num("y", svgHeight-svgPadBot+14),
				Attr("text-anchor", "end"),
				Attr("transform", fmt.Sprintf("rotate(-35 %g %g)", cx, svgHeight-svgPadBot+14)),
				Text(pt.ShortLabel),
			))
		}
	}
	return nodes
}

func scatterNodes(p plot, b chart.Bundle) []Node {
	xa, ya := b.Axes[0], b.Axes[1]
	nodes := make([]Node, 0, len(b.Points)+len(xa.Ticks))
	for _, t := range xa.Ticks {
		nodes = append(nodes, El("text",
			num("x", p.x(xa, t)), num("y", svgHeight-svgPadBot+14),
			Attr("text-anchor", "middle"), Text(domain.FormatNumber(t)),
		))
	}
	for _, pt := range b.Points {
		xv, yv := pt.Values[0], pt.Values[1]
		if xv == nil || yv == nil {
			continue
		}
		nodes = append(nodes, El("circle",
			num("cx", p.x(xa, *xv)), num("cy", p.y(ya, *yv)), Attr("r", "5"),
			Attr("fill", pt.Color),
			El("title", Text(fmt.Sprintf("%s: %s, %s", pt.Label, domain.FormatNumber(*xv), domain.FormatNumber(*yv)))),
		))
	}
	return nodes
}

func num(name string, v float64) Node {
	return Attr(name, fmt.Sprintf("%.1f", v))
}
