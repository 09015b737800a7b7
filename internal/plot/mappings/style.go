package mappings

import (
	"fmt"
	"image/color"
)

type PlotStyle struct {
	// Color is an RGB hex triplet shared by every back-end.
	Color       string
	LineStyle   string
	LineWidth   string
	Mark        string
	MarkOptions string
}

// CategoryStyles colour bars by scenario and lines by implementation.
var CategoryStyles = []PlotStyle{
	{Color: "#1f77b4", LineStyle: "solid", LineWidth: "thick", Mark: "*", MarkOptions: "scale=0.8"},
	{Color: "#ff7f0e", LineStyle: "densely dashed", LineWidth: "thick", Mark: "square*", MarkOptions: "scale=0.7"},
	{Color: "#2ca02c", LineStyle: "densely dotted", LineWidth: "thick", Mark: "triangle*", MarkOptions: "scale=0.8"},
	{Color: "#d62728", LineStyle: "dashdotted", LineWidth: "thick", Mark: "diamond*", MarkOptions: "scale=0.8"},
	{Color: "#9467bd", LineStyle: "loosely dotted", LineWidth: "thick", Mark: "pentagon*", MarkOptions: "scale=0.8"},
	{Color: "#8c564b", LineStyle: "dashed", LineWidth: "thick", Mark: "x", MarkOptions: "scale=0.8"},
	{Color: "#e377c2", LineStyle: "solid", LineWidth: "thick", Mark: "o", MarkOptions: "scale=0.8"},
	{Color: "#7f7f7f", LineStyle: "densely dashed", LineWidth: "thick", Mark: "star", MarkOptions: "scale=0.8"},
	{Color: "#bcbd22", LineStyle: "densely dotted", LineWidth: "thick", Mark: "+", MarkOptions: "scale=0.8"},
	{Color: "#17becf", LineStyle: "dashed", LineWidth: "thick", Mark: "triangle", MarkOptions: "scale=0.8"},
}

func GetCategoryStyle(index int) PlotStyle {
	if index < 0 {
		index = 0
	}
	return CategoryStyles[index%len(CategoryStyles)]
}

// RGBA decodes Color. Malformed colours fall back to black.
func (ps PlotStyle) RGBA() color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(ps.Color, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// TikzColor renders the colour in xcolor's rgb,255 syntax.
func (ps PlotStyle) TikzColor() string {
	c := ps.RGBA()
	return fmt.Sprintf("{rgb,255:red,%d;green,%d;blue,%d}", c.R, c.G, c.B)
}

// ToTikzBarOptions styles a filled bar.
func (ps PlotStyle) ToTikzBarOptions() string {
	return fmt.Sprintf("fill=%s,draw=black", ps.TikzColor())
}

func (ps PlotStyle) ToTikzOptions() string {
	options := "color=" + ps.TikzColor()
	if ps.LineStyle != "" {
		options += "," + ps.LineStyle
	}
	if ps.LineWidth != "" {
		options += "," + ps.LineWidth
	}
	if ps.Mark != "none" && ps.Mark != "" {
		options += ",mark=" + ps.Mark
		if ps.MarkOptions != "" {
			options += ",mark options={" + ps.MarkOptions + ",solid}"
		}
	}
	return options
}
