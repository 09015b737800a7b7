package templates

const PlotTemplate = `% Generated on {{.GeneratedDate}}
%
% Metric: {{.Metric}}
% Title: {{.Title}}{{if .LowerIsBetter}} (lower is better){{end}}
% Implementations: {{len .Panels}}{{if .Confidence}}
% Error bars: {{.Confidence}} confidence interval of the mean{{end}}
%
\begin{tikzpicture}
\begin{groupplot}[
group style={group size={{.Columns}} by {{.Rows}}, horizontal sep=2cm, vertical sep=2.8cm},
width=0.42\textwidth,
height=0.32\textwidth,
xlabel={ {{.XLabel}} },
ylabel={ {{.YLabel}} },{{if .YMin}}
ymin={{.YMin}},{{end}}{{if .YMax}}
ymax={{.YMax}},{{end}}
ymajorgrids,
grid style=dashed,
x tick label style={rotate=30,anchor=north east,font=\scriptsize},
]
{{range .Panels}}
% Implementation: {{.Implementation}}
\nextgroupplot[
title={ {{.Title}} },
xmin={{.XMin}}, xmax={{.XMax}},
xtick={ {{.XTicks}} },
xticklabels={ {{.XTickLabels}} },
]
{{range .Series}}\addplot[{{.Style}}]
  coordinates {
{{range .Coordinates}}    {{.}}
{{end}}  };
{{end}}{{range .Notes}}\node[above,font=\scriptsize] at (axis cs:{{.X}},0) { {{.Text}} };
{{end}}{{end}}
\end{groupplot}{{if .Legend}}
\node[draw,align=left,anchor=north,font=\small,yshift=-0.5cm] at (current bounding box.south) {Escenarios:{{range .Legend}}\\ {{.}}{{end}}};{{end}}
\end{tikzpicture}
`

type PlotData struct {
	GeneratedDate string
	Metric        string
	Title         string
	Confidence    float64
	Columns       int
	Rows          int
	XLabel        string
	YLabel        string
	YMin          string
	YMax          string
	LowerIsBetter bool
	Panels        []PanelData
	Legend        []string
}

type PanelData struct {
	Implementation string
	Title          string
	XMin           string
	XMax           string
	XTicks         string
	XTickLabels    string
	Series         []PlotSeries
	Notes          []Note
}

type PlotSeries struct {
	Style       string
	Coordinates []string
}

// Note places text on the x axis, used for categories without a value.
type Note struct {
	X    int
	Text string
}
