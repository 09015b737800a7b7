package group

const GroupWrapperTemplate = `% Generated on {{.GeneratedDate}}
% Metrics: {{range $i, $m := .Metrics}}{{if $i}}, {{end}}{{$m}}{{end}}

\begin{figure}[htbp]
    \centering
{{range .Subfigures}}    \begin{subfigure}{\linewidth}
        \centering
        \resizebox{\linewidth}{!}{\input{{"{"}}\currfiledir {{.PlotFileName}}{{"}"}} }
        \caption{{"{"}}{{.Caption}}{{"}"}}
    \end{subfigure}

{{end}}	\caption[{{.ShortCaption}}]{{"{"}}{{.Caption}}{{"}"}}
    \label{fig:rwbench-{{.LabelID}}}
\end{figure}
`

type GroupWrapperData struct {
	GeneratedDate string
	Metrics       []string
	LabelID       string
	Subfigures    []SubfigureData
	ShortCaption  string
	Caption       string
}

type SubfigureData struct {
	PlotFileName string
	Caption      string
}
