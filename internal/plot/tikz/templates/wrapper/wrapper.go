package templates

const WrapperTemplate = `% Generated on {{.GeneratedDate}}
% Metric: {{.Metric}}
\begin{center}
\begin{figure}[H]
    \centering
    \resizebox{1\linewidth}{!}{\input{ {{.PlotFileName}} }}
    \caption[{{.ShortCaption}}]{ {{.Caption}} }
    \label{fig:rwbench-{{.LabelID}}}
    \end{figure}
\end{center}
`

type WrapperData struct {
	GeneratedDate string
	Metric        string
	LabelID       string
	PlotFileName  string
	ShortCaption  string
	Caption       string
}
