package plots

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go-hep.org/x/hep/hbook"

	"github.com/banshee-data/jetbg/internal/hist"
)

// RenderSpectrumHTML writes an interactive bar chart of h to w.
func RenderSpectrumHTML(w io.Writer, h *hbook.H1D, title string) error {
	if h == nil {
		return fmt.Errorf("no histogram to render")
	}
	bar := spectrumChart(h, title)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderSummaryHTML writes a page holding one chart per spectrum and a
// scatter view of the response matrix.
func RenderSummaryHTML(w io.Writer, title string, response *hist.Hist2D, spectra ...*hbook.H1D) error {
	page := components.NewPage()
	page.PageTitle = title
	for _, h := range spectra {
		if h == nil {
			continue
		}
		page.AddCharts(spectrumChart(h, h.Name()))
	}
	if response != nil {
		page.AddCharts(responseChart(response))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func spectrumChart(h *hbook.H1D, title string) *charts.Bar {
	n := h.Len()
	xs := make([]string, n)
	ys := make([]opts.BarData, n)
	for i := range n {
		xs[i] = fmt.Sprintf("%.2f", h.Binning.Bins[i].XMid())
		ys[i] = opts.BarData{Value: h.Value(i)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("entries=%d", h.Entries())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "p_T", NameLocation: "middle", NameGap: 25}),
	)
	bar.SetXAxis(xs).AddSeries(h.Name(), ys)
	return bar
}

func responseChart(h *hist.Hist2D) *charts.Scatter {
	data := make([]opts.ScatterData, 0, h.NBinsX()*h.NBinsY())
	maxContent := 0.0
	for ix := 1; ix <= h.NBinsX(); ix++ {
		for iy := 1; iy <= h.NBinsY(); iy++ {
			c := h.BinContent(ix, iy)
			if c == 0 {
				continue
			}
			maxContent = max(maxContent, c)
			data = append(data, opts.ScatterData{Value: []interface{}{
				h.XAxis().BinCenter(ix), h.YAxis().BinCenter(iy), c,
			}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: h.Name(), Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: h.Name(), Subtitle: fmt.Sprintf("cells=%d entries=%d", len(data), h.Entries())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: h.XAxis().Min(), Max: h.XAxis().Max(), Name: "truth p_T", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: h.YAxis().Min(), Max: h.YAxis().Max(), Name: "reco p_T", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Dimension:  "2",
			Min:        0,
			Max:        float32(maxContent),
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("response", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}
