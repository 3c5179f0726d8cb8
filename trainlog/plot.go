package trainlog

import (
	"context"
	"math"

	log "github.com/entn-at/ts-asr/logger"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotMetrics draws the train and validation loss curves to an image file.
// The image format follows the file extension (.png, .pdf, .svg).
func PlotMetrics(ctx context.Context, metrics Metrics, outputImage string,
	xlabel string, ylabel string, title string) *log.Status {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	trainLoss := metricPoints(metrics, `train loss`)
	validLoss := metricPoints(metrics, `valid loss`)
	err := plotutil.AddLinePoints(p,
		`Train loss`, trainLoss,
		`Validation loss`, validLoss)
	if err != nil {
		return log.Error(ctx, 500, err, `Error adding loss curves to plot`)
	}
	err = p.Save(8*vg.Inch, 4*vg.Inch, outputImage)
	if err != nil {
		return log.Error(ctx, 500, err, `Error saving plot`, outputImage)
	}
	log.Info(ctx, `Wrote plot`, outputImage)
	return nil
}

func metricPoints(metrics Metrics, name string) plotter.XYs {
	epochs := metrics[`epoch`]
	values := metrics[name]
	var points plotter.XYs
	for i, value := range values {
		if math.IsNaN(value) {
			continue
		}
		x := float64(i + 1)
		if i < len(epochs) && !math.IsNaN(epochs[i]) {
			x = epochs[i]
		}
		points = append(points, plotter.XY{X: x, Y: value})
	}
	return points
}
