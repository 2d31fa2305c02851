// Package plotting は近傍数 k ごとの正解率を図として保存する。
package plotting

import (
	"image/color"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/YuminosukeSato/knnlite/sklearn/model_selection"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size は保存する図の一辺の長さ
var Size = 5 * vg.Inch

// ValidationCurvePlot は k に対する正解率の折れ線図を作成する
func ValidationCurvePlot(scores []model_selection.KScore) (*plot.Plot, error) {
	if len(scores) == 0 {
		return nil, errors.NewValidationError("scores", "at least one score is required", scores)
	}

	p := plot.New()
	p.Title.Text = "k-NN validation curve"
	p.X.Label.Text = "k (neighbors)"
	p.Y.Label.Text = "accuracy"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(scores))
	for i, s := range scores {
		pts[i] = plotter.XY{X: float64(s.K), Y: s.Accuracy}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build line")
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{B: 200, A: 255}

	marks, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build scatter")
	}
	marks.GlyphStyle.Shape = draw.CircleGlyph{}
	marks.GlyphStyle.Radius = vg.Points(3)

	p.Add(line, marks)
	p.Legend.Add("accuracy", line, marks)
	return p, nil
}

// SaveValidationCurve は検証曲線を path に保存する。形式は拡張子（.png, .svg, .pdf など）で決まる
func SaveValidationCurve(scores []model_selection.KScore, path string) error {
	p, err := ValidationCurvePlot(scores)
	if err != nil {
		return err
	}
	if err := p.Save(Size, Size, path); err != nil {
		return errors.Wrapf(err, "save validation curve to %s", path)
	}
	return nil
}
