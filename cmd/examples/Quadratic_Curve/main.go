package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"rbfnet/pkg/core"
	"rbfnet/pkg/model"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// sampleCurve returns n evenly spaced samples of y = x² on [0, 1].
func sampleCurve(n int) (X, Y *mat.Dense) {
	X = mat.NewDense(n, 1, nil)
	Y = mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		X.Set(i, 0, x)
		Y.Set(i, 0, x*x)
	}
	return X, Y
}

// plotCurve draws the training samples, the fitted curve of every model and
// the centers of the first one.
func plotCurve(X, Y *mat.Dense, fits map[string]*model.RBFRegression, filename string) {
	p := plot.New()
	p.Title.Text = "RBF Regression of y = x²"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	n, _ := X.Dims()
	pts := make(plotter.XYs, n)
	for i := range pts {
		pts[i].X = X.At(i, 0)
		pts[i].Y = Y.At(i, 0)
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		log.Fatal(err)
	}
	s.Color = color.RGBA{B: 255, A: 255, R: 50, G: 50}
	p.Add(s)
	p.Legend.Add("samples", s)

	const steps = 200
	grid := mat.NewDense(steps, 1, nil)
	for i := 0; i < steps; i++ {
		grid.Set(i, 0, float64(i)/(steps-1))
	}

	colors := []color.RGBA{{R: 255, A: 255}, {G: 160, A: 255}}
	names := []string{model.PseudoInverse.String(), model.NormalEquations.String()}
	for idx, name := range names {
		m, ok := fits[name]
		if !ok {
			continue
		}
		out, err := m.Predict(grid)
		if err != nil {
			log.Fatal(err)
		}
		line := make(plotter.XYs, steps)
		for i := range line {
			line[i].X = grid.At(i, 0)
			line[i].Y = out.At(i, 0)
		}
		l, err := plotter.NewLine(line)
		if err != nil {
			log.Fatal(err)
		}
		l.Color = colors[idx%len(colors)]
		l.LineStyle.Width = vg.Points(2)
		if idx > 0 {
			l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		p.Add(l)
		p.Legend.Add(name, l)

		if idx == 0 {
			centers := m.Centers()
			k, _ := centers.Dims()
			cp := make(plotter.XYs, k)
			cx := mat.NewDense(k, 1, nil)
			for j := 0; j < k; j++ {
				cx.Set(j, 0, centers.At(j, 0))
			}
			cy, err := m.Predict(cx)
			if err != nil {
				log.Fatal(err)
			}
			for j := range cp {
				cp[j] = plotter.XY{X: cx.At(j, 0), Y: cy.At(j, 0)}
			}
			c, err := plotter.NewScatter(cp)
			if err != nil {
				log.Fatal(err)
			}
			c.Color = color.RGBA{A: 255}
			c.Shape = draw.CrossGlyph{}
			c.Radius = vg.Points(5)
			p.Add(c)
			p.Legend.Add("centers", c)
		}
	}

	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Saved RBF curve plot to %s\n", filename)
}

func main() {
	samples := flag.Int("samples", 25, "number of training samples on [0, 1]")
	centers := flag.Int("centers", 5, "number of RBF centers")
	seed := flag.Int64("seed", 1, "k-means seed")
	out := flag.String("out", "rbf_quadratic.png", "output plot")
	flag.Parse()

	fmt.Println("=== RBF Regression: Quadratic Curve ===")
	X, Y := sampleCurve(*samples)
	fmt.Printf("Generated %d samples of y = x².\n", *samples)

	fits := map[string]*model.RBFRegression{}
	for _, method := range []model.SolveMethod{model.PseudoInverse, model.NormalEquations} {
		cfg := model.DefaultRBFConfig(1, *centers, 1)
		cfg.Method = method
		cfg.Seed = *seed

		m, err := model.NewRBFRegression(cfg)
		if err != nil {
			log.Fatal(err)
		}
		start := time.Now()
		if err := m.Train(X, Y); err != nil {
			fmt.Printf("%-16s training failed: %v\n", method, err)
			continue
		}
		pred, err := m.Predict(X)
		if err != nil {
			log.Fatal(err)
		}
		yt, yp := mat.Col(nil, 0, Y), mat.Col(nil, 0, pred)
		fmt.Printf("%-16s trained in %v, RMSE %.5f, MAE %.5f, R² %.4f\n",
			method, time.Since(start), model.RMSEDense(Y, pred), model.MAE(yt, yp), model.R2(yt, yp))

		probe, err := m.Predict(mat.NewDense(1, 1, []float64{0.5}))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%-16s f(0.5) = %.4f (exact %.4f)\n", method, probe.At(0, 0), 0.25)
		fmt.Printf("%-16s weights %v\n", method, core.ToRows(m.Weights()))
		fits[method.String()] = m
	}
	if len(fits) == 0 {
		log.Fatal("no model could be trained")
	}

	worst := 0.0
	if m, ok := fits[model.PseudoInverse.String()]; ok {
		pred, err := m.Predict(X)
		if err != nil {
			log.Fatal(err)
		}
		for i := 0; i < *samples; i++ {
			worst = math.Max(worst, math.Abs(pred.At(i, 0)-Y.At(i, 0)))
		}
		fmt.Printf("Largest absolute training error (pinv): %.5f\n", worst)
	}

	plotCurve(X, Y, fits, *out)
}
