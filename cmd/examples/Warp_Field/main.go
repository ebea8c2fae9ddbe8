package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"rbfnet/pkg/config"
	"rbfnet/pkg/core"
	"rbfnet/pkg/data"
	"rbfnet/pkg/loader"
	"rbfnet/pkg/model"
	"rbfnet/pkg/stats"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// generateWarpData samples a smooth lens-like displacement field: n points in
// pixel coordinates of a width×height image, each mapped to its (du, dv)
// offset plus a little measurement noise.
func generateWarpData(n int, width, height float64, rng *rand.Rand) (X, Y [][]float64) {
	cx, cy := width/2, height/2
	norm := cx*cx + cy*cy
	for i := 0; i < n; i++ {
		u := rng.Float64() * width
		v := rng.Float64() * height
		r2 := ((u-cx)*(u-cx) + (v-cy)*(v-cy)) / norm
		k := 0.08*r2 + 0.03*r2*r2 // radial distortion
		du := (u-cx)*k + 2*math.Sin(v/height*math.Pi) + rng.NormFloat64()*0.2
		dv := (v-cy)*k - 1.5*math.Cos(u/width*math.Pi) + rng.NormFloat64()*0.2
		X = append(X, []float64{u, v})
		Y = append(Y, []float64{du, dv})
	}
	return
}

// streamedRMSE feeds the held-out rows through the batcher and predicts one
// batch at a time, the way a large calibration file would be evaluated.
func streamedRMSE(m *model.RBFRegression, X, Y [][]float64, batchSize int) (float64, error) {
	samples := make(chan data.Sample)
	batches := make(chan data.Batch)
	done := data.Batcher(samples, batchSize, batches)
	defer close(done)

	go func() {
		defer close(samples)
		for i := range X {
			select {
			case samples <- data.Sample{X: X[i], Y: Y[i]}:
			case <-done:
				return
			}
		}
	}()

	sse, count := 0.0, 0
	for b := range batches {
		bx, err := core.FromRows(b.X)
		if err != nil {
			return 0, err
		}
		by, err := core.FromRows(b.Y)
		if err != nil {
			return 0, err
		}
		pred, err := m.Predict(bx)
		if err != nil {
			return 0, err
		}
		r, c := by.Dims()
		sse += model.MSEDense(by, pred) * float64(r*c)
		count += r * c
	}
	if count == 0 {
		return 0, fmt.Errorf("no held-out rows")
	}
	return math.Sqrt(sse / float64(count)), nil
}

// crossValidate reports the mean k-fold RMSE on the training rows.
func crossValidate(cfg model.RBFConfig, X, Y [][]float64, folds int, seed int64) (float64, error) {
	total := 0.0
	used := 0
	for _, test := range loader.KFoldSplit(len(X), folds, seed) {
		train := loader.Complement(len(X), test)
		if len(train) < cfg.NumCenters || len(test) == 0 {
			continue
		}
		xt, err := core.FromRows(loader.Gather(X, train))
		if err != nil {
			return 0, err
		}
		yt, err := core.FromRows(loader.Gather(Y, train))
		if err != nil {
			return 0, err
		}
		m, err := model.NewRBFRegression(cfg)
		if err != nil {
			return 0, err
		}
		if err := m.Train(xt, yt); err != nil {
			return 0, err
		}
		xv, err := core.FromRows(loader.Gather(X, test))
		if err != nil {
			return 0, err
		}
		yv, err := core.FromRows(loader.Gather(Y, test))
		if err != nil {
			return 0, err
		}
		pred, err := m.Predict(xv)
		if err != nil {
			return 0, err
		}
		total += model.RMSEDense(yv, pred)
		used++
	}
	if used == 0 {
		return 0, fmt.Errorf("no usable folds")
	}
	return total / float64(used), nil
}

// plotField draws the measured displacements in black and the model's in red
// on a regular grid, both in the unit square the model was trained in.
func plotField(m *model.RBFRegression, Xs [][]float64, Y [][]float64, ys *stats.MinMaxScaler, scale float64, cfg config.PlotConfig) {
	p := plot.New()
	p.Title.Text = "RBF Warp Field"
	p.X.Label.Text = "u (scaled)"
	p.Y.Label.Text = "v (scaled)"

	arrow := func(x, y, dx, dy float64, c color.Color) {
		l, err := plotter.NewLine(plotter.XYs{{X: x, Y: y}, {X: x + dx*scale, Y: y + dy*scale}})
		if err != nil {
			log.Fatal(err)
		}
		l.Color = c
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
	}

	for i := range Xs {
		arrow(Xs[i][0], Xs[i][1], Y[i][0], Y[i][1], color.Gray{Y: 60})
	}

	const steps = 12
	grid := mat.NewDense(steps*steps, 2, nil)
	for i := 0; i < steps; i++ {
		for j := 0; j < steps; j++ {
			grid.SetRow(i*steps+j, []float64{float64(i) / (steps - 1), float64(j) / (steps - 1)})
		}
	}
	out, err := m.Predict(grid)
	if err != nil {
		log.Fatal(err)
	}
	field, err := ys.InverseTransform(core.ToRows(out))
	if err != nil {
		log.Fatal(err)
	}
	for i, d := range field {
		arrow(grid.At(i, 0), grid.At(i, 1), d[0], d[1], color.RGBA{R: 255, A: 255})
	}

	centers := m.Centers()
	k, _ := centers.Dims()
	cp := make(plotter.XYs, k)
	for j := range cp {
		cp[j] = plotter.XY{X: centers.At(j, 0), Y: centers.At(j, 1)}
	}
	c, err := plotter.NewScatter(cp)
	if err != nil {
		log.Fatal(err)
	}
	c.Color = color.RGBA{B: 255, A: 255}
	c.Shape = draw.CrossGlyph{}
	c.Radius = vg.Points(4)
	p.Add(c)

	if err := p.Save(vg.Length(cfg.Width)*vg.Inch, vg.Length(cfg.Height)*vg.Inch, cfg.Output); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Saved warp field plot to %s\n", cfg.Output)
}

func main() {
	configPath := flag.String("config", "", "YAML config (defaults: configs/rbf.yaml, rbf.yaml)")
	samples := flag.Int("samples", 400, "synthetic samples when no CSV is configured")
	folds := flag.Int("folds", 5, "cross-validation folds, 0 to skip")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	rbfCfg, err := cfg.Model.RBFConfig()
	if err != nil {
		log.Fatalf("model config: %v", err)
	}
	if rbfCfg.InputDim != 2 || rbfCfg.OutputDim != 2 {
		log.Fatalf("warp field needs 2 inputs and 2 outputs, config has %d and %d", rbfCfg.InputDim, rbfCfg.OutputDim)
	}

	fmt.Println("=== RBF Regression: Image Warp Field ===")
	var X, Y [][]float64
	if cfg.Data.Path != "" {
		X, Y, err = data.ReadCSV(cfg.Data.Path, rbfCfg.InputDim, rbfCfg.OutputDim)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Loaded %d samples from %s.\n", len(X), cfg.Data.Path)
	} else {
		X, Y = generateWarpData(*samples, 640, 480, rand.New(rand.NewSource(cfg.Data.SplitSeed)))
		fmt.Printf("Generated %d samples of a 640x480 distortion field.\n", len(X))
	}

	// Inputs and targets both live in [0, 1] while training.
	xs := stats.NewMinMaxScaler()
	Xs, err := xs.FitTransform(X)
	if err != nil {
		log.Fatal(err)
	}
	ys := stats.NewMinMaxScaler()
	Ys, err := ys.FitTransform(Y)
	if err != nil {
		log.Fatal(err)
	}

	XTrain, XTest, YTrain, YTest, err := loader.TrainTestSplit(Xs, Ys, cfg.Data.TestRatio, cfg.Data.SplitSeed)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Split into %d training and %d held-out samples.\n", len(XTrain), len(XTest))

	if *folds > 1 {
		start := time.Now()
		cv, err := crossValidate(rbfCfg, XTrain, YTrain, *folds, cfg.Data.SplitSeed)
		if err != nil {
			log.Fatalf("cross-validation: %v", err)
		}
		fmt.Printf("%d-fold CV RMSE (scaled) %.5f in %v\n", *folds, cv, time.Since(start))
	}

	xTrain, err := core.FromRows(XTrain)
	if err != nil {
		log.Fatal(err)
	}
	yTrain, err := core.FromRows(YTrain)
	if err != nil {
		log.Fatal(err)
	}

	m, err := model.NewRBFRegression(rbfCfg)
	if err != nil {
		log.Fatal(err)
	}
	start := time.Now()
	if err := m.Train(xTrain, yTrain); err != nil {
		log.Fatalf("train: %v", err)
	}
	fmt.Printf("Trained %d centers with %v in %v\n", rbfCfg.NumCenters, rbfCfg.Method, time.Since(start))

	if len(XTest) > 0 {
		rmse, err := streamedRMSE(m, XTest, YTest, 64)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Held-out RMSE (scaled) %.5f\n", rmse)
		reportPixels(m, XTest, YTest, ys)
	}

	// Pixel displacements are divided by the u range to fit the unit square.
	lo, hi := stats.MinMax(columnOf(X, 0))
	span := math.Max(hi-lo, 1)
	plotField(m, Xs, Y, ys, 1/span, cfg.Plot)
}

// reportPixels prints per-axis held-out errors in the original pixel units.
func reportPixels(m *model.RBFRegression, X, Y [][]float64, ys *stats.MinMaxScaler) {
	xm, err := core.FromRows(X)
	if err != nil {
		log.Fatal(err)
	}
	pred, err := m.Predict(xm)
	if err != nil {
		log.Fatal(err)
	}
	got, err := ys.InverseTransform(core.ToRows(pred))
	if err != nil {
		log.Fatal(err)
	}
	want, err := ys.InverseTransform(Y)
	if err != nil {
		log.Fatal(err)
	}
	for j, axis := range []string{"du", "dv"} {
		t, p := columnOf(want, j), columnOf(got, j)
		fmt.Printf("  %s: MAE %.3f px, RMSE %.3f px, R² %.4f\n", axis, model.MAE(t, p), model.RMSE(t, p), model.R2(t, p))
	}
}

func columnOf(rows [][]float64, j int) []float64 {
	col := make([]float64, len(rows))
	for i, r := range rows {
		col[i] = r[j]
	}
	return col
}
