// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

package mlp

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
	minStd    = 1e-12
)

type moments struct {
	mw, vw *mat.Dense
	mb, vb []float64
}

type trainer struct {
	net     *Model
	rng     *rand.Rand
	x       *mat.Dense
	targets *mat.Dense
	train   []int
	valid   []int

	layers []layer
	opt    []moments
	step   int

	best     []layer
	classes  []float64
	xMean    []float64
	xStd     []float64
	yMean    float64
	yStd     float64
	bestLoss float64
}

func newTrainer(cfg Config, x mat.Matrix, y []float64) *trainer {
	rows, cols := x.Dims()
	t := &trainer{
		net:      &Model{cfg: cfg},
		rng:      rand.New(rand.NewPCG(uint64(cfg.RandomState), 0x7e3a9)), //nolint:gosec // reproducible init
		bestLoss: math.Inf(1),
	}

	t.xMean = make([]float64, cols)
	t.xStd = make([]float64, cols)
	col := make([]float64, rows)
	for c := range cols {
		mat.Col(col, c, x)
		mean, std := stat.MeanStdDev(col, nil)
		if rows < 2 || math.IsNaN(std) || std < minStd {
			std = 1
		}
		t.xMean[c], t.xStd[c] = mean, std
	}
	t.net.xMean, t.net.xStd = t.xMean, t.xStd
	t.x = t.net.standardize(x)

	outDim := 1
	if cfg.Task == Classification {
		t.classes = slices.Compact(slices.Sorted(slices.Values(y)))
		outDim = len(t.classes)
		t.targets = mat.NewDense(rows, outDim, nil)
		for r, v := range y {
			idx, _ := slices.BinarySearch(t.classes, v)
			t.targets.Set(r, idx, 1)
		}
	} else {
		mean, std := stat.MeanStdDev(y, nil)
		if rows < 2 || math.IsNaN(std) || std < minStd {
			std = 1
		}
		t.yMean, t.yStd = mean, std
		t.targets = mat.NewDense(rows, 1, nil)
		for r, v := range y {
			t.targets.Set(r, 0, (v-mean)/std)
		}
	}

	perm := t.rng.Perm(rows)
	nTrain := int(math.Round(cfg.TrainRatio * float64(rows)))
	nTrain = max(1, min(nTrain, rows))
	t.train, t.valid = perm[:nTrain], perm[nTrain:]
	if len(t.valid) == 0 {
		t.valid = t.train
	}

	sizes := append(append([]int{cols}, cfg.Hidden...), outDim)
	for i := 0; i+1 < len(sizes); i++ {
		in, out := sizes[i], sizes[i+1]
		limit := math.Sqrt(6 / float64(in+out))
		w := mat.NewDense(in, out, nil)
		for r := range in {
			for c := range out {
				w.Set(r, c, (t.rng.Float64()*2-1)*limit)
			}
		}
		t.layers = append(t.layers, layer{w: w, b: make([]float64, out)})
		t.opt = append(t.opt, moments{
			mw: mat.NewDense(in, out, nil),
			vw: mat.NewDense(in, out, nil),
			mb: make([]float64, out),
			vb: make([]float64, out),
		})
	}
	t.best = cloneLayers(t.layers)
	return t
}

func cloneLayers(layers []layer) []layer {
	out := make([]layer, len(layers))
	for i, l := range layers {
		out[i] = layer{w: mat.DenseCopyOf(l.w), b: slices.Clone(l.b)}
	}
	return out
}

func rowsOf(m *mat.Dense, idx []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		out.SetRow(i, m.RawRowView(r))
	}
	return out
}

// run trains for cfg.NIter epochs, checking the validation loss every
// NIterPrint epochs and stopping after Patience checks without improvement.
func (t *trainer) run(ctx context.Context) error {
	cfg := t.net.cfg
	every := max(cfg.NIterPrint, 1)
	xValid, yValid := rowsOf(t.x, t.valid), rowsOf(t.targets, t.valid)
	stale := 0

	for epoch := range cfg.NIter {
		if err := ctx.Err(); err != nil {
			return err
		}
		order := slices.Clone(t.train)
		t.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for start := 0; start < len(order); start += cfg.BatchSize {
			batch := order[start:min(start+cfg.BatchSize, len(order))]
			t.update(rowsOf(t.x, batch), rowsOf(t.targets, batch))
		}

		if (epoch+1)%every != 0 && epoch != cfg.NIter-1 {
			continue
		}
		loss := t.loss(t.layers, xValid, yValid)
		if loss < t.bestLoss {
			t.bestLoss = loss
			t.best = cloneLayers(t.layers)
			stale = 0
			continue
		}
		stale++
		if cfg.Patience > 0 && stale >= cfg.Patience {
			break
		}
	}
	if math.IsInf(t.bestLoss, 1) {
		// No epoch ran; keep the initial weights.
		t.best = cloneLayers(t.layers)
	}
	return nil
}

func (t *trainer) loss(layers []layer, x, y *mat.Dense) float64 {
	_, acts := t.net.forward(layers, x, nil)
	out := acts[len(acts)-1]
	rows, cols := out.Dims()
	var total float64
	for r := range rows {
		for c := range cols {
			p, target := out.At(r, c), y.At(r, c)
			if t.net.cfg.Task == Classification {
				if target > 0 {
					total -= math.Log(math.Max(p, 1e-15))
				}
			} else {
				d := p - target
				total += d * d
			}
		}
	}
	return total / float64(rows)
}

// update runs one Adam step on a batch.
func (t *trainer) update(x, y *mat.Dense) {
	cfg := t.net.cfg
	act := activations[cfg.Nonlin]
	masks := make([]*mat.Dense, len(t.layers))
	var dropout func(int, *mat.Dense)
	if cfg.Dropout > 0 {
		keep := 1 - cfg.Dropout
		dropout = func(i int, a *mat.Dense) {
			r, c := a.Dims()
			mask := mat.NewDense(r, c, nil)
			mask.Apply(func(_, _ int, _ float64) float64 {
				if t.rng.Float64() < keep {
					return 1 / keep
				}
				return 0
			}, mask)
			a.MulElem(a, mask)
			masks[i] = mask
		}
	}
	pre, acts := t.net.forward(t.layers, x, dropout)
	rows, _ := x.Dims()

	// Output gradient for softmax + cross-entropy and for linear + squared
	// loss has the same form.
	var delta mat.Dense
	delta.Sub(acts[len(acts)-1], y)
	delta.Scale(1/float64(rows), &delta)

	t.step++
	for i := len(t.layers) - 1; i >= 0; i-- {
		l := t.layers[i]
		var gw mat.Dense
		gw.Mul(acts[i].T(), &delta)
		if cfg.WeightDecay > 0 {
			gw.Add(&gw, scaled(cfg.WeightDecay, l.w))
		}
		_, outDim := delta.Dims()
		gb := make([]float64, outDim)
		for r := range rows {
			for j, v := range delta.RawRowView(r) {
				gb[j] += v
			}
		}

		if i > 0 {
			var next mat.Dense
			next.Mul(&delta, l.w.T())
			z := pre[i-1]
			next.Apply(func(r, c int, v float64) float64 { return v * act.df(z.At(r, c)) }, &next)
			if mask := masks[i-1]; mask != nil {
				next.MulElem(&next, mask)
			}
			delta = next
		}

		clip(&gw, gb, cfg.ClippingValue)
		t.adam(i, &gw, gb)
	}
}

func scaled(f float64, m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Scale(f, m)
	return &out
}

func clip(gw *mat.Dense, gb []float64, limit float64) {
	if limit <= 0 {
		return
	}
	gw.Apply(func(_, _ int, v float64) float64 { return math.Max(-limit, math.Min(limit, v)) }, gw)
	for i, v := range gb {
		gb[i] = math.Max(-limit, math.Min(limit, v))
	}
}

func (t *trainer) adam(i int, gw *mat.Dense, gb []float64) {
	lr := t.net.cfg.LR
	c1 := 1 - math.Pow(adamBeta1, float64(t.step))
	c2 := 1 - math.Pow(adamBeta2, float64(t.step))
	o := t.opt[i]
	l := t.layers[i]

	rows, cols := gw.Dims()
	for r := range rows {
		for c := range cols {
			g := gw.At(r, c)
			m := adamBeta1*o.mw.At(r, c) + (1-adamBeta1)*g
			v := adamBeta2*o.vw.At(r, c) + (1-adamBeta2)*g*g
			o.mw.Set(r, c, m)
			o.vw.Set(r, c, v)
			l.w.Set(r, c, l.w.At(r, c)-lr*(m/c1)/(math.Sqrt(v/c2)+adamEps))
		}
	}
	for j, g := range gb {
		o.mb[j] = adamBeta1*o.mb[j] + (1-adamBeta1)*g
		o.vb[j] = adamBeta2*o.vb[j] + (1-adamBeta2)*g*g
		l.b[j] -= lr * (o.mb[j] / c1) / (math.Sqrt(o.vb[j]/c2) + adamEps)
	}
}
