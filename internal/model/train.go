package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-7
	lossEpsilon = 1e-7
)

// Example is one labeled feature vector
type Example struct {
	Features []float64
	Label    float64 // 1 legitimate, 0 fraudulent
}

// EpochStats records the losses of one epoch
type EpochStats struct {
	Epoch          int
	Loss           float64
	ValidationLoss float64 // NaN when there is no validation split
}

// History is the per-epoch training record
type History []EpochStats

// Final returns the last epoch's stats
func (h History) Final() EpochStats {
	if len(h) == 0 {
		return EpochStats{Loss: math.NaN(), ValidationLoss: math.NaN()}
	}
	return h[len(h)-1]
}

// Train fits a new network to examples. The same config and examples always
// produce the same network. The trailing ValidationSplit share of examples
// is held out and only evaluated.
func Train(ctx context.Context, examples []Example, cfg Config, log logrus.FieldLogger) (*Network, History, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid model config: %w", err)
	}
	if len(examples) == 0 {
		return nil, nil, errors.New("no training examples")
	}

	width := len(examples[0].Features)
	if width == 0 {
		return nil, nil, fmt.Errorf("%w: examples have no features", ErrInvalidShape)
	}
	for i, ex := range examples {
		if len(ex.Features) != width {
			return nil, nil, fmt.Errorf("%w: example %d has %d features, want %d", ErrInvalidShape, i, len(ex.Features), width)
		}
	}

	split := int(float64(len(examples)) * (1 - cfg.ValidationSplit))
	if split < 1 {
		return nil, nil, errors.New("validation split leaves no training examples")
	}
	train := append([]Example(nil), examples[:split]...)
	validation := examples[split:]

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	net := newNetwork(width, cfg, rng)
	opt := newAdam(net, cfg.LearningRate)
	ws := newWorkspace(net)

	history := make(History, 0, cfg.Epochs)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })

		var total float64
		for start := 0; start < len(train); start += cfg.BatchSize {
			end := min(start+cfg.BatchSize, len(train))
			total += ws.step(net, opt, train[start:end], rng)
		}

		stats := EpochStats{
			Epoch:          epoch,
			Loss:           total / float64(len(train)),
			ValidationLoss: math.NaN(),
		}
		if len(validation) > 0 {
			stats.ValidationLoss = net.meanLoss(validation)
		}
		if math.IsNaN(stats.Loss) || math.IsInf(stats.Loss, 0) {
			return nil, nil, fmt.Errorf("training diverged at epoch %d", epoch)
		}
		history = append(history, stats)

		if epoch%10 == 0 && log != nil {
			log.WithFields(logrus.Fields{
				"epoch":    epoch,
				"loss":     fmt.Sprintf("%.4f", stats.Loss),
				"val_loss": fmt.Sprintf("%.4f", stats.ValidationLoss),
			}).Debug("model training")
		}
	}

	return net, history, nil
}

func (n *Network) meanLoss(examples []Example) float64 {
	var total float64
	for _, ex := range examples {
		p, err := n.Predict(ex.Features)
		if err != nil {
			return math.NaN()
		}
		total += bce(p, ex.Label)
	}
	return total / float64(len(examples))
}

func bce(p, y float64) float64 {
	p = math.Min(math.Max(p, lossEpsilon), 1-lossEpsilon)
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

// workspace holds per-layer buffers and accumulated gradients
type workspace struct {
	z, a, mask, delta []*mat.VecDense
	gw                []*mat.Dense
	gb                []*mat.VecDense
}

func newWorkspace(n *Network) *workspace {
	ws := &workspace{}
	for _, l := range n.layers {
		ws.z = append(ws.z, mat.NewVecDense(l.out, nil))
		ws.a = append(ws.a, mat.NewVecDense(l.out, nil))
		ws.mask = append(ws.mask, mat.NewVecDense(l.out, nil))
		ws.delta = append(ws.delta, mat.NewVecDense(l.out, nil))
		ws.gw = append(ws.gw, mat.NewDense(l.out, l.in, nil))
		ws.gb = append(ws.gb, mat.NewVecDense(l.out, nil))
	}
	return ws
}

// step runs one mini-batch and returns the summed loss of the batch
func (ws *workspace) step(n *Network, opt *adam, batch []Example, rng *rand.Rand) float64 {
	loss := ws.backward(n, batch, rng)
	opt.apply(n, ws.gw, ws.gb)
	return loss
}

// backward accumulates the batch-mean loss gradients into gw and gb and
// returns the summed loss
func (ws *workspace) backward(n *Network, batch []Example, rng *rand.Rand) float64 {
	for i := range n.layers {
		ws.gw[i].Zero()
		ws.gb[i].Zero()
	}

	scale := 1 / float64(len(batch))
	var loss float64
	for _, ex := range batch {
		x := mat.NewVecDense(len(ex.Features), ex.Features)

		// Forward with inverted dropout on the configured hidden layers
		var input mat.Vector = x
		for i, l := range n.layers {
			l.forward(input, ws.z[i], ws.a[i])
			rate := 0.0
			if i < len(n.dropout) {
				rate = n.dropout[i]
			}
			for o := 0; o < l.out; o++ {
				keep := 1.0
				if rate > 0 {
					if rng.Float64() < rate {
						keep = 0
					} else {
						keep = 1 / (1 - rate)
					}
				}
				ws.mask[i].SetVec(o, keep)
			}
			ws.a[i].MulElemVec(ws.a[i], ws.mask[i])
			input = ws.a[i]
		}

		last := len(n.layers) - 1
		p := ws.a[last].AtVec(0)
		loss += bce(p, ex.Label)

		// Sigmoid with cross-entropy: dL/dz = p - y
		ws.delta[last].SetVec(0, (p-ex.Label)*scale)
		for i := last; i >= 0; i-- {
			var in mat.Vector = x
			if i > 0 {
				in = ws.a[i-1]
			}
			ws.gw[i].RankOne(ws.gw[i], 1, ws.delta[i], in)
			ws.gb[i].AddVec(ws.gb[i], ws.delta[i])
			if i == 0 {
				break
			}

			// Back through the weights, the ReLU gate and the dropout mask
			prev := ws.delta[i-1]
			prev.MulVec(n.layers[i].w.T(), ws.delta[i])
			for k := 0; k < prev.Len(); k++ {
				if ws.z[i-1].AtVec(k) <= 0 {
					prev.SetVec(k, 0)
				}
			}
			prev.MulElemVec(prev, ws.mask[i-1])
		}
	}
	return loss
}

// adam keeps first and second moment estimates per parameter
type adam struct {
	lr     float64
	t      int
	mw, vw [][]float64
	mb, vb [][]float64
}

func newAdam(n *Network, lr float64) *adam {
	a := &adam{lr: lr}
	for _, l := range n.layers {
		a.mw = append(a.mw, make([]float64, l.in*l.out))
		a.vw = append(a.vw, make([]float64, l.in*l.out))
		a.mb = append(a.mb, make([]float64, l.out))
		a.vb = append(a.vb, make([]float64, l.out))
	}
	return a
}

func (a *adam) apply(n *Network, gw []*mat.Dense, gb []*mat.VecDense) {
	a.t++
	c1 := 1 - math.Pow(adamBeta1, float64(a.t))
	c2 := 1 - math.Pow(adamBeta2, float64(a.t))
	for i, l := range n.layers {
		update(l.w.RawMatrix().Data, gw[i].RawMatrix().Data, a.mw[i], a.vw[i], a.lr, c1, c2)
		update(l.b.RawVector().Data, gb[i].RawVector().Data, a.mb[i], a.vb[i], a.lr, c1, c2)
	}
}

// update applies one Adam step; params and grads share the dense row-major
// layout of freshly allocated matrices
func update(params, grads, m, v []float64, lr, c1, c2 float64) {
	for k, g := range grads {
		m[k] = adamBeta1*m[k] + (1-adamBeta1)*g
		v[k] = adamBeta2*v[k] + (1-adamBeta2)*g*g
		params[k] -= lr * (m[k] / c1) / (math.Sqrt(v[k]/c2) + adamEpsilon)
	}
}
