// Package model implements the small feed-forward classifier behind the
// sequence-flavored scorer, trained once on a fixed synthetic corpus.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidShape is returned when an input does not match the network width
var ErrInvalidShape = errors.New("input width does not match network")

// Config configures the network architecture and training
type Config struct {
	Seed            uint64
	Epochs          int
	BatchSize       int
	LearningRate    float64
	ValidationSplit float64
	Hidden          []int     // Units per hidden layer
	Dropout         []float64 // Dropout rate after hidden layer i (training only)
}

// DefaultConfig returns the reference architecture: 64-32-16 ReLU units,
// dropout 0.3 and 0.2 after the first two layers, Adam at 1e-3.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		Epochs:          50,
		BatchSize:       8,
		LearningRate:    0.001,
		ValidationSplit: 0.2,
		Hidden:          []int{64, 32, 16},
		Dropout:         []float64{0.3, 0.2},
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	var errs []error
	if c.Epochs < 1 {
		errs = append(errs, errors.New("epochs must be at least 1"))
	}
	if c.BatchSize < 1 {
		errs = append(errs, errors.New("batch_size must be at least 1"))
	}
	if c.LearningRate <= 0 || math.IsNaN(c.LearningRate) {
		errs = append(errs, errors.New("learning_rate must be positive"))
	}
	if c.ValidationSplit < 0 || c.ValidationSplit >= 1 {
		errs = append(errs, errors.New("validation_split must be in [0, 1)"))
	}
	if len(c.Hidden) == 0 {
		errs = append(errs, errors.New("at least one hidden layer is required"))
	}
	for i, u := range c.Hidden {
		if u < 1 {
			errs = append(errs, fmt.Errorf("hidden layer %d must have at least one unit", i))
		}
	}
	if len(c.Dropout) > len(c.Hidden) {
		errs = append(errs, errors.New("more dropout rates than hidden layers"))
	}
	for i, r := range c.Dropout {
		if r < 0 || r >= 1 {
			errs = append(errs, fmt.Errorf("dropout %d must be in [0, 1)", i))
		}
	}
	return errors.Join(errs...)
}

type activation int

const (
	relu activation = iota
	sigmoid
)

// dense is a fully connected layer with weights shaped out x in
type dense struct {
	in, out int
	w       *mat.Dense
	b       *mat.VecDense
	act     activation
}

func newDense(in, out int, act activation, rng *rand.Rand) *dense {
	// Glorot uniform, biases start at zero
	limit := math.Sqrt(6 / float64(in+out))
	weights := make([]float64, in*out)
	for i := range weights {
		weights[i] = (rng.Float64()*2 - 1) * limit
	}
	return &dense{
		in:  in,
		out: out,
		w:   mat.NewDense(out, in, weights),
		b:   mat.NewVecDense(out, nil),
		act: act,
	}
}

// forward writes pre-activations to z and activations to a
func (d *dense) forward(x mat.Vector, z, a *mat.VecDense) {
	z.MulVec(d.w, x)
	z.AddVec(z, d.b)
	for o := 0; o < d.out; o++ {
		switch d.act {
		case relu:
			a.SetVec(o, math.Max(0, z.AtVec(o)))
		case sigmoid:
			a.SetVec(o, sigmoidFn(z.AtVec(o)))
		}
	}
}

func sigmoidFn(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Network is a trained binary classifier. Its parameters are not modified
// after training, so Predict is safe for concurrent use.
type Network struct {
	inputWidth int
	layers     []*dense
	dropout    []float64
}

func newNetwork(inputWidth int, cfg Config, rng *rand.Rand) *Network {
	n := &Network{inputWidth: inputWidth, dropout: cfg.Dropout}
	in := inputWidth
	for _, units := range cfg.Hidden {
		n.layers = append(n.layers, newDense(in, units, relu, rng))
		in = units
	}
	n.layers = append(n.layers, newDense(in, 1, sigmoid, rng))
	return n
}

// Predict returns the probability that x belongs to the positive class
func (n *Network) Predict(x []float64) (float64, error) {
	if len(x) != n.inputWidth {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrInvalidShape, len(x), n.inputWidth)
	}

	var cur mat.Vector = mat.NewVecDense(len(x), append([]float64(nil), x...))
	for _, l := range n.layers {
		z := mat.NewVecDense(l.out, nil)
		a := mat.NewVecDense(l.out, nil)
		l.forward(cur, z, a)
		cur = a
	}

	p := cur.AtVec(0)
	if math.IsNaN(p) {
		return 0, errors.New("network produced NaN")
	}
	return p, nil
}
