package agent

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

const (
	stateDim = 2
	logEps   = 1e-12
)

// param is one weight matrix (or bias column) with its gradient and Adam
// moments.
type param struct {
	val, grad, m, v *mat.Dense
}

func newParam(rows, cols int, bound float64, rng *rand.Rand) *param {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (2*rng.Float64() - 1) * bound
	}
	return &param{
		val:  mat.NewDense(rows, cols, data),
		grad: mat.NewDense(rows, cols, nil),
		m:    mat.NewDense(rows, cols, nil),
		v:    mat.NewDense(rows, cols, nil),
	}
}

type layer struct {
	w, b *param
}

// newLayer uses the fan-in uniform initialisation common to linear layers.
func newLayer(in, out int, rng *rand.Rand) layer {
	bound := 1 / math.Sqrt(float64(in))
	return layer{w: newParam(out, in, bound, rng), b: newParam(out, 1, bound, rng)}
}

func (l layer) forward(x mat.Vector) *mat.VecDense {
	var z mat.VecDense
	z.MulVec(l.w.val, x)
	z.AddVec(&z, l.b.val.ColView(0))
	return &z
}

// branch is in → hidden → hidden → out with ReLU between layers.
type branch struct {
	l1, l2, l3 layer
}

func newBranch(hidden, out int, rng *rand.Rand) branch {
	return branch{
		l1: newLayer(stateDim, hidden, rng),
		l2: newLayer(hidden, hidden, rng),
		l3: newLayer(hidden, out, rng),
	}
}

type activations struct {
	x, z1, a1, z2, a2, out *mat.VecDense
}

func (br branch) forward(x *mat.VecDense) activations {
	z1 := br.l1.forward(x)
	a1 := relu(z1)
	z2 := br.l2.forward(a1)
	a2 := relu(z2)
	return activations{x: x, z1: z1, a1: a1, z2: z2, a2: a2, out: br.l3.forward(a2)}
}

// backward fills the branch gradients given dL/dout.
func (br branch) backward(act activations, dOut *mat.VecDense) {
	br.l3.w.grad.Outer(1, dOut, act.a2)
	br.l3.b.grad.SetCol(0, dOut.RawVector().Data)

	var da2 mat.VecDense
	da2.MulVec(br.l3.w.val.T(), dOut)
	dz2 := reluGrad(&da2, act.z2)
	br.l2.w.grad.Outer(1, dz2, act.a1)
	br.l2.b.grad.SetCol(0, dz2.RawVector().Data)

	var da1 mat.VecDense
	da1.MulVec(br.l2.w.val.T(), dz2)
	dz1 := reluGrad(&da1, act.z1)
	br.l1.w.grad.Outer(1, dz1, act.x)
	br.l1.b.grad.SetCol(0, dz1.RawVector().Data)
}

func (br branch) params() []*param {
	return []*param{br.l1.w, br.l1.b, br.l2.w, br.l2.b, br.l3.w, br.l3.b}
}

func relu(z *mat.VecDense) *mat.VecDense {
	a := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		if v := z.AtVec(i); v > 0 {
			a.SetVec(i, v)
		}
	}
	return a
}

func reluGrad(upstream, z *mat.VecDense) *mat.VecDense {
	d := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		if z.AtVec(i) > 0 {
			d.SetVec(i, upstream.AtVec(i))
		}
	}
	return d
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Network is the default ObservationModel: an observation branch ending in a
// sigmoid and a transition branch with a linear head, both fed the raw
// (row, col) coordinate. Only the observation branch receives loss
// gradients; the L2 penalty covers every parameter.
type Network struct {
	cfg   NetworkConfig
	obs   branch
	trans branch
	opt   *adam
}

func NewNetwork(cfg NetworkConfig, rng *rand.Rand) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Network{
		cfg:   cfg,
		obs:   newBranch(cfg.Hidden, 1, rng),
		trans: newBranch(cfg.Hidden, stateDim, rng),
		opt:   newAdam(cfg.LearningRate),
	}, nil
}

func encode(pos maze.Position) *mat.VecDense {
	return mat.NewVecDense(stateDim, []float64{float64(pos.Row), float64(pos.Col)})
}

func (n *Network) Predict(pos maze.Position) (float64, []float64) {
	x := encode(pos)
	p := sigmoid(n.obs.forward(x).out.AtVec(0))
	t := n.trans.forward(x).out
	return p, []float64{t.AtVec(0), t.AtVec(1)}
}

func (n *Network) TrainStep(pos maze.Position, label float64) float64 {
	x := encode(pos)
	act := n.obs.forward(x)
	p := sigmoid(act.out.AtVec(0))

	params := n.params()
	sq := 0.0
	for _, pr := range params {
		for _, v := range pr.val.RawMatrix().Data {
			sq += v * v
		}
		pr.grad.Zero()
	}
	loss := -(label*math.Log(p+logEps) + (1-label)*math.Log(1-p+logEps)) + n.cfg.L2*sq

	// d loss / d logit through the epsilon-guarded logs
	dp := -label/(p+logEps) + (1-label)/(1-p+logEps)
	dLogit := dp * p * (1 - p)
	n.obs.backward(act, mat.NewVecDense(1, []float64{dLogit}))

	n.opt.step(params, n.cfg.L2)
	return loss
}

func (n *Network) params() []*param {
	return append(n.obs.params(), n.trans.params()...)
}

// adam is the usual bias-corrected Adam; the L2 term is added to each
// gradient as part of the loss, not as decoupled decay.
type adam struct {
	lr, beta1, beta2, eps float64
	t                     int
}

func newAdam(lr float64) *adam {
	return &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}
}

func (o *adam) step(params []*param, l2 float64) {
	o.t++
	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))
	for _, p := range params {
		val := p.val.RawMatrix().Data
		grad := p.grad.RawMatrix().Data
		m := p.m.RawMatrix().Data
		v := p.v.RawMatrix().Data
		for i := range val {
			g := grad[i] + 2*l2*val[i]
			m[i] = o.beta1*m[i] + (1-o.beta1)*g
			v[i] = o.beta2*v[i] + (1-o.beta2)*g*g
			val[i] -= o.lr * (m[i] / c1) / (math.Sqrt(v[i]/c2) + o.eps)
		}
	}
}
