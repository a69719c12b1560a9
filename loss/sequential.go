package loss

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/bobonovski/gomcl/matrix"
	"github.com/bobonovski/gomcl/util"
)

// Stage is the per example state handed from one sequential stage to the
// next.
type Stage struct {
	// importance of each example, sums to 1
	Weights []float64
	// smallest negative log probability on the true label seen so far
	MinLoss []float64
}

// Indices into the propagateDown flags of SeqMCLLoss.Backward.
const (
	InputProbs = iota
	InputLabels
	InputWeights
	InputMinLoss
)

// SeqMCLLoss is one stage of a sequentially trained ensemble. The first
// stage weights examples by how badly it did on them, later stages
// multiply in their own error so that each stage concentrates on the
// examples no earlier stage solved.
type SeqMCLLoss struct {
	param *Param

	probs  *matrix.Matrix
	labels []uint32
	prev   *Stage
	num    uint32

	forwarded bool
}

func NewSeqMCLLoss(param *Param) *SeqMCLLoss {
	return &SeqMCLLoss{param: param}
}

// Reshape validates the inputs of a stage. prev is nil for the first stage.
func (this *SeqMCLLoss) Reshape(probs *matrix.Matrix, labels []uint32, prev *Stage) error {
	this.probs, this.labels, this.prev, this.num = nil, nil, nil, 0
	this.forwarded = false
	if err := this.param.Validate(); err != nil {
		return err
	}
	num, _, err := checkEnsemble([]*matrix.Matrix{probs}, labels, nil)
	if err != nil {
		return err
	}
	if prev != nil {
		if uint32(len(prev.Weights)) != num || uint32(len(prev.MinLoss)) != num {
			return errors.Wrapf(ErrShapeMismatch,
				"previous stage has %d weights and %d min losses for %d examples",
				len(prev.Weights), len(prev.MinLoss), num)
		}
	}
	this.probs, this.labels, this.prev, this.num = probs, labels, prev, num
	return nil
}

// Forward computes the stage loss and the state for the next stage.
//
// The first stage reports the mean loss over examples. Later stages report
// the sum of losses weighted by the previous stage's weights, which is not
// divided by the number of examples.
func (this *SeqMCLLoss) Forward(probs *matrix.Matrix, labels []uint32, prev *Stage) (float64, *Stage, error) {
	if err := this.Reshape(probs, labels, prev); err != nil {
		return 0, nil, err
	}

	sigma2 := this.param.Sigma * this.param.Sigma
	next := &Stage{
		Weights: make([]float64, this.num),
		MinLoss: make([]float64, this.num),
	}

	losses := make([]float64, this.num)
	for i := uint32(0); i < this.num; i += 1 {
		prob := this.param.floor(probs.Get(i, labels[i]))
		losses[i] = -logProb(prob)
	}

	var total float64
	if prev == nil {
		copy(next.MinLoss, losses)
		total = floats.Sum(losses) / float64(this.num)
	} else {
		for i := range next.MinLoss {
			next.MinLoss[i] = math.Min(losses[i], prev.MinLoss[i])
		}
		total = floats.Dot(prev.Weights, losses)
	}

	for i := range next.Weights {
		next.Weights[i] = 1 - math.Exp(-next.MinLoss[i]/sigma2)
		if prev != nil {
			next.Weights[i] *= prev.Weights[i]
		}
	}
	util.Normalize(next.Weights)

	this.forwarded = true
	return total, next, nil
}

// Backward returns the gradient of the stage loss with respect to the
// probabilities, scaled by topDiff. propagateDown is indexed by
// InputProbs, InputLabels, InputWeights and InputMinLoss; asking for any
// input other than the probabilities is an error. A nil matrix is returned
// when the probabilities need no gradient.
func (this *SeqMCLLoss) Backward(topDiff float64, propagateDown []bool) (*matrix.Matrix, error) {
	for idx := InputLabels; idx < len(propagateDown); idx += 1 {
		if propagateDown[idx] {
			return nil, errors.Wrapf(ErrInvalidGradient, "input %d", idx)
		}
	}
	if len(propagateDown) <= InputProbs || !propagateDown[InputProbs] {
		return nil, nil
	}
	if !this.forwarded {
		return nil, ErrNotForwarded
	}

	num, dim := this.probs.Shape()
	grad := matrix.NewMatrix(num, dim)
	scale := -topDiff
	for i := uint32(0); i < num; i += 1 {
		label := this.labels[i]
		prob := this.param.floor(this.probs.Get(i, label))
		if this.prev == nil {
			grad.Set(i, label, scale/prob/float64(num))
		} else {
			grad.Set(i, label, scale/prob*this.prev.Weights[i])
		}
	}
	return grad, nil
}

// Chain runs one stage per predictor in order, feeding every stage the
// state of the one before. It returns the forwarded layer of every stage,
// ready for Backward, together with the stage losses and states.
func Chain(param *Param, preds []*matrix.Matrix, labels []uint32) ([]*SeqMCLLoss, []float64, []*Stage, error) {
	if len(preds) == 0 {
		return nil, nil, nil, ErrNoPredictors
	}

	layers := make([]*SeqMCLLoss, 0, len(preds))
	losses := make([]float64, 0, len(preds))
	stages := make([]*Stage, 0, len(preds))
	var prev *Stage
	for j, pred := range preds {
		layer := NewSeqMCLLoss(param)
		l, next, err := layer.Forward(pred, labels, prev)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "stage %d", j)
		}
		layers = append(layers, layer)
		losses = append(losses, l)
		stages = append(stages, next)
		prev = next
	}
	return layers, losses, stages, nil
}
