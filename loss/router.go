package loss

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/bobonovski/gomcl/matrix"
)

// Backward routes topDiff, the upstream gradient of each predictor's loss,
// back to the probability inputs. preds and labels must be the ones given
// to the last Forward.
func (this *MCLLoss) Backward(topDiff []float64, preds []*matrix.Matrix, labels []uint32) ([]*matrix.Matrix, error) {
	if !this.forwarded {
		return nil, ErrNotForwarded
	}
	if len(topDiff) != this.nPred {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"%d upstream gradients for %d predictors", len(topDiff), this.nPred)
	}
	if len(preds) != this.nPred {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"%d predictors, forward pass had %d", len(preds), this.nPred)
	}
	num, dim, err := checkEnsemble(preds, labels, nil)
	if err != nil {
		return nil, err
	}
	if num != this.num || dim != this.dim {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"inputs are %dx%d, forward pass had %dx%d", num, dim, this.num, this.dim)
	}
	return routeGradients(this.param, preds, labels, this.best, this.counts, topDiff), nil
}

// routeGradients builds one gradient buffer per predictor. Predictor j
// only receives gradient at (i, label(i)) for the examples it won, scaled
// by -topDiff[j]/counts[j] and divided by the floored probability.
// Predictors without winning slots get an all zero buffer.
//
// topDiff usually is the forward loss itself, which already is averaged
// over counts[j], so the scale divides by counts[j] a second time.
// Inputs must already be validated against the forward pass.
func routeGradients(param *Param, preds []*matrix.Matrix, labels []uint32,
	best []int, counts []float64, topDiff []float64) []*matrix.Matrix {
	grads := make([]*matrix.Matrix, len(preds))
	k := param.HardK

	p := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for j := range preds {
		j := j
		p.Go(func() {
			num, dim := preds[j].Shape()
			grad := matrix.NewMatrix(num, dim)
			grads[j] = grad
			if counts[j] == 0 {
				return
			}

			scale := -topDiff[j] / counts[j]
			for i := uint32(0); i < num; i += 1 {
				for l := 0; l < k; l += 1 {
					if best[int(i)*k+l] != j {
						continue
					}
					label := labels[i]
					prob := param.floor(preds[j].Get(i, label))
					grad.Set(i, label, scale/prob)
				}
			}
		})
	}
	p.Wait()

	return grads
}
