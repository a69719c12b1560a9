package loss

import (
	"math"

	"github.com/pkg/errors"

	"github.com/bobonovski/gomcl/matrix"
)

// DefaultLogThreshold is the smallest probability fed to a logarithm or
// a reciprocal.
const DefaultLogThreshold = 1e-20

// Param configures every loss and metric in this package.
type Param struct {
	// number of winners per example in the MCL loss
	HardK int
	// weighting sharpness of the sequential loss
	Sigma float64
	// probability floor applied before log and division
	LogThreshold float64
	// a prediction counts as correct when the label is within its TopK
	// highest scoring classes
	TopK int
	// examples labelled IgnoreLabel are skipped by the accuracy metrics
	// when HasIgnoreLabel is set
	IgnoreLabel    uint32
	HasIgnoreLabel bool
	// overwrite the first entry of the MCL loss vector with the overall
	// mean loss
	ScalarInSlotZero bool
}

func DefaultParam() *Param {
	return &Param{
		HardK:        1,
		Sigma:        1.0,
		LogThreshold: DefaultLogThreshold,
		TopK:         1,
	}
}

// Validate checks the settings that do not depend on input shapes.
func (p *Param) Validate() error {
	if p.HardK < 1 {
		return errors.Wrapf(ErrBadHardK, "hard_k %d", p.HardK)
	}
	if !(p.Sigma > 0) {
		return errors.Wrapf(ErrBadSigma, "sigma %g", p.Sigma)
	}
	if !(p.LogThreshold > 0) {
		return errors.Wrapf(ErrBadThreshold, "log threshold %g", p.LogThreshold)
	}
	if p.TopK < 1 {
		return errors.Wrapf(ErrBadTopK, "top_k %d", p.TopK)
	}
	return nil
}

func (p *Param) floor(prob float64) float64 {
	if prob < p.LogThreshold {
		return p.LogThreshold
	}
	return prob
}

func logProb(prob float64) float64 {
	return math.Log(prob)
}

// checkEnsemble makes sure every predictor output has the same [N, C]
// shape, that there is one label per example and that labels index a
// class. Labels for which exempt returns true skip the range check. It
// returns N and C.
func checkEnsemble(preds []*matrix.Matrix, labels []uint32, exempt func(uint32) bool) (uint32, uint32, error) {
	if len(preds) == 0 {
		return 0, 0, ErrNoPredictors
	}
	for j, pred := range preds {
		if pred == nil {
			return 0, 0, errors.Wrapf(ErrShapeMismatch, "predictor %d is nil", j)
		}
		if !pred.SameShape(preds[0]) {
			r0, c0 := preds[0].Shape()
			r, c := pred.Shape()
			return 0, 0, errors.Wrapf(ErrShapeMismatch,
				"predictor %d is %dx%d, predictor 0 is %dx%d", j, r, c, r0, c0)
		}
	}
	num, dim := preds[0].Shape()
	if uint32(len(labels)) != num {
		return 0, 0, errors.Wrapf(ErrShapeMismatch,
			"%d labels for %d examples", len(labels), num)
	}
	for i, l := range labels {
		if l >= dim && (exempt == nil || !exempt(l)) {
			return 0, 0, errors.Wrapf(ErrLabelOutOfRange,
				"example %d has label %d, %d classes", i, l, dim)
		}
	}
	return num, dim, nil
}
