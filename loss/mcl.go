package loss

import (
	"sort"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/bobonovski/gomcl/matrix"
)

// MCLLoss is the multiple choice learning loss over an ensemble. Every
// example is assigned to HardK predictors, each winner is charged the
// negative log probability it gave the true label and gradients only flow
// back to the winners.
//
// Winners are the predictors with the smallest log probability on the true
// label, i.e. the least confident ones. This is the opposite of the usual
// "best predictor takes the example" rule and is kept as is.
type MCLLoss struct {
	param *Param

	num    uint32
	dim    uint32
	nPred  int
	best   []int     // winner of rank slot l for example i at i*k+l
	counts []float64 // number of slots each predictor won
	losses []float64 // per predictor average loss
	total  float64   // summed winner loss over the number of examples

	forwarded bool
}

func NewMCLLoss(param *Param) *MCLLoss {
	return &MCLLoss{param: param}
}

// Reshape validates the inputs against the configuration and resets the
// assignment table, counts and losses.
func (this *MCLLoss) Reshape(preds []*matrix.Matrix, labels []uint32) error {
	this.reset()
	if err := this.param.Validate(); err != nil {
		return err
	}
	num, dim, err := checkEnsemble(preds, labels, nil)
	if err != nil {
		return err
	}
	if this.param.HardK > len(preds) {
		return errors.Wrapf(ErrBadHardK, "hard_k %d with %d predictors",
			this.param.HardK, len(preds))
	}

	this.num, this.dim, this.nPred = num, dim, len(preds)
	this.best = make([]int, int(num)*this.param.HardK)
	this.counts = make([]float64, len(preds))
	this.losses = make([]float64, len(preds))
	return nil
}

// reset drops the aggregates of the previous pass so that a failed
// Forward leaves nothing for Backward to read.
func (this *MCLLoss) reset() {
	this.num, this.dim, this.nPred = 0, 0, 0
	this.best, this.counts, this.losses = nil, nil, nil
	this.total = 0
	this.forwarded = false
}

type scoredPredictor struct {
	score float64
	index int
}

// Forward assigns winners for every example and returns the per predictor
// average loss. Predictors that won nothing report 0.
func (this *MCLLoss) Forward(preds []*matrix.Matrix, labels []uint32) ([]float64, error) {
	if err := this.Reshape(preds, labels); err != nil {
		return nil, err
	}

	k := this.param.HardK
	scores := make([]scoredPredictor, this.nPred)
	for i := uint32(0); i < this.num; i += 1 {
		label := labels[i]
		for j, pred := range preds {
			prob := this.param.floor(pred.Get(i, label))
			scores[j] = scoredPredictor{score: logProb(prob), index: j}
		}

		if k == 1 {
			// strict "<" keeps the lowest index on ties
			winner := 0
			for j := 1; j < this.nPred; j += 1 {
				if scores[j].score < scores[winner].score {
					winner = j
				}
			}
			this.assign(i, 0, scores[winner])
			continue
		}

		sort.Slice(scores, func(a, b int) bool {
			if scores[a].score != scores[b].score {
				return scores[a].score < scores[b].score
			}
			return scores[a].index < scores[b].index
		})
		for l := 0; l < k; l += 1 {
			this.assign(i, l, scores[l])
		}
	}

	for j := range this.losses {
		this.total += this.losses[j]
		if this.counts[j] > 0 {
			this.losses[j] /= this.counts[j]
		} else {
			log.V(1).Infof("predictor %d won no examples", j)
		}
	}
	this.total /= float64(this.num)
	if this.param.ScalarInSlotZero {
		this.losses[0] = this.total
	}

	this.forwarded = true
	return this.losses, nil
}

func (this *MCLLoss) assign(example uint32, slot int, s scoredPredictor) {
	this.losses[s.index] -= s.score
	this.counts[s.index] += 1
	this.best[int(example)*this.param.HardK+slot] = s.index
}

// Assignments returns the winner table, slot i*HardK+l holds the rank l
// winner of example i.
func (this *MCLLoss) Assignments() []int {
	return this.best
}

// Counts returns how many assignment slots each predictor won.
func (this *MCLLoss) Counts() []float64 {
	return this.counts
}

// Losses returns the loss vector computed by the last Forward.
func (this *MCLLoss) Losses() []float64 {
	return this.losses
}

// Total returns the summed winner loss divided by the number of examples.
func (this *MCLLoss) Total() float64 {
	return this.total
}
