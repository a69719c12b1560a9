package loss

import (
	"github.com/pkg/errors"

	"github.com/bobonovski/gomcl/matrix"
	"github.com/bobonovski/gomcl/util"
)

func (p *Param) checkMetric(preds []*matrix.Matrix, labels []uint32) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, dim, err := checkEnsemble(preds, labels, p.ignored)
	if err != nil {
		return err
	}
	if uint32(p.TopK) > dim {
		return errors.Wrapf(ErrBadTopK, "top_k %d with %d classes", p.TopK, dim)
	}
	return nil
}

func (p *Param) ignored(label uint32) bool {
	return p.HasIgnoreLabel && label == p.IgnoreLabel
}

// EnsembleAccuracy is the fraction of examples for which at least one
// predictor ranks the true label within its TopK classes.
func EnsembleAccuracy(param *Param, preds []*matrix.Matrix, labels []uint32) (float64, error) {
	if err := param.checkMetric(preds, labels); err != nil {
		return 0, err
	}

	correct, total := 0, 0
	for i, label := range labels {
		if param.ignored(label) {
			continue
		}
		total += 1
		for _, pred := range preds {
			row := pred.Row(uint32(i))
			if util.RankOf(row, int(label), param.LogThreshold) < param.TopK {
				correct += 1
				break
			}
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}

// OracleAccuracy picks, for every example, the predictor that puts the
// highest probability on the true label and counts the example when that
// predictor also ranks the true label within its TopK classes.
func OracleAccuracy(param *Param, preds []*matrix.Matrix, labels []uint32) (float64, error) {
	if err := param.checkMetric(preds, labels); err != nil {
		return 0, err
	}

	labelProbs := make([]float64, len(preds))
	correct, total := 0, 0
	for i, label := range labels {
		if param.ignored(label) {
			continue
		}
		total += 1

		// most confident predictor on the true label
		for j, pred := range preds {
			labelProbs[j] = pred.Get(uint32(i), label)
		}
		oracle := util.ArgMax(labelProbs, param.LogThreshold)

		row := preds[oracle].Row(uint32(i))
		if util.RankOf(row, int(label), param.LogThreshold) < param.TopK {
			correct += 1
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}
