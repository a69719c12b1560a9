package model

import (
	log "github.com/golang/glog"

	"github.com/bobonovski/gomcl/dataset"
	"github.com/bobonovski/gomcl/loss"
	"github.com/bobonovski/gomcl/matrix"
	"github.com/bobonovski/gomcl/sstable"
)

func init() {
	Register("mcl", NewMCL)
}

type MCL struct {
	data  *dataset.Dataset
	param *loss.Param
	layer *loss.MCLLoss

	losses []float64
	grads  []*matrix.Matrix
}

// NewMCL creates the winner take all objective over every predictor of
// the dataset
func NewMCL(dat *dataset.Dataset, param *loss.Param) Model {
	return &MCL{
		data:  dat,
		param: param,
		layer: loss.NewMCLLoss(param),
	}
}

func (this *MCL) Forward() error {
	losses, err := this.layer.Forward(this.data.Predictions, this.data.Labels)
	if err != nil {
		return err
	}
	this.losses = losses
	this.grads = nil
	return nil
}

// Backward feeds the forward losses back as the upstream gradient.
func (this *MCL) Backward() error {
	topDiff := make([]float64, len(this.losses))
	copy(topDiff, this.losses)

	grads, err := this.layer.Backward(topDiff, this.data.Predictions, this.data.Labels)
	if err != nil {
		return err
	}
	this.grads = grads
	for j, grad := range grads {
		log.V(1).Infof("predictor %3d, gradient entries %d", j, grad.NonZero())
	}
	return nil
}

func (this *MCL) Report() {
	counts := this.layer.Counts()
	for j, l := range this.losses {
		if counts[j] == 0 {
			log.Warningf("predictor %3d won no examples", j)
			continue
		}
		log.Infof("predictor %3d, examples %6.0f, loss %f", j, counts[j], l)
	}
	log.Infof("mean loss %f", this.layer.Total())
}

// serialize per predictor losses and assignment counts
func (this *MCL) SaveLoss(fn string) error {
	if err := sstable.SerializeVector(this.losses, fn+".loss"); err != nil {
		return err
	}
	if err := sstable.SerializeVector(this.layer.Counts(), fn+".counts"); err != nil {
		return err
	}
	return nil
}

func (this *MCL) SaveGradients(fn string) error {
	for j, grad := range this.grads {
		if err := sstable.Serialize(grad, gradientFile(fn, j)); err != nil {
			return err
		}
	}
	return nil
}
