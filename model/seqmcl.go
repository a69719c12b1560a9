package model

import (
	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/bobonovski/gomcl/dataset"
	"github.com/bobonovski/gomcl/loss"
	"github.com/bobonovski/gomcl/matrix"
	"github.com/bobonovski/gomcl/sstable"
)

func init() {
	Register("seqmcl", NewSeqMCL)
}

// SeqMCL treats the predictors of the dataset as stages of a sequence, in
// the order they were loaded.
type SeqMCL struct {
	data  *dataset.Dataset
	param *loss.Param

	layers []*loss.SeqMCLLoss
	losses []float64
	stages []*loss.Stage
	grads  []*matrix.Matrix
}

func NewSeqMCL(dat *dataset.Dataset, param *loss.Param) Model {
	return &SeqMCL{
		data:  dat,
		param: param,
	}
}

func (this *SeqMCL) Forward() error {
	this.layers, this.losses, this.stages, this.grads = nil, nil, nil, nil

	layers, losses, stages, err := loss.Chain(this.param, this.data.Predictions, this.data.Labels)
	if err != nil {
		return err
	}
	this.layers, this.losses, this.stages = layers, losses, stages
	return nil
}

// Backward propagates a unit loss weight into the probabilities of every
// stage.
func (this *SeqMCL) Backward() error {
	if len(this.layers) == 0 {
		return loss.ErrNotForwarded
	}

	this.grads = make([]*matrix.Matrix, len(this.layers))
	for j, layer := range this.layers {
		propagateDown := []bool{true, false}
		if j > 0 {
			propagateDown = []bool{true, false, false, false}
		}
		grad, err := layer.Backward(1.0, propagateDown)
		if err != nil {
			return errors.Wrapf(err, "stage %d", j)
		}
		this.grads[j] = grad
	}
	return nil
}

func (this *SeqMCL) Report() {
	for j, l := range this.losses {
		log.Infof("stage %3d, loss %f", j, l)
	}
}

// serialize stage losses and the state of the last stage
func (this *SeqMCL) SaveLoss(fn string) error {
	if len(this.stages) == 0 {
		return loss.ErrNotForwarded
	}
	if err := sstable.SerializeVector(this.losses, fn+".loss"); err != nil {
		return err
	}
	last := this.stages[len(this.stages)-1]
	if err := sstable.SerializeVector(last.Weights, fn+".weights"); err != nil {
		return err
	}
	if err := sstable.SerializeVector(last.MinLoss, fn+".minloss"); err != nil {
		return err
	}
	return nil
}

func (this *SeqMCL) SaveGradients(fn string) error {
	for j, grad := range this.grads {
		if err := sstable.Serialize(grad, gradientFile(fn, j)); err != nil {
			return err
		}
	}
	return nil
}
