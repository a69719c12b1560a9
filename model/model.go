package model

import (
	"fmt"

	"github.com/bobonovski/gomcl/dataset"
	"github.com/bobonovski/gomcl/loss"
)

var constructors = make(map[string]ModelCtor)

// the common interface ensemble objectives should follow
type Model interface {
	// score the ensemble and assign examples to predictors
	Forward() error
	// compute the gradient of every predictor, Forward must run first
	Backward() error
	// log the forward results
	Report()
	// serialize losses and the per example state
	SaveLoss(fn string) error
	// serialize one gradient matrix per predictor
	SaveGradients(fn string) error
}

// new objectives should register themselves using this function
func Register(modelType string, m ModelCtor) {
	constructors[modelType] = m
}

type ModelCtor func(dat *dataset.Dataset, param *loss.Param) Model

func GetModel(modelType string) (ModelCtor, error) {
	if _, ok := constructors[modelType]; !ok {
		return nil, fmt.Errorf("model %s not registered", modelType)
	}
	return constructors[modelType], nil
}

func gradientFile(fn string, j int) string {
	return fmt.Sprintf("%s.grad.%d", fn, j)
}
