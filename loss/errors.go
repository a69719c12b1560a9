package loss

import "github.com/pkg/errors"

var (
	ErrNoPredictors    = errors.New("loss: at least one predictor required")
	ErrShapeMismatch   = errors.New("loss: input shapes do not match")
	ErrBadHardK        = errors.New("loss: hard_k must be in [1, number of predictors]")
	ErrBadSigma        = errors.New("loss: sigma must be positive")
	ErrBadThreshold    = errors.New("loss: log threshold must be positive")
	ErrBadTopK         = errors.New("loss: top_k must be in [1, number of classes]")
	ErrLabelOutOfRange = errors.New("loss: label outside [0, number of classes)")
	ErrNotForwarded    = errors.New("loss: backward called before forward")
	ErrInvalidGradient = errors.New("loss: cannot backpropagate to label, weight or min loss inputs")
)
