package main

import (
	"flag"
	"strings"

	log "github.com/golang/glog"

	"github.com/bobonovski/gomcl/dataset"
	"github.com/bobonovski/gomcl/loss"
	"github.com/bobonovski/gomcl/model"
)

var (
	labelFile    = flag.String("labels", "", "label file, one [exampleId label] per line")
	predictions  = flag.String("predictions", "", "comma separated prediction files, one per predictor")
	objective    = flag.String("model", "mcl", "objective type: mcl or seqmcl")
	hardK        = flag.Int("hard_k", 1, "number of predictors assigned to each example")
	sigma        = flag.Float64("sigma", 1.0, "weighting sharpness of the sequential objective")
	logThreshold = flag.Float64("log_threshold", loss.DefaultLogThreshold, "probability floor before log and division")
	topK         = flag.Int("top_k", 1, "rank within which a prediction counts as correct")
	ignoreLabel  = flag.Int("ignore_label", -1, "label skipped by the accuracy metrics, negative for none")
	classNum     = flag.Uint("classes", 0, "number of classes, 0 to infer from the files")
	output       = flag.String("output", "", "prefix of the serialized losses and gradients")
)

func main() {
	flag.Parse()
	defer log.Flush()

	param := loss.DefaultParam()
	param.HardK = *hardK
	param.Sigma = *sigma
	param.LogThreshold = *logThreshold
	param.TopK = *topK
	if *ignoreLabel >= 0 {
		param.HasIgnoreLabel = true
		param.IgnoreLabel = uint32(*ignoreLabel)
	}
	if err := param.Validate(); err != nil {
		log.Fatalf("bad configuration: %v", err)
	}

	// read ensemble outputs
	data := &dataset.Dataset{}
	if err := data.Load(*labelFile, strings.Split(*predictions, ","), uint32(*classNum)); err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	// init model
	ctor, err := model.GetModel(*objective)
	if err != nil {
		log.Fatalf("%v", err)
	}
	m := ctor(data, param)

	if err := m.Forward(); err != nil {
		log.Fatalf("forward: %v", err)
	}
	if err := m.Backward(); err != nil {
		log.Fatalf("backward: %v", err)
	}
	m.Report()

	ensemble, err := loss.EnsembleAccuracy(param, data.Predictions, data.Labels)
	if err != nil {
		log.Fatalf("ensemble accuracy: %v", err)
	}
	oracle, err := loss.OracleAccuracy(param, data.Predictions, data.Labels)
	if err != nil {
		log.Fatalf("oracle accuracy: %v", err)
	}
	log.Infof("ensemble accuracy %f, oracle accuracy %f", ensemble, oracle)

	if *output == "" {
		return
	}
	if err := m.SaveLoss(*output); err != nil {
		log.Fatalf("save loss: %v", err)
	}
	if err := m.SaveGradients(*output); err != nil {
		log.Fatalf("save gradients: %v", err)
	}
}
