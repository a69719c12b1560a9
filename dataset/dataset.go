package dataset

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/bobonovski/gomcl/matrix"
)

// Dataset holds the true labels of N examples and the [N, C] probability
// matrix of every predictor in the ensemble.
type Dataset struct {
	ExampleNum  uint32
	ClassNum    uint32
	Labels      []uint32
	Predictions []*matrix.Matrix
}

type classProb struct {
	ClassId uint32
	Prob    float64
}

// Load reads the label file and one prediction file per predictor.
//
// The label file has one example per line: [exampleId label]. Example ids
// must cover [0, N) exactly once.
//
// A prediction file has lines like:
// [exampleId classId:prob classId:prob ... classId:prob]
// classes that are not listed get probability 0. The number of classes is
// classNum when it is positive, otherwise the largest class id seen in any
// file plus one.
func (this *Dataset) Load(labelFn string, predictionFns []string, classNum uint32) error {
	if len(predictionFns) == 0 {
		return errors.New("no prediction files given")
	}

	labels, err := loadLabels(labelFn)
	if err != nil {
		return errors.Wrapf(err, "load labels %s", labelFn)
	}
	this.Labels = labels
	this.ExampleNum = uint32(len(labels))

	classMaxId := uint32(0)
	for _, l := range labels {
		if l > classMaxId {
			classMaxId = l
		}
	}

	sparse := make([]map[uint32][]classProb, 0, len(predictionFns))
	for _, fn := range predictionFns {
		rows, maxId, err := loadPredictions(fn, this.ExampleNum)
		if err != nil {
			return errors.Wrapf(err, "load predictions %s", fn)
		}
		if maxId > classMaxId {
			classMaxId = maxId
		}
		sparse = append(sparse, rows)
	}

	this.ClassNum = classMaxId + 1
	if classNum > 0 {
		if classNum < this.ClassNum {
			return errors.Errorf("class number %d too small, found class id %d",
				classNum, classMaxId)
		}
		this.ClassNum = classNum
	}

	this.Predictions = make([]*matrix.Matrix, 0, len(sparse))
	for _, rows := range sparse {
		m := matrix.NewMatrix(this.ExampleNum, this.ClassNum)
		for exampleId, cps := range rows {
			for _, cp := range cps {
				m.Set(exampleId, cp.ClassId, cp.Prob)
			}
		}
		this.Predictions = append(this.Predictions, m)
	}

	log.Infof("number of examples %d", this.ExampleNum)
	log.Infof("number of classes %d", this.ClassNum)
	log.Infof("number of predictors %d", len(this.Predictions))
	return nil
}

func loadLabels(fn string) ([]uint32, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	byId := make(map[uint32]uint32)
	maxId := uint32(0)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		vals := strings.Fields(line)
		if len(vals) != 2 {
			log.Warningf("bad label line: %s", line)
			continue
		}

		exampleId, err := strconv.ParseUint(vals[0], 10, 32)
		if err != nil {
			return nil, err
		}
		label, err := strconv.ParseUint(vals[1], 10, 32)
		if err != nil {
			return nil, err
		}
		if _, ok := byId[uint32(exampleId)]; ok {
			return nil, errors.Errorf("duplicate example %d", exampleId)
		}
		byId[uint32(exampleId)] = uint32(label)
		if uint32(exampleId) > maxId {
			maxId = uint32(exampleId)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(byId) == 0 {
		return nil, errors.New("no labels found")
	}
	if int(maxId)+1 != len(byId) {
		return nil, errors.Errorf("example ids are not contiguous, max id %d for %d examples",
			maxId, len(byId))
	}

	labels := make([]uint32, len(byId))
	for id, l := range byId {
		labels[id] = l
	}
	return labels, nil
}

func loadPredictions(fn string, exampleNum uint32) (map[uint32][]classProb, uint32, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	rows := make(map[uint32][]classProb)
	classMaxId := uint32(0)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		vals := strings.Fields(line)
		if len(vals) < 2 {
			log.Warningf("bad prediction: %s", line)
			continue
		}

		exampleId, err := strconv.ParseUint(vals[0], 10, 32)
		if err != nil {
			return nil, 0, err
		}
		if uint32(exampleId) >= exampleNum {
			return nil, 0, errors.Errorf("example %d has no label", exampleId)
		}

		for _, kv := range vals[1:] {
			cp := strings.Split(kv, ":")
			if len(cp) != 2 {
				log.Warningf("bad class probability: %s", kv)
				continue
			}

			classId, err := strconv.ParseUint(cp[0], 10, 32)
			if err != nil {
				return nil, 0, err
			}
			prob, err := strconv.ParseFloat(cp[1], 64)
			if err != nil {
				return nil, 0, err
			}
			if prob < 0 {
				return nil, 0, errors.Errorf("negative probability %g for example %d", prob, exampleId)
			}

			rows[uint32(exampleId)] = append(rows[uint32(exampleId)], classProb{
				ClassId: uint32(classId),
				Prob:    prob,
			})
			if uint32(classId) > classMaxId {
				classMaxId = uint32(classId)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return rows, classMaxId, nil
}
