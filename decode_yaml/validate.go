package decode_yaml

import (
	"reflect"
	"strings"

	"github.com/entn-at/ts-asr/decode_yaml/request"
)

func (r *RequestDecoder) Validate(req *request.Request) {
	r.checkRequired(req)
	r.checkPrepare(&req.Prepare)
	r.checkTraining(&req.Training)
	r.checkReport(&req.Report)
}

func (r *RequestDecoder) checkRequired(req *request.Request) {
	if req.DatasetName == `` {
		r.errors = append(r.errors, `Required field dataset_name is empty`)
	}
	if req.Username == `` {
		r.errors = append(r.errors, `Required field username: is empty`)
	}
	if req.DataFolder == `` {
		r.errors = append(r.errors, `Required field data_folder: is empty`)
	}
	req.DatasetName = strings.Replace(req.DatasetName, ` `, `_`, -1)
}

func (r *RequestDecoder) checkPrepare(req *request.Prepare) {
	if req.SuppressDelay && req.OverlapRatio != nil {
		r.errors = append(r.errors, `Either suppress_delay or overlap_ratio can be set, but not both`)
	}
	if req.OverlapRatio != nil && (*req.OverlapRatio < 0.0 || *req.OverlapRatio > 1.0) {
		r.errors = append(r.errors, `overlap_ratio must be in the interval [0, 1]`)
	}
	for _, split := range req.Splits {
		if !strings.HasPrefix(split, `train`) && !strings.HasPrefix(split, `dev`) &&
			!strings.HasPrefix(split, `test`) {
			r.errors = append(r.errors, `Split `+split+` must start with train, dev or test`)
		}
	}
}

// checkTraining applies the smoke-run defaults for any override left unset.
// The external trainer is never invoked without an explicit batch size,
// beam size, and sorting order.
func (r *RequestDecoder) checkTraining(req *request.Training) {
	if req.Sorting == `` {
		req.Sorting = `ascending`
	}
	if req.Sorting != `ascending` && req.Sorting != `descending` && req.Sorting != `random` {
		r.errors = append(r.errors, `sorting must be ascending, descending or random`)
	}
	if req.TrainBatchSize == 0 {
		req.TrainBatchSize = 2
	}
	if req.ValidBatchSize == 0 {
		req.ValidBatchSize = 1
	}
	if req.BeamSize == 0 {
		req.BeamSize = 1
	}
	if req.Debug == nil {
		debug := true
		req.Debug = &debug
	}
	if req.RNNT.DnnNeurons == 0 {
		req.RNNT.DnnNeurons = 64
	}
	if req.RNNT.RnnNeurons == 0 {
		req.RNNT.RnnNeurons = 64
	}
	if req.RNNT.DecNeurons == 0 {
		req.RNNT.DecNeurons = 64
	}
	if req.RNNT.JointDim == 0 {
		req.RNNT.JointDim = 64
	}
	if req.ConformerT.DModel == 0 {
		req.ConformerT.DModel = 64
	}
	if req.ConformerT.DFfn == 0 {
		req.ConformerT.DFfn = 128
	}
	if req.ConformerT.NumEncoderLayers == 0 {
		req.ConformerT.NumEncoderLayers = 1
	}
	if req.ConformerT.JointDim == 0 {
		req.ConformerT.JointDim = 64
	}
	if req.S4T.DModel == 0 {
		req.S4T.DModel = 64
	}
	if req.S4T.DState == 0 {
		req.S4T.DState = 16
	}
	if req.S4T.NumEncoderLayers == 0 {
		req.S4T.NumEncoderLayers = 1
	}
	if req.S4T.JointDim == 0 {
		req.S4T.JointDim = 64
	}
}

// checkReport is checking that no more than one report format is selected.
// If none are selected, it will set the default: NoReport
func (r *RequestDecoder) checkReport(req *request.Report) {
	count := r.checkForOne(reflect.ValueOf(*req), `Report`)
	if count == 0 {
		req.NoReport = true
	}
}

func (r *RequestDecoder) checkForOne(structVal reflect.Value, fieldName string) int {
	var wasSet []string
	r.checkForOneRecursive(structVal, &wasSet)
	if len(wasSet) > 1 {
		msg := `Only 1 field can be set on ` + fieldName + `: ` + strings.Join(wasSet, `,`)
		r.errors = append(r.errors, msg)
	}
	return len(wasSet)
}

func (r *RequestDecoder) checkForOneRecursive(sVal reflect.Value, wasSet *[]string) {
	for i := 0; i < sVal.NumField(); i++ {
		field := sVal.Field(i)
		fieldName := sVal.Type().Field(i).Name
		if field.Kind() == reflect.String {
			if field.String() != `` {
				*wasSet = append(*wasSet, fieldName)
			}
		} else if field.Kind() == reflect.Bool {
			if field.Bool() {
				*wasSet = append(*wasSet, fieldName)
			}
		} else if field.Kind() == reflect.Int {
			if field.Int() != 0 && len(*wasSet) == 0 {
				*wasSet = append(*wasSet, fieldName)
			}
		} else if field.Kind() == reflect.Float64 {
			if field.Float() != 0 && len(*wasSet) == 0 {
				*wasSet = append(*wasSet, fieldName)
			}
		} else if field.Kind() == reflect.Struct {
			r.checkForOneRecursive(field, wasSet)
		} else {
			msg := fieldName + ` has unexpected type ` + field.Type().Name()
			r.errors = append(r.errors, msg)
		}
	}
}
