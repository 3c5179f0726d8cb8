package train

import (
	"path/filepath"
	"strconv"

	"github.com/entn-at/ts-asr/decode_yaml/request"
)

// Model families, in the order the smoke run executes them.
const (
	RNNTransducer       = `rnn-t`
	ConformerTransducer = `conformer-t`
	S4Transducer        = `s4-t`
)

func SmokeModels() []string {
	return []string{RNNTransducer, ConformerTransducer, S4Transducer}
}

// HparamsFile returns the config file path for one model family,
// relative to the recipe directory.
func HparamsFile(model string) string {
	return filepath.Join(`hparams`, `LibriSpeechMix`, model+`.yaml`)
}

// OverrideArgs builds the command line overrides for one model family.
// The data folder must already exist, it is a precondition of the
// training program and is not checked here.
func OverrideArgs(model string, dataFolder string, args request.Training) []string {
	var result []string
	result = append(result, `--data_folder`, dataFolder)
	result = append(result, `--sorting`, args.Sorting)
	switch model {
	case RNNTransducer:
		result = append(result, `--dnn_neurons`, strconv.Itoa(args.RNNT.DnnNeurons))
		result = append(result, `--rnn_neurons`, strconv.Itoa(args.RNNT.RnnNeurons))
		result = append(result, `--dec_neurons`, strconv.Itoa(args.RNNT.DecNeurons))
		result = append(result, `--joint_dim`, strconv.Itoa(args.RNNT.JointDim))
	case ConformerTransducer:
		result = append(result, `--d_model`, strconv.Itoa(args.ConformerT.DModel))
		result = append(result, `--d_ffn`, strconv.Itoa(args.ConformerT.DFfn))
		result = append(result, `--num_encoder_layers`, strconv.Itoa(args.ConformerT.NumEncoderLayers))
		result = append(result, `--joint_dim`, strconv.Itoa(args.ConformerT.JointDim))
	case S4Transducer:
		result = append(result, `--d_model`, strconv.Itoa(args.S4T.DModel))
		result = append(result, `--d_state`, strconv.Itoa(args.S4T.DState))
		result = append(result, `--num_encoder_layers`, strconv.Itoa(args.S4T.NumEncoderLayers))
		result = append(result, `--joint_dim`, strconv.Itoa(args.S4T.JointDim))
	}
	result = append(result, `--train_batch_size`, strconv.Itoa(args.TrainBatchSize))
	result = append(result, `--valid_batch_size`, strconv.Itoa(args.ValidBatchSize))
	result = append(result, `--beam_size`, strconv.Itoa(args.BeamSize))
	result = append(result, `--run_pretrainer`, pythonBool(args.RunPretrainer))
	// Smoke runs always pass --debug unless the request says otherwise
	if args.Debug == nil || *args.Debug {
		result = append(result, `--debug`)
	}
	return result
}

func pythonBool(value bool) string {
	if value {
		return `True`
	}
	return `False`
}
