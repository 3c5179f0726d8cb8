package request

import (
	"os"
)

type Request struct {
	IsNew        bool     `yaml:"is_new"`
	DatasetName  string   `yaml:"dataset_name"`
	Username     string   `yaml:"username"`
	DataFolder   string   `yaml:"data_folder"`
	OutputFolder string   `yaml:"output_folder"`
	NotifyOk     []string `yaml:"notify_ok"`
	NotifyErr    []string `yaml:"notify_err"`
	Prepare      Prepare  `yaml:"prepare"`
	Training     Training `yaml:"training"`
	Report       Report   `yaml:"report"`
}

// Prepare controls data manifest preparation for LibriSpeechMix.
// TrimNontarget and OverlapRatio are pointers because zero is a
// meaningful setting for both. SuppressDelay and OverlapRatio are
// mutually exclusive.
type Prepare struct {
	NoPrepare     bool     `yaml:"no_prepare"`
	Splits        []string `yaml:"splits"`
	NumTargets    int      `yaml:"num_targets"`
	NumEnrolls    int      `yaml:"num_enrolls"`
	TrimNontarget *float64 `yaml:"trim_nontarget"`
	SuppressDelay bool     `yaml:"suppress_delay"`
	OverlapRatio  *float64 `yaml:"overlap_ratio"`
	ProbeDuration bool     `yaml:"probe_duration"`
}

// Training holds the hyperparameter overrides passed to the external
// training program. The model sub-structs size the encoder for each
// architecture, the shared fields apply to every run. Debug is a pointer
// so an explicit debug: no survives the smoke default of true.
type Training struct {
	NoTraining     bool       `yaml:"no_training"`
	Sorting        string     `yaml:"sorting"`
	TrainBatchSize int        `yaml:"train_batch_size"`
	ValidBatchSize int        `yaml:"valid_batch_size"`
	BeamSize       int        `yaml:"beam_size"`
	RunPretrainer  bool       `yaml:"run_pretrainer"`
	Debug          *bool      `yaml:"debug"`
	RNNT           RNNT       `yaml:"rnn_t"`
	ConformerT     ConformerT `yaml:"conformer_t"`
	S4T            S4T        `yaml:"s4_t"`
}

type RNNT struct {
	DnnNeurons int `yaml:"dnn_neurons"`
	RnnNeurons int `yaml:"rnn_neurons"`
	DecNeurons int `yaml:"dec_neurons"`
	JointDim   int `yaml:"joint_dim"`
}

type ConformerT struct {
	DModel           int `yaml:"d_model"`
	DFfn             int `yaml:"d_ffn"`
	NumEncoderLayers int `yaml:"num_encoder_layers"`
	JointDim         int `yaml:"joint_dim"`
}

type S4T struct {
	DModel           int `yaml:"d_model"`
	DState           int `yaml:"d_state"`
	NumEncoderLayers int `yaml:"num_encoder_layers"`
	JointDim         int `yaml:"joint_dim"`
}

type Report struct {
	NoReport    bool `yaml:"no_report"`
	HTMLReport  bool `yaml:"html_report"`
	ExcelReport bool `yaml:"excel_report"`
	PlotReport  bool `yaml:"plot_report"`
}

func GetTestUser() string {
	user := os.Getenv(`TSASR_TEST_USER`)
	if user == `` {
		user = `TestUser`
	}
	return user
}
