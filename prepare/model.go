package prepare

// DataRoot is the placeholder the training framework substitutes with
// the dataset folder when it loads a manifest.
const DataRoot = `{DATA_ROOT}`

// Annotation is one line of a LibriSpeechMix jsonl annotation file
// (see https://github.com/NaoyukiKanda/LibriSpeechMix).
type Annotation struct {
	ID                  string     `json:"id"`
	MixedWav            string     `json:"mixed_wav"`
	Wavs                []string   `json:"wavs"`
	Texts               []string   `json:"texts"`
	Delays              []float64  `json:"delays"`
	Durations           []float64  `json:"durations"`
	Speakers            []string   `json:"speakers"`
	Genders             []string   `json:"genders"`
	SpeakerProfile      [][]string `json:"speaker_profile"`
	SpeakerProfileIndex []int      `json:"speaker_profile_index"`
}

// ManifestEntry is one training example in the output manifest.
// There is one entry per target utterance and enrollment utterance.
type ManifestEntry struct {
	Wavs             []string  `json:"wavs"`
	EnrollWav        string    `json:"enroll_wav"`
	Delays           []float64 `json:"delays"`
	Start            float64   `json:"start"`
	Duration         float64   `json:"duration"`
	TargetSpeakerIdx int       `json:"target_speaker_idx"`
	Wrd              string    `json:"wrd"`
}

// DevTestEntry is the simpler manifest form used for pre-mixed dev and
// test data, where the mixture wav already exists on disk.
type DevTestEntry struct {
	MixedWav      string  `json:"mixed_wav"`
	EnrollWav     string  `json:"enroll_wav"`
	Transcription string  `json:"transcription"`
	Duration      float64 `json:"duration"`
}
