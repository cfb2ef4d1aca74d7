package experiment

// #region strings
// Strings holds every participant-facing text and the values written to the
// log's mode and outcome columns.
type Strings struct {
	Title             string `toml:"title"`
	PracticeMode      string `toml:"practice_mode"`
	ExperimentMode    string `toml:"experiment_mode"`
	Correct           string `toml:"correct"`
	Incorrect         string `toml:"incorrect"`
	Category          string `toml:"category"`
	PracticeHeading   string `toml:"practice_heading"`   // %d task number
	ExperimentHeading string `toml:"experiment_heading"` // %d number, %d total
	Prompt            string `toml:"prompt"`
	Submit            string `toml:"submit"`
	RightAnswer       string `toml:"right_answer"` // %s winning label
	WrongAnswer       string `toml:"wrong_answer"` // %s winning label
	PracticeBlocked   string `toml:"practice_blocked"`
	SaveFailed        string `toml:"save_failed"` // %s error
	Finished          string `toml:"finished"`    // %d score, %d total
	Restart           string `toml:"restart"`
}

// DefaultStrings returns the Indonesian texts the study was run with.
func DefaultStrings() Strings {
	return Strings{
		Title:             "Eksperimen ShapeItUp: Estimasi Rata-rata Y",
		PracticeMode:      "latihan",
		ExperimentMode:    "eksperimen",
		Correct:           "Benar",
		Incorrect:         "Salah",
		Category:          "Kategori",
		PracticeHeading:   "Tugas Latihan #%d",
		ExperimentHeading: "Tugas Eksperimen #%d dari %d",
		Prompt:            "Pilih kategori dengan rata-rata Y tertinggi:",
		Submit:            "Submit Jawaban",
		RightAnswer:       "Jawaban benar! %s memiliki Y tertinggi.",
		WrongAnswer:       "Jawaban salah. Jawaban benar: %s.",
		PracticeBlocked:   "Latihan harus benar untuk lanjut.",
		SaveFailed:        "Gagal menyimpan data: %s",
		Finished:          "Eksperimen selesai! Skor akhir Anda: %d dari %d.",
		Restart:           "Mulai ulang",
	}
}

// #endregion strings
