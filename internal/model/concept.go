package model

// Document is a single transcript handed to a concept source
type Document struct {
	ID   string `json:"id"`             // Stable identifier (usually the file path)
	Path string `json:"path,omitempty"` // Where the text was read from
	Text string `json:"-"`              // Raw transcript text
}

// SentenceConcepts is the set of normalized concepts found in one sentence.
// Concepts are expected to be lower-cased, trimmed and free of stop words.
type SentenceConcepts struct {
	Document string   `json:"document,omitempty"` // Owning document ID
	Sentence int      `json:"sentence"`           // Sentence index in the document (0-based)
	Concepts []string `json:"concepts"`           // Distinct concepts in the sentence
}

// Stats records graph size after each pipeline stage
type Stats struct {
	Documents       int `json:"documents"`
	FailedDocuments int `json:"failed_documents"`
	Sentences       int `json:"sentences"`
	SkippedRecords  int `json:"skipped_records"`

	Built          StageSize `json:"built"`
	AfterFrequency StageSize `json:"after_frequency"`
	AfterNodeCap   StageSize `json:"after_node_cap"`
	AfterDegreeCap StageSize `json:"after_degree_cap"`
}

// StageSize is a node/edge count snapshot
type StageSize struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}
