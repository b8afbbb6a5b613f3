package model

import "time"

// Report is the render-ready output of a run.
// The graph itself is persisted separately as GraphML.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Source      string        `json:"source"`  // Input folder or persisted graph path
	Pruning     PruningConfig `json:"pruning"` // Limits that produced this report
	Stats       Stats         `json:"stats"`

	Nodes []NodeAnnotation `json:"nodes"`
	Edges []EdgeAnnotation `json:"edges"`
}

// NodeAnnotation holds the visual attributes of a surviving concept
type NodeAnnotation struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Title     string  `json:"title"` // Tooltip markup
	Value     int     `json:"value"` // Importance = degree
	Size      float64 `json:"size"`
	Frequency int     `json:"frequency"`
}

// EdgeAnnotation holds the visual attributes of a surviving co-occurrence
type EdgeAnnotation struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight int     `json:"weight"`
	Width  float64 `json:"width"`
}
