package models

// Match is a candidate pair whose aggregated score reached the threshold.
// LeftID sorts before RightID.
type Match struct {
	LeftID      string             `json:"left_id"`
	RightID     string             `json:"right_id"`
	Score       float64            `json:"score"`
	FieldScores map[string]float64 `json:"field_scores,omitempty"`
	// BlockingKey is the "<target key field>=<key>" bucket the pair was found in.
	BlockingKey string `json:"blocking_key"`
}

// Cluster is a group of records connected by matches.
type Cluster struct {
	ID        string   `json:"id"`
	RecordIDs []string `json:"record_ids"`
	MaxScore  float64  `json:"max_score"`
}
