package domain

import "time"

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	ParticipantID string    `json:"participant_id"`
	Name          string    `json:"name"`
	Total         int       `json:"total"`
	Tier          Tier      `json:"tier"`
	LastUpdated   time.Time `json:"last_updated"`
}

// ParticipantRank places one participant within the ranked field.
type ParticipantRank struct {
	LeaderboardEntry
	FieldSize  int     `json:"field_size"`
	Percentile float64 `json:"percentile"`
}

// Statistics summarizes the event.
type Statistics struct {
	TotalParticipants  int          `json:"total_participants"`
	ScoredParticipants int          `json:"scored_participants"`
	AverageScore       float64      `json:"average_score"`
	HighestScore       int          `json:"highest_score"`
	TierCounts         map[Tier]int `json:"tier_counts"`
}
