// Package model defines shared data structures.
package model

import "time"

// History orders for the previous-overs display.
const (
	OrderNewestFirst = "newest-first"
	OrderOldestFirst = "oldest-first"
)

// Config defines scoring settings after flags and config file are merged.
type Config struct {
	Team         string
	BallsPerOver int
	MaxWickets   int
	HistoryOrder string
	Strict       bool
	Archive      bool
	ArchivePath  string
}

// HistoryConfig defines filters for archived innings.
type HistoryConfig struct {
	Team  string
	Since *time.Time
	Last  int
}

// InningsRecord captures a finished innings for the archive.
type InningsRecord struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Team         string
	BallsPerOver int
	TotalRuns    int
	Wickets      int
	Extras       int
	LegalBalls   int
	Deliveries   []Delivery
}

// Delivery is one archived ball. Over is zero-based, Seq is the position
// within the over including extras.
type Delivery struct {
	Over    int
	Seq     int
	Outcome string
}

// InningsSummary summarizes an archived innings for reporting.
type InningsSummary struct {
	InningsID    int64
	EndedAt      time.Time
	Team         string
	BallsPerOver int
	TotalRuns    int
	Wickets      int
	Extras       int
	LegalBalls   int
}

// OutcomeAggregate counts how often an outcome token was recorded.
type OutcomeAggregate struct {
	Outcome string
	Count   int
}
