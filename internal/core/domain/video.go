package domain

import "time"

type Video struct {
	ID          string
	Title       string
	PublishedAt time.Time
}

// VideoStats holds engagement counters for a single video. Counters the API
// omits are left at zero.
type VideoStats struct {
	VideoID  string
	Views    uint64
	Likes    uint64
	Comments uint64
	Duration time.Duration
}

// Row is a listed video joined with its statistics.
type Row struct {
	Video
	Views    uint64
	Likes    uint64
	Comments uint64
	Duration time.Duration
}
