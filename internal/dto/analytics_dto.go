package dto

import "time"

type DayCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

type SportCount struct {
	Sport string `json:"sport"`
	Count int64  `json:"count"`
}

type TopEvent struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Sport            string `json:"sport"`
	ParticipantCount int64  `json:"participant_count"`
}

type AnalyticsReport struct {
	TotalUsers          int64            `json:"total_users"`
	ActiveUsers         int64            `json:"active_users"`
	TotalEvents         int64            `json:"total_events"`
	EventsByStatus      map[string]int64 `json:"events_by_status"`
	TotalParticipations int64            `json:"total_participations"`
	UserGrowth          []DayCount       `json:"user_growth"`
	EventGrowth         []DayCount       `json:"event_growth"`
	TopSports           []SportCount     `json:"top_sports"`
	TopEvents           []TopEvent       `json:"top_events"`
	From                time.Time        `json:"from"`
	To                  time.Time        `json:"to"`
}
