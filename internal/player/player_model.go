package player

import "gorm.io/gorm"

// Player holds a registered player's career record. A Player row is created
// the first time a username registers or takes part in a match; match
// conclusion updates the counters.
type Player struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	TotalMatches int    `gorm:"default:0" json:"total_matches"`
	Wins         int    `gorm:"default:0" json:"wins"`
	Losses       int    `gorm:"default:0" json:"losses"`
}
