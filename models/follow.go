package models

import "time"

// Follow records that FollowerID follows FollowingID. The pair is
// unique; following twice toggles the relation off.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follows_pair"`
	FollowingID uint      `json:"following_id" gorm:"not null;uniqueIndex:idx_follows_pair"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
