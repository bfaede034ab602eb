package models

// Follows is a directed edge: UserFollowingID follows UserBeingFollowedID.
type Follows struct {
	UserBeingFollowedID uint `json:"user_being_followed_id" gorm:"primaryKey;autoIncrement:false"`
	UserFollowingID     uint `json:"user_following_id" gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName overrides the table name used by GORM.
func (Follows) TableName() string {
	return "follows"
}
