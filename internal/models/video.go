package models

// Video is a single video record. The ID is supplied by the client and is
// never generated by the database.
type Video struct {
	ID    int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name  string `json:"name" gorm:"not null"`
	Views int64  `json:"views" gorm:"not null"`
	Likes int64  `json:"likes" gorm:"not null"`
}

// TableName pins the table name so it does not depend on gorm's pluralizer.
func (Video) TableName() string {
	return "videos"
}
