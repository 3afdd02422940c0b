package model

// Category — раздел закладок. Иерархия не глубже двух уровней:
// категория с непустым ParentID сама не может быть родителем.
type Category struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	ParentID *int64 `gorm:"index" json:"parent_id"`
	Position int    `gorm:"not null;default:0" json:"position"`
}
