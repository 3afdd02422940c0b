package model

// Bookmark — закладка внутри категории. Position задаёт порядок
// внутри своей категории; после операций движка позиции образуют 1..N.
type Bookmark struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	URL         string `gorm:"column:url;not null" json:"url"`
	Description string `json:"description"`
	CategoryID  int64  `gorm:"not null;index" json:"category_id"`
	Position    int    `gorm:"not null;default:0" json:"position"`
}
