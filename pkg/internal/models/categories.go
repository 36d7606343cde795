package models

type Tag struct {
	BaseModel

	Name  string `json:"name"`
	Slug  string `json:"slug" gorm:"uniqueIndex" validate:"lowercase"`
	Posts []Post `json:"posts,omitempty" gorm:"many2many:post_tags"`
}

type Category struct {
	BaseModel

	Name        string  `json:"name"`
	Slug        string  `json:"slug" gorm:"uniqueIndex" validate:"lowercase"`
	Description *string `json:"description"`
}
