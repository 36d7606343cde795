package models

type Comment struct {
	BaseModel

	PostID   uint    `json:"post_id" gorm:"index"`
	AuthorID uint    `json:"author_id" gorm:"index"`
	Author   Profile `json:"author" gorm:"foreignKey:AuthorID"`
	Content  string  `json:"content"`
	ParentID *uint   `json:"parent_id"`
	IsEdited bool    `json:"is_edited"`

	// ClientKey identifies a provisional comment that has not been confirmed yet.
	ClientKey string `json:"client_key,omitempty" gorm:"-"`
}

func (v Comment) IsProvisional() bool {
	return len(v.ClientKey) > 0 && v.ID == 0
}
