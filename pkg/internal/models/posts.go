package models

type Post struct {
	BaseModel

	Title      string  `json:"title"`
	Slug       string  `json:"slug" gorm:"uniqueIndex"`
	Content    string  `json:"content"`
	Excerpt    string  `json:"excerpt"`
	CoverImage *string `json:"cover_image"`
	Language   string  `json:"language"`

	Published bool `json:"published" gorm:"index"`
	Featured  bool `json:"featured"`

	// Maintained by the like and comment triggers, never written by the client.
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`

	AuthorID   uint      `json:"author_id" gorm:"index"`
	Author     Profile   `json:"author" gorm:"foreignKey:AuthorID"`
	CategoryID *uint     `json:"category_id"`
	Category   *Category `json:"category"`
	Tags       []Tag     `json:"tags" gorm:"many2many:post_tags"`

	IsLiked      bool `json:"is_liked" gorm:"-"`
	IsBookmarked bool `json:"is_bookmarked" gorm:"-"`
}
