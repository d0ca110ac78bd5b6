package models

import "time"

// User is the application record linked 1:1 to a Clerk user id.
type User struct {
	ID      string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ClerkID string  `gorm:"column:clerk_id;type:text;uniqueIndex;not null" json:"clerkId"`
	Name    *string `gorm:"column:name;type:text" json:"name,omitempty"`
	Email   string  `gorm:"column:email;type:text" json:"email"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updatedAt"`

	CVs []CV `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }
