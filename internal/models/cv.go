package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type CV struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"column:user_id;type:uuid;index;not null" json:"userId"`
	Name     string `gorm:"column:name;type:text" json:"name"`
	FileName string `gorm:"column:file_name;type:text" json:"fileName"`

	FileBuffer []byte `gorm:"column:file_buffer;type:bytea" json:"-"`
	FileSize   int    `gorm:"column:file_size;type:integer" json:"fileSize"`
	MimeType   string `gorm:"column:mime_type;type:text" json:"mimeType"`
	FilePath   string `gorm:"column:file_path;type:text" json:"-"` // object key, empty without a bucket

	// NULL when extraction did not succeed in the creating request.
	ExtractedCV  datatypes.JSON `gorm:"column:extracted_cv;type:jsonb" json:"-"`
	Technologies pq.StringArray `gorm:"column:technologies;type:text[]" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"createdAt"`
}

func (CV) TableName() string { return "cvs" }

// SetExtracted stores the payload and its denormalised technology list.
func (c *CV) SetExtracted(e *ExtractedCV) error {
	if e == nil {
		c.ExtractedCV = nil
		c.Technologies = nil
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	c.ExtractedCV = datatypes.JSON(b)
	c.Technologies = pq.StringArray(e.Technologies)
	return nil
}

// Extracted decodes the stored payload; nil when the column is NULL.
func (c *CV) Extracted() (*ExtractedCV, error) {
	if len(c.ExtractedCV) == 0 || string(c.ExtractedCV) == "null" {
		return nil, nil
	}
	var e ExtractedCV
	if err := json.Unmarshal(c.ExtractedCV, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
