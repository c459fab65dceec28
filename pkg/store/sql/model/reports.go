package model

import "github.com/metadatax/mediainfobot/pkg/store"

// Report mapped from table <reports>.
type Report struct {
	ID           int64  `gorm:"column:report_id;primaryKey;autoIncrement:true"`
	FileUniqueID string `gorm:"column:file_unique_id;index;not null"`
	FileName     string `gorm:"column:file_name"`
	FileSize     int64  `gorm:"column:file_size"`
	MimeType     string `gorm:"column:mime_type"`
	MediaType    string `gorm:"column:media_type"`
	ChatID       int64  `gorm:"column:chat_id"`
	MessageID    int64  `gorm:"column:message_id"`
	TelegraphURL string `gorm:"column:telegraph_url"`
	Created      int64  `gorm:"column:created"`
	Properties   []ReportProperty
}

func (Report) TableName() string {
	return "reports"
}

func (r Report) ToEntity() *store.Report {
	properties := make([]store.Property, 0, len(r.Properties))
	for _, property := range r.Properties {
		properties = append(properties, store.Property{
			Section: property.Section,
			Key:     property.Key,
			Value:   property.Value,
		})
	}

	return &store.Report{
		ID:           r.ID,
		FileUniqueID: r.FileUniqueID,
		FileName:     r.FileName,
		FileSize:     r.FileSize,
		MimeType:     r.MimeType,
		MediaType:    r.MediaType,
		ChatID:       r.ChatID,
		MessageID:    r.MessageID,
		TelegraphURL: r.TelegraphURL,
		Created:      r.Created,
		Properties:   properties,
	}
}

func NewReportFromEntity(entity *store.Report) Report {
	report := Report{
		FileUniqueID: entity.FileUniqueID,
		FileName:     entity.FileName,
		FileSize:     entity.FileSize,
		MimeType:     entity.MimeType,
		MediaType:    entity.MediaType,
		ChatID:       entity.ChatID,
		MessageID:    entity.MessageID,
		TelegraphURL: entity.TelegraphURL,
		Created:      entity.Created,
	}

	report.Properties = make([]ReportProperty, 0, len(entity.Properties))
	for _, property := range entity.Properties {
		report.Properties = append(report.Properties, ReportProperty{
			Section: property.Section,
			Key:     property.Key,
			Value:   property.Value,
		})
	}

	return report
}
