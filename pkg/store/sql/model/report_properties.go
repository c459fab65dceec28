package model

// ReportProperty mapped from table <report_properties>.
type ReportProperty struct {
	ReportID int64  `gorm:"column:report_id;primaryKey"`
	Section  string `gorm:"column:section;primaryKey"`
	Key      string `gorm:"column:key;primaryKey"`
	Value    string `gorm:"column:value"`
}

func (ReportProperty) TableName() string {
	return "report_properties"
}
