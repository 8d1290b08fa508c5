// models/zone.go
package models

const (
	TableTimeZones   = "TZDB_TIMEZONES"
	TableZoneDetails = "TZDB_ZONE_DETAILS"
	TableErrorLog    = "TZDB_ERROR_LOG"
	TableStaging     = "TZDB_STAGING"
)

// Record is a row bound for one specific table. DateValue returns the content of
// that table's date column, which must be validated before insert.
type Record interface {
	TableName() string
	Columns() []string
	DateValue() string
}

// TimeZone is one entry of the zone list (TZDB_TIMEZONES).
type TimeZone struct {
	CountryCode string `db:"COUNTRYCODE" csv:"countryCode" json:"countryCode"`
	CountryName string `db:"COUNTRYNAME" csv:"countryName" json:"countryName"`
	ZoneName    string `db:"ZONENAME" csv:"zoneName" json:"zoneName"`
	GMTOffset   int64  `db:"GMTOFFSET" csv:"gmtOffset" json:"gmtOffset"`
	ImportDate  string `db:"IMPORT_DATE" csv:"importDate" json:"importDate"`
}

func (TimeZone) TableName() string { return TableTimeZones }

func (TimeZone) Columns() []string {
	return []string{"COUNTRYCODE", "COUNTRYNAME", "ZONENAME", "GMTOFFSET", "IMPORT_DATE"}
}

func (z TimeZone) DateValue() string { return z.ImportDate }

// ZoneDetail is one DST/offset interval of a zone (TZDB_ZONE_DETAILS).
// ZoneEnd is NULL when the API reports no end for the current interval.
type ZoneDetail struct {
	CountryCode string `db:"COUNTRYCODE" csv:"countryCode" json:"countryCode"`
	CountryName string `db:"COUNTRYNAME" csv:"countryName" json:"countryName"`
	ZoneName    string `db:"ZONENAME" csv:"zoneName" json:"zoneName"`
	GMTOffset   int64  `db:"GMTOFFSET" csv:"gmtOffset" json:"gmtOffset"`
	DST         int64  `db:"DST" csv:"dst" json:"dst"`
	ZoneStart   int64  `db:"ZONESTART" csv:"zoneStart" json:"zoneStart"`
	ZoneEnd     *int64 `db:"ZONEEND" csv:"zoneEnd" json:"zoneEnd"`
	ImportDate  string `db:"IMPORT_DATE" csv:"importDate" json:"importDate"`
}

func (ZoneDetail) TableName() string { return TableZoneDetails }

func (ZoneDetail) Columns() []string {
	return []string{"COUNTRYCODE", "COUNTRYNAME", "ZONENAME", "GMTOFFSET", "DST", "ZONESTART", "ZONEEND", "IMPORT_DATE"}
}

func (d ZoneDetail) DateValue() string { return d.ImportDate }

// StagedZoneDetail is a ZoneDetail buffered in TZDB_STAGING during a detail run.
type StagedZoneDetail struct {
	ZoneDetail
}

func (StagedZoneDetail) TableName() string { return TableStaging }

// ErrorLogEntry is an API failure recorded in TZDB_ERROR_LOG.
type ErrorLogEntry struct {
	ErrorDate    string `db:"ERROR_DATE" csv:"errorDate" json:"errorDate"`
	ErrorMessage string `db:"ERROR_MESSAGE" csv:"errorMessage" json:"errorMessage"`
}

func (ErrorLogEntry) TableName() string { return TableErrorLog }

func (ErrorLogEntry) Columns() []string { return []string{"ERROR_DATE", "ERROR_MESSAGE"} }

func (e ErrorLogEntry) DateValue() string { return e.ErrorDate }
