package healthdata

// SourceMetadata describes the remote workbook. It is informational
// only: the query engine never reads it.
type SourceMetadata struct {
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime"`
	Size         int64  `json:"size"`
}
