package domain

type ImportAction string

const (
	ImportActionAdd    ImportAction = "add"
	ImportActionUpdate ImportAction = "update"
	ImportActionSkip   ImportAction = "skip"
)

// ImportRow is one parsed data row of a bulk import file. Row is 1-based and
// counts data rows only (the header is not a row).
type ImportRow struct {
	Row     int          `json:"row"`
	Product Product      `json:"product"`
	Exists  bool         `json:"exists"`
	Action  ImportAction `json:"action"`
}

type ImportResult struct {
	Added   int         `json:"added"`
	Updated int         `json:"updated"`
	Skipped int         `json:"skipped"`
	Rows    []ImportRow `json:"rows"`
}
