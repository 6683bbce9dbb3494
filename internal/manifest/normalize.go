package manifest

import (
	"strings"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

// NormalizeRecord rewrites every backslash in the record's name and path
// to a forward slash.
func NormalizeRecord(r domain.FileRecord) domain.FileRecord {
	r.Name = strings.ReplaceAll(r.Name, `\`, "/")
	r.Path = strings.ReplaceAll(r.Path, `\`, "/")
	return r
}

// NormalizeRecords applies NormalizeRecord to each record in place
func NormalizeRecords(records []domain.FileRecord) []domain.FileRecord {
	for i := range records {
		records[i] = NormalizeRecord(records[i])
	}
	return records
}
