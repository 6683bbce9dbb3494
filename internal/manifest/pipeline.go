package manifest

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/quantmind-br/assetmanifest/internal/domain"
)

const hotUpdateMarker = "hot-update"

// FilterFunc keeps records for which it returns true
type FilterFunc func(r domain.FileRecord) bool

// MapFunc transforms a record
type MapFunc func(r domain.FileRecord) domain.FileRecord

// SortFunc orders two records, returning a negative number when a sorts
// before b, zero when equal and a positive number otherwise.
type SortFunc func(a, b domain.FileRecord) int

// Pipeline filters and transforms collected records
type Pipeline struct {
	// OutputDir is the directory manifest names are resolved against when
	// dropping tracked manifests.
	OutputDir string
	// Tracked reports whether a path is a manifest target of any plugin
	Tracked    func(path string) bool
	BasePath   string
	PublicPath string
	Filter     FilterFunc
	Map        MapFunc
	Sort       SortFunc
}

// Run applies every stage in order
func (p Pipeline) Run(records []domain.FileRecord) []domain.FileRecord {
	records = DropHotUpdates(records)
	records = DropTracked(records, p.OutputDir, p.Tracked)
	records = PrefixNames(records, p.BasePath)
	records = PrefixPaths(records, p.PublicPath)
	records = NormalizeRecords(records)
	records = ApplyFilter(records, p.Filter)
	records = ApplyMap(records, p.Map)
	return ApplySort(records, p.Sort)
}

// DropHotUpdates removes hot-module-replacement update files
func DropHotUpdates(records []domain.FileRecord) []domain.FileRecord {
	return slices.DeleteFunc(records, func(r domain.FileRecord) bool {
		return strings.Contains(r.Path, hotUpdateMarker)
	})
}

// DropTracked removes records that name another manifest target
func DropTracked(records []domain.FileRecord, outputDir string, tracked func(string) bool) []domain.FileRecord {
	if tracked == nil {
		return records
	}
	return slices.DeleteFunc(records, func(r domain.FileRecord) bool {
		return tracked(filepath.Join(outputDir, r.Name))
	})
}

// PrefixNames prepends base to every record name
func PrefixNames(records []domain.FileRecord, base string) []domain.FileRecord {
	if base == "" {
		return records
	}
	for i := range records {
		records[i].Name = base + records[i].Name
	}
	return records
}

// PrefixPaths prepends publicPath to every record path
func PrefixPaths(records []domain.FileRecord, publicPath string) []domain.FileRecord {
	if publicPath == "" {
		return records
	}
	for i := range records {
		records[i].Path = publicPath + records[i].Path
	}
	return records
}

// ApplyFilter keeps the records accepted by fn
func ApplyFilter(records []domain.FileRecord, fn FilterFunc) []domain.FileRecord {
	if fn == nil {
		return records
	}
	return slices.DeleteFunc(records, func(r domain.FileRecord) bool {
		return !fn(r)
	})
}

// ApplyMap transforms every record with fn and normalizes the result
func ApplyMap(records []domain.FileRecord, fn MapFunc) []domain.FileRecord {
	if fn == nil {
		return records
	}
	for i := range records {
		records[i] = NormalizeRecord(fn(records[i]))
	}
	return records
}

// ApplySort stable-sorts the records with fn
func ApplySort(records []domain.FileRecord, fn SortFunc) []domain.FileRecord {
	if fn == nil {
		return records
	}
	slices.SortStableFunc(records, fn)
	return records
}

// SortByName orders records by name
func SortByName(a, b domain.FileRecord) int {
	return strings.Compare(a.Name, b.Name)
}

// SortByPath orders records by path
func SortByPath(a, b domain.FileRecord) int {
	return strings.Compare(a.Path, b.Path)
}
