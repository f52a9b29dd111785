package domain

// ResultItem represents a single search hit produced by a provider
type ResultItem struct {
	UUID             string // stable per logical hit
	ProviderID       string
	Weight           int // opaque relevance, higher is better
	IsCommand        bool
	PresentationText string
	Path             string // file or repository path, "" for commands
	Run              string // shell command for command items
}

// Row is one entry of a result list: either an ItemRow or the LoadingRow
type Row interface {
	isRow()
}

// ItemRow holds a reference to a result item
type ItemRow struct {
	Item *ResultItem
}

// LoadingRow is the trailing "more results are coming" marker
type LoadingRow struct{}

func (ItemRow) isRow()    {}
func (LoadingRow) isRow() {}

// LoadingIndicator is the only LoadingRow value used in result lists
var LoadingIndicator Row = LoadingRow{}

// RowItem returns the item of an ItemRow, or nil for any other row
func RowItem(row Row) *ResultItem {
	if r, ok := row.(ItemRow); ok {
		return r.Item
	}
	return nil
}

// IsLoadingRow reports whether row is the loading indicator
func IsLoadingRow(row Row) bool {
	_, ok := row.(LoadingRow)
	return ok
}

// SearchProgress represents the state of the running query
type SearchProgress struct {
	IsSearching     bool
	Pattern         string
	ActiveProviders int
}
