package events

import "time"

const (
	ListExportedName    = "list.exported"
	ListFetchFailedName = "list.fetch.failed"
)

// FetchStage - что именно не удалось загрузить.
type FetchStage string

const (
	FetchStageRows    FetchStage = "rows"
	FetchStageOptions FetchStage = "options"
)

// ListExportedEvent - выгрузка видимой страницы (или всего набора при scope=all).
type ListExportedEvent struct {
	ExportID string
	List     string
	Format   string
	UserID   uint64
	Rows     int
	AllRows  bool
	At       time.Time
}

// Name - реализуем интерфейс eventbus.Event
func (e ListExportedEvent) Name() string {
	return ListExportedName
}

// ListFetchFailedEvent - загрузка строк или значений фильтра завершилась ошибкой.
type ListFetchFailedEvent struct {
	List   string
	Field  string
	Stage  FetchStage
	UserID uint64
	Err    error
	At     time.Time
}

func (e ListFetchFailedEvent) Name() string {
	return ListFetchFailedName
}
