package calendar

// Page — одна страница выдачи каталога вместе с признаками соседних страниц.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	HasNext  bool `json:"hasNext"`
	HasPrev  bool `json:"hasPrev"`
	Total    int  `json:"total"` // найдено до разбиения на страницы
}

// DefaultPageSize — сколько карточек провайдеров показывает поиск.
const DefaultPageSize = 10

// Paginate вырезает страницу page (с 1) из результатов поиска.
// Номер за пределами выдачи даёт пустую страницу; нулевые page и pageSize
// заменяются на первую страницу и DefaultPageSize.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page = max(page, 1)

	total := len(items)
	from := min((page-1)*pageSize, total)
	to := min(from+pageSize, total)

	return Page[T]{
		Items:    append(make([]T, 0, to-from), items[from:to]...),
		Page:     page,
		PageSize: pageSize,
		HasNext:  to < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
