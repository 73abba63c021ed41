package metrics

import (
	"sort"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

// TitleEntry は職名ごとの分類結果と人数です。
type TitleEntry struct {
	Title      string
	Category   classify.RoleCategory
	Headcount  int
	Classified bool
}

// Catalog は職名一覧と分類の進捗です。
type Catalog struct {
	Titles     []TitleEntry
	Total      int
	Classified int
	Percent    float64
	ByCategory []GroupCount
}

// TitleCatalog は重複の無い職名一覧を人数の降順 (同数は職名昇順) で返します。
// 未分類系 (OUTROS / Não Classificado) 以外に解決された職名を分類済みとして数えます。
func TitleCatalog(records []roster.Record) Catalog {
	index := make(map[string]int)
	var titles []TitleEntry
	categories := newGrouper()

	for _, rec := range records {
		i, ok := index[rec.RoleTitle]
		if !ok {
			i = len(titles)
			index[rec.RoleTitle] = i
			titles = append(titles, TitleEntry{
				Title:      rec.RoleTitle,
				Category:   rec.RoleCategory,
				Classified: !rec.RoleCategory.IsFallback(),
			})
			categories.add(string(rec.RoleCategory), false)
		}
		titles[i].Headcount++
	}

	sort.SliceStable(titles, func(i, j int) bool {
		if titles[i].Headcount != titles[j].Headcount {
			return titles[i].Headcount > titles[j].Headcount
		}
		return titles[i].Title < titles[j].Title
	})

	catalog := Catalog{Titles: titles, Total: len(titles), ByCategory: categories.sorted()}
	for _, t := range titles {
		if t.Classified {
			catalog.Classified++
		}
	}
	catalog.Percent = ratio(catalog.Classified, catalog.Total) * 100
	if catalog.Titles == nil {
		catalog.Titles = []TitleEntry{}
	}
	return catalog
}
