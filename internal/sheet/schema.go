package sheet

import (
	"strings"

	"github.com/commune/fnbwatch/internal/model"
)

// カラム位置は上流スプレッドシートのスキーマとの契約である。
// シート側で列が並び替えられた場合に備え、マッピングはコードに散らさず
// スキーマ値の差し替えだけで追従できるようにしている。

// BusinessSchema は閉店・開店シートのカラム位置→フィールドのマッピングを表す。
// 存在しないカラムは-1を指定する。
type BusinessSchema struct {
	ID           int
	AddedAt      int
	BusinessName int
	OutletName   int
	Address      int
	PostalCode   int
	Category     int
	PrimaryDate  int // 閉店シートなら最終営業日、開店シートなら開店日
	Description  int
	SourceURLs   int
	Tags         int
	ImageURL     int
	Published    int

	// MinFields は有効な行に最低限必要なフィールド数。
	MinFields int

	// TrimFields がtrueの場合、全フィールドの前後空白を除去する。
	// 閉店・開店シートは歴史的にトリムしない（publishedのみトリム）。
	TrimFields bool
}

// DefaultBusinessSchema は現行の13カラムレイアウトのスキーマを返す。
func DefaultBusinessSchema() BusinessSchema {
	return BusinessSchema{
		ID:           0,
		AddedAt:      1,
		BusinessName: 2,
		OutletName:   3,
		Address:      4,
		PostalCode:   5,
		Category:     6,
		PrimaryDate:  7,
		Description:  8,
		SourceURLs:   9,
		Tags:         10,
		ImageURL:     11,
		Published:    12,
		MinFields:    3,
		TrimFields:   false,
	}
}

// LegacyBusinessSchema は郵便番号・画像URLカラムを持たない
// 旧11カラムレイアウトのスキーマを返す。
func LegacyBusinessSchema() BusinessSchema {
	return BusinessSchema{
		ID:           0,
		AddedAt:      1,
		BusinessName: 2,
		OutletName:   3,
		Address:      4,
		PostalCode:   -1,
		Category:     5,
		PrimaryDate:  6,
		Description:  7,
		SourceURLs:   8,
		Tags:         9,
		ImageURL:     -1,
		Published:    10,
		MinFields:    3,
		TrimFields:   false,
	}
}

// BusinessRow はスキーマ適用後の閉店・開店行の中間表現。
// trackerパッケージでClosureRecord / OpeningRecordに変換される。
type BusinessRow struct {
	ID           string
	AddedAt      string
	BusinessName string
	OutletName   string
	Address      string
	PostalCode   string
	Category     string
	PrimaryDate  string
	Description  string
	SourceURLs   string
	Tags         string
	ImageURL     string
	Published    bool
}

// ParseRow はパース済みフィールド列にスキーマを適用してBusinessRowを返す。
// フィールド数不足または店名欠落の行はfalseを返して破棄される。
func (s BusinessSchema) ParseRow(fields []string) (BusinessRow, bool) {
	if len(fields) < s.MinFields {
		return BusinessRow{}, false
	}

	get := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		if s.TrimFields {
			return strings.TrimSpace(fields[idx])
		}
		return fields[idx]
	}

	name := get(s.BusinessName)
	if name == "" {
		return BusinessRow{}, false
	}

	return BusinessRow{
		ID:           get(s.ID),
		AddedAt:      get(s.AddedAt),
		BusinessName: name,
		OutletName:   get(s.OutletName),
		Address:      get(s.Address),
		PostalCode:   get(s.PostalCode),
		Category:     get(s.Category),
		PrimaryDate:  get(s.PrimaryDate),
		Description:  get(s.Description),
		SourceURLs:   get(s.SourceURLs),
		Tags:         get(s.Tags),
		ImageURL:     get(s.ImageURL),
		Published:    IsPublished(get(s.Published)),
	}, true
}

// IsPublished は公開フラグのトークンを判定する。
// リテラルの "TRUE" / "true"（前後空白は無視）のみを公開として扱い、
// 空文字列を含むそれ以外の値はすべて非公開とする。
func IsPublished(value string) bool {
	v := strings.TrimSpace(value)
	return v == "TRUE" || v == "true"
}

// EventSchema はイベントシートのカラムマッピングを表す。
type EventSchema struct {
	ID       int
	Title    int
	Date     int
	Location int
	URL      int
	Source   int
}

// DefaultEventSchema は現行の7カラムレイアウト
// [id, title, date, location, url, source, scrapedAt] のスキーマを返す。
func DefaultEventSchema() EventSchema {
	return EventSchema{ID: 0, Title: 1, Date: 2, Location: 3, URL: 4, Source: 5}
}

// ParseRow はフィールド列からEventRecordを組み立てる。
// イベントシートは全フィールドをトリムする。
// タイトルまたはURLを欠く行はfalseを返して破棄される。
func (s EventSchema) ParseRow(fields []string) (model.EventRecord, bool) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	ev := model.EventRecord{
		ID:       get(s.ID),
		Title:    get(s.Title),
		Date:     get(s.Date),
		Location: get(s.Location),
		URL:      get(s.URL),
		Source:   get(s.Source),
	}
	if ev.Title == "" || ev.URL == "" {
		return model.EventRecord{}, false
	}
	return ev, true
}

// ArticleSchema は記事シートのカラムマッピングを表す。
type ArticleSchema struct {
	ID            int
	Title         int
	Source        int
	Author        int
	URL           int
	PublishedDate int
}

// DefaultArticleSchema は現行の7カラムレイアウト
// [id, title, source, author, url, publishedDate, scrapedAt] のスキーマを返す。
func DefaultArticleSchema() ArticleSchema {
	return ArticleSchema{ID: 0, Title: 1, Source: 2, Author: 3, URL: 4, PublishedDate: 5}
}

// ParseRow はフィールド列からArticleRecordを組み立てる。
// 記事シートは全フィールドをトリムする。
// タイトルまたはURLを欠く行はfalseを返して破棄される。
func (s ArticleSchema) ParseRow(fields []string) (model.ArticleRecord, bool) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	a := model.ArticleRecord{
		ID:            get(s.ID),
		Title:         get(s.Title),
		Source:        get(s.Source),
		Author:        get(s.Author),
		URL:           get(s.URL),
		PublishedDate: get(s.PublishedDate),
	}
	if a.Title == "" || a.URL == "" {
		return model.ArticleRecord{}, false
	}
	return a, true
}
