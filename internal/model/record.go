// Package model はドメインモデルを定義する。
package model

// DatasetKind は閉店・開店のどちらのデータセットかを表す。
type DatasetKind string

const (
	// DatasetClosures は閉店データセット。
	DatasetClosures DatasetKind = "closures"
	// DatasetOpenings は開店データセット。
	DatasetOpenings DatasetKind = "openings"
)

// ClosureRecord は報告された飲食店の閉店1件を表す。
// スプレッドシートの公開済み行からパースされ、生成後は変更されない。
type ClosureRecord struct {
	ID           string
	AddedAt      string // シートに追加された日時の生値
	BusinessName string
	OutletName   string
	Address      string
	PostalCode   string // 6桁。空の場合あり
	Category     string
	LastDay      string // 最終営業日の生値。空・パース不能の場合あり
	Description  string
	SourceURLs   string // カンマ区切りのURLリスト
	Tags         string // カンマ区切り
	ImageURL     string
	Published    bool
}

// PrimaryDate はドメイン上の主要日付（最終営業日）の生値を返す。
func (c ClosureRecord) PrimaryDate() string { return c.LastDay }

// AddedDate はシート追加日時の生値を返す。
func (c ClosureRecord) AddedDate() string { return c.AddedAt }

// Field は指定フィールド名の生値を返す。未知のフィールド名には空文字列を返す。
func (c ClosureRecord) Field(name string) string {
	switch name {
	case "business_name":
		return c.BusinessName
	case "outlet_name":
		return c.OutletName
	case "address":
		return c.Address
	case "category":
		return c.Category
	case "date":
		return c.LastDay
	case "added_at":
		return c.AddedAt
	default:
		return ""
	}
}

// SearchableText は自由テキスト検索の対象となるフィールド値を返す。
func (c ClosureRecord) SearchableText() []string {
	return []string{c.BusinessName, c.OutletName, c.Address, c.Category, c.Description}
}

// OpeningRecord は新規開店1件を表す。
// ClosureRecordと同じ構造で、最終営業日の代わりに開店日を持つ。
type OpeningRecord struct {
	ID           string
	AddedAt      string
	BusinessName string
	OutletName   string
	Address      string
	PostalCode   string
	Category     string
	OpeningDate  string // 開店日の生値
	Description  string
	SourceURLs   string
	Tags         string
	ImageURL     string
	Published    bool
}

// PrimaryDate はドメイン上の主要日付（開店日）の生値を返す。
func (o OpeningRecord) PrimaryDate() string { return o.OpeningDate }

// AddedDate はシート追加日時の生値を返す。
func (o OpeningRecord) AddedDate() string { return o.AddedAt }

// Field は指定フィールド名の生値を返す。未知のフィールド名には空文字列を返す。
func (o OpeningRecord) Field(name string) string {
	switch name {
	case "business_name":
		return o.BusinessName
	case "outlet_name":
		return o.OutletName
	case "address":
		return o.Address
	case "category":
		return o.Category
	case "date":
		return o.OpeningDate
	case "added_at":
		return o.AddedAt
	default:
		return ""
	}
}

// SearchableText は自由テキスト検索の対象となるフィールド値を返す。
func (o OpeningRecord) SearchableText() []string {
	return []string{o.BusinessName, o.OutletName, o.Address, o.Category, o.Description}
}

// EventRecord はF&B関連イベント1件を表す。
type EventRecord struct {
	ID       string
	Title    string
	Date     string // ISO日付文字列またはリテラル "TBA"
	Location string
	URL      string
	Source   string
}

// ArticleRecord はキュレーション済み記事1件を表す。
type ArticleRecord struct {
	ID            string
	Title         string
	Source        string
	Author        string
	URL           string
	PublishedDate string
}

// MonthlyCounts は期間キー（"YYYY" または "YYYY-MM"）から件数へのマッピング。
// 各レコードは年キーと年月キーの両方にちょうど1回ずつ寄与する。
type MonthlyCounts map[string]int

// Coordinates は郵便番号の解決結果の座標を表す。
// 解決できなかった場合はマップから除外され、ゼロ座標で代用されることはない。
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Series はRSSストーリーの編集カテゴリを表す。
type Series string

const (
	// SeriesBurntEnd は閉店分析の長編シリーズ。
	SeriesBurntEnd Series = "burnt-end"
	// SeriesGoodBites は新店紹介シリーズ。
	SeriesGoodBites Series = "good-bites"
	// SeriesOffMenu は番外編シリーズ。
	SeriesOffMenu Series = "off-menu"
)

// Story はRSSフィードから取得した編集ストーリー1件を表す。
type Story struct {
	ID          string
	Title       string // シリーズ接頭辞を除去済み
	Excerpt     string // サニタイズ済みHTML
	URL         string
	ImageURL    string
	PublishedAt string
	Series      Series
}
