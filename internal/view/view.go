// Package view は取得済みレコード集合に対する派生ビューを提供する。
// すべて純粋関数であり、ネットワークアクセスや入力の破壊的変更は行わない。
// 派生結果は常に新しいスライスとして返される。
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/commune/fnbwatch/internal/model"
)

// Record は派生ビューの対象となるレコードのインターフェース。
// model.ClosureRecord と model.OpeningRecord が実装する。
type Record interface {
	// PrimaryDate はドメイン上の主要日付（最終営業日・開店日）の生値を返す。
	PrimaryDate() string
	// AddedDate はシート追加日時の生値を返す。
	AddedDate() string
	// Field はソート対象フィールドの生値を返す。
	Field(name string) string
	// SearchableText は自由テキスト検索の対象フィールド値を返す。
	SearchableText() []string
}

// Direction はソート方向を表す。
type Direction string

const (
	// Asc は昇順。
	Asc Direction = "asc"
	// Desc は降順。
	Desc Direction = "desc"
)

// dateLayouts は日付生値のパースに試行するレイアウト。
// スプレッドシートの手入力とタイムスタンプの両方を受け付ける。
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2/1/2006",
	"2/1/2006 15:04:05",
}

// ParseDate は日付生値をパースする。
// どのレイアウトにも一致しない場合はfalseを返す。
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// representativeRaw はレコードの代表日付の生値を返す。
// 主要日付が空でなければそれを優先し、空ならば追加日時にフォールバックする。
func representativeRaw(r Record) string {
	if p := r.PrimaryDate(); p != "" {
		return p
	}
	return r.AddedDate()
}

// representativeTime は代表日付をパースして返す。
// パース不能な場合はゼロ値（最古扱い）とfalseを返す。
func representativeTime(r Record) (time.Time, bool) {
	return ParseDate(representativeRaw(r))
}

// Recent は代表日付の降順で先頭n件を返す。
// パース不能な日付を持つレコードは最古として末尾に回る。同順は元の相対順を保つ。
func Recent[T Record](records []T, n int) []T {
	if n <= 0 {
		return []T{}
	}

	sorted := make([]T, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := representativeTime(sorted[i])
		tj, _ := representativeTime(sorted[j])
		return ti.After(tj)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// MonthlyCounts は期間キーごとの件数を集計する。
// 各レコードは代表日付の年キー（"YYYY"）と年月キー（"YYYY-MM"）の
// 両方にちょうど1回ずつ寄与する。代表日付がパースできないレコードは
// 集計から除外される。
func MonthlyCounts[T Record](records []T) model.MonthlyCounts {
	counts := model.MonthlyCounts{}

	for _, r := range records {
		t, ok := representativeTime(r)
		if !ok {
			continue
		}
		counts[t.Format("2006")]++
		counts[t.Format("2006-01")]++
	}

	return counts
}

// AvailableYears は解決可能な日付に現れる年を降順（新しい順）で返す。
func AvailableYears[T Record](records []T) []string {
	seen := map[string]bool{}
	for _, r := range records {
		if t, ok := representativeTime(r); ok {
			seen[t.Format("2006")] = true
		}
	}

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// Search は大文字小文字を区別しない部分一致で絞り込む。
// いずれかの検索対象フィールドに一致すればレコードは結果に含まれる（OR）。
// 空の検索語は全件をそのまま返す。
func Search[T Record](records []T, term string) []T {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return records
	}

	matched := make([]T, 0)
	for _, r := range records {
		for _, field := range r.SearchableText() {
			if strings.Contains(strings.ToLower(field), term) {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched
}

// dateFields は日付として比較するソートフィールド名。
var dateFields = map[string]bool{
	"date":     true,
	"added_at": true,
}

// Sort は指定フィールドで安定ソートした新しいスライスを返す。
// 日付フィールドはパース済み日付として比較し（パース不能は最古扱い）、
// 文字列フィールドは大文字小文字を区別せず比較する。
// 同値の組は元の相対順を保つ。
func Sort[T Record](records []T, field string, dir Direction) []T {
	sorted := make([]T, len(records))
	copy(sorted, records)

	less := func(a, b T) bool {
		if dateFields[field] {
			ta, _ := ParseDate(a.Field(field))
			tb, _ := ParseDate(b.Field(field))
			return ta.Before(tb)
		}
		return strings.ToLower(a.Field(field)) < strings.ToLower(b.Field(field))
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if dir == Desc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// Paginate は1始まりのページ番号でスライス [(page-1)*pageSize, page*pageSize) を返す。
// 範囲外のページはエラーにならず空スライスを返す。
func Paginate[T any](records []T, pageSize, page int) []T {
	if pageSize <= 0 || page <= 0 {
		return []T{}
	}

	start := (page - 1) * pageSize
	if start >= len(records) {
		return []T{}
	}

	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// TotalPages は総ページ数 ceil(count / pageSize) を返す。
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
