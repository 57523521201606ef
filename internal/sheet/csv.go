// Package sheet はスプレッドシートのCSV公開エンドポイントからの
// データ取得とパースを提供する。
// 行パーサー、レコード種別ごとのカラムスキーマ、フェイルオープンな
// HTTPクライアントを含む。
package sheet

import "strings"

// ParseLine はCSV1行をフィールド値の列にトークナイズする。
//
// ダブルクォートはクォートモードをトグルする。ただしクォート内で
// ダブルクォートが連続する場合（""）はリテラルの1文字として出力し、
// 両方を消費する。カンマはクォート外でのみフィールド区切りとなる。
// 最終フィールドは走査終了後に出力される（末尾の区切りは不要）。
//
// エラーは一切発生しない。不正なクォートは状態機械の結果のまま
// 緩やかに縮退する。
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	insideQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		switch {
		case ch == '"':
			if insideQuotes && i+1 < len(line) && line[i+1] == '"' {
				// エスケープされたクォート
				current.WriteByte('"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case ch == ',' && !insideQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	fields = append(fields, current.String())
	return fields
}

// SplitRows はCSVテキスト全体を行に分割し、空行とヘッダー行を除いた
// データ行を返す。各行はまだパースされていない生テキスト。
func SplitRows(csvText string) []string {
	var lines []string
	for _, line := range strings.Split(csvText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	if len(lines) < 2 {
		return nil
	}
	// 先頭行はヘッダー
	return lines[1:]
}
