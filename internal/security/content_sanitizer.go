// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ExcerptSanitizerService はRSSストーリーの抜粋HTMLをサニタイズし、
// 外部フィード由来のマークアップをそのままAPIレスポンスに載せても
// 安全な形に落とす。bluemondayライブラリの許可リストベースのポリシーで、
// 限られたインラインタグのみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ExcerptSanitizerService はHTML抜粋のサニタイズ機能のインターフェースを定義する。
type ExcerptSanitizerService interface {
	// Sanitize は抜粋HTMLをサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, a, strong, em）のみを通過させ、
	// script, iframe, style, imgタグおよびon*イベント属性を除去する。
	// aタグにはtarget="_blank"とrel="noopener noreferrer"が自動付与される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

// excerptSanitizer はExcerptSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type excerptSanitizer struct {
	policy *bluemonday.Policy
}

// NewExcerptSanitizer はExcerptSanitizerServiceの新しいインスタンスを生成する。
// 抜粋はカード表示用の短いテキストであり、画像やリスト等のブロック要素は
// 許可しない。画像はStoryのImageURLフィールドとして別経路で扱われる。
func NewExcerptSanitizer() *excerptSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "br", "strong", "em")

	// aタグ: href属性のみ許可し、外部リンクとして安全な属性を強制付与する
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AllowURLSchemes("http", "https")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &excerptSanitizer{
		policy: p,
	}
}

// Sanitize は抜粋HTMLをサニタイズして安全なHTMLを返す。
func (s *excerptSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
