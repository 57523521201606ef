// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// 外部データ取得の失敗はフェイルオープンで空結果に縮退するため、
// APIErrorが返るのはリクエスト自体が不正な場合に限られる。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidQuery   = "INVALID_QUERY"
	ErrCodeUnknownDataset = "UNKNOWN_DATASET"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// NewInvalidQueryError は無効なクエリパラメータエラーを生成する。
func NewInvalidQueryError(param, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidQuery,
		Message:  fmt.Sprintf("クエリパラメータ %s が不正です: %s", param, reason),
		Category: "validation",
		Action:   "パラメータの形式を確認してください。",
	}
}

// NewUnknownDatasetError は未知のデータセット指定エラーを生成する。
func NewUnknownDatasetError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownDataset,
		Message:  fmt.Sprintf("未知のデータセットです: %s", name),
		Category: "validation",
		Action:   "dataset には closures または openings を指定してください。",
	}
}
