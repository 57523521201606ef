package tracker

import "github.com/commune/fnbwatch/internal/model"

// Registry は閉店・開店の両データセットを単一の所有者として保持する。
// 閉店/開店のトグルはビューごとに状態を複製せず、このレジストリへの
// キー指定で解決する。生成後は読み取り専用。
type Registry struct {
	closures *ClosureSource
	openings *OpeningSource
}

// NewRegistry はRegistryの新しいインスタンスを生成する。
func NewRegistry(closures *ClosureSource, openings *OpeningSource) *Registry {
	return &Registry{
		closures: closures,
		openings: openings,
	}
}

// Closures は閉店データセットのソースを返す。
func (r *Registry) Closures() *ClosureSource { return r.closures }

// Openings は開店データセットのソースを返す。
func (r *Registry) Openings() *OpeningSource { return r.openings }

// Valid はデータセットキーが既知かどうかを返す。
func (r *Registry) Valid(kind model.DatasetKind) bool {
	return kind == model.DatasetClosures || kind == model.DatasetOpenings
}
