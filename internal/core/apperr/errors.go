// Package apperr はドメイン全体で共有するエラー分類を定義します。
//
// 各ドメインパッケージの個別エラーはここで定義した分類をラップするため、
// 呼び出し側は errors.Is で個別エラーと分類のどちらでも判定できます。
package apperr

import "errors"

var (
	// ErrConflict は一意性や状態の衝突時に返却されます。
	ErrConflict = errors.New("conflict")
	// ErrNotFound は参照先が存在しない場合に返却されます。
	ErrNotFound = errors.New("not found")
	// ErrInvalidState は許可されていない状態遷移の場合に返却されます。
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidTimeRange は終了時刻が開始時刻より前の場合に返却されます。
	ErrInvalidTimeRange = errors.New("invalid time range")
	// ErrPermission はロールが操作を許可しない場合に返却されます。
	ErrPermission = errors.New("permission denied")
	// ErrStore は永続化層の失敗です。コアでは解釈しません。
	ErrStore = errors.New("store failure")
	// ErrInvalidArgument は入力値が不正な場合に返却されます。
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind は err が属する分類を返します。分類に属さない場合は nil です。
func Kind(err error) error {
	for _, kind := range []error{
		ErrPermission,
		ErrInvalidArgument,
		ErrInvalidTimeRange,
		ErrInvalidState,
		ErrConflict,
		ErrNotFound,
		ErrStore,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
