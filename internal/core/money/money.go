// Package money は固定小数点の金額演算と表示用フォーマットを提供します。
package money

import (
	"fmt"
	"strings"

	"github.com/ogurasousui/attendance-payroll/internal/core/apperr"
	"github.com/shopspring/decimal"
)

// Scale は金額の小数桁数です。
const Scale = 2

var (
	// ErrNegativeAmount は負の金額が指定された場合に返却されます。
	ErrNegativeAmount = fmt.Errorf("money: negative amount: %w", apperr.ErrInvalidArgument)
	// ErrInvalidAmount は金額として解釈できない場合に返却されます。
	ErrInvalidAmount = fmt.Errorf("money: invalid amount: %w", apperr.ErrInvalidArgument)
)

// Sum は金額を誤差なく合計します。
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Parse は文字列を金額に変換します。空文字列は 0 として扱います。
func Parse(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return NonNegative(d)
}

// NonNegative は金額が 0 以上であることを確認し、小数桁を揃えて返します。
func NonNegative(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if !d.Equal(d.Round(Scale)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// String は永続化・通信用の固定桁表現を返します。
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Format は通貨記号と桁区切り付きの表示用文字列を返します。
func Format(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(Scale)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
