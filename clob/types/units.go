package types

import "github.com/shopspring/decimal"

// ToWei 把十进制金额换算为抵押品最小单位（1e18）
func ToWei(v decimal.Decimal) decimal.Decimal {
	return v.Shift(CollateralTokenDecimals)
}

// FromWei 把抵押品最小单位换算回十进制金额
func FromWei(v decimal.Decimal) decimal.Decimal {
	return v.Shift(-CollateralTokenDecimals)
}
