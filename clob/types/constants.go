package types

const (
	// DefaultChainID 默认链（BSC 主网）
	DefaultChainID = ChainBSC

	// ExchangeAddressBSC BSC 主网 CTF 交易所合约地址
	ExchangeAddressBSC = "0x5F45344126D6488025B0b84A3A8189F2487a7246"

	// CollateralTokenBSC BSC 主网抵押品代币（USDT）
	CollateralTokenBSC = "0x55d398326f99059fF775485246999027B3197955"

	// CollateralTokenDecimals 抵押品代币精度（USDT = 18）
	CollateralTokenDecimals = 18

	// DefaultAPIBaseURL 默认 API 入口
	DefaultAPIBaseURL = "https://proxy.opinion.trade:8443/api/bsc/api"

	// ZeroAddress 零地址（公开订单的 taker）
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// DefaultPriceDecimals 上游未给出时使用的价格精度
	DefaultPriceDecimals = 3

	// DefaultSizeDecimals 上游未给出时使用的份额精度
	DefaultSizeDecimals = 2
)
