package client

import (
	"fmt"

	"github.com/betbot/goopinion/clob/types"
)

// ContractConfig 合约配置
type ContractConfig struct {
	Exchange           string // CTF 交易所合约地址
	Collateral         string // 抵押品代币地址
	CollateralDecimals int    // 抵押品代币精度
}

// bscMainnetContracts BSC 主网合约地址
var bscMainnetContracts = ContractConfig{
	Exchange:           types.ExchangeAddressBSC,
	Collateral:         types.CollateralTokenBSC,
	CollateralDecimals: types.CollateralTokenDecimals,
}

// GetContractConfig 根据链 ID 获取合约配置
func GetContractConfig(chainID types.Chain) (*ContractConfig, error) {
	switch chainID {
	case types.ChainBSC:
		return &bscMainnetContracts, nil
	default:
		return nil, &types.ConfigMismatchError{
			Msg: fmt.Sprintf("unsupported chain id %d", chainID),
		}
	}
}
