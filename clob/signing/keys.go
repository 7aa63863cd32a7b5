package signing

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"

	"github.com/betbot/goopinion/clob/types"
)

// PrivateKeyFromHex 从十六进制字符串解析私钥（可带 0x 前缀）
func PrivateKeyFromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, &types.SigningError{Msg: "invalid private key", Err: err}
	}
	return key, nil
}

// PrivateKeyFromMnemonic 从助记词派生私钥（标准以太坊路径 m/44'/60'/0'/0/index）
func PrivateKeyFromMnemonic(mnemonic string, index uint32) (*ecdsa.PrivateKey, error) {
	wallet, err := hdwallet.NewFromMnemonic(strings.TrimSpace(mnemonic))
	if err != nil {
		return nil, &types.SigningError{Msg: "invalid mnemonic", Err: err}
	}
	path, err := hdwallet.ParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", index))
	if err != nil {
		return nil, &types.SigningError{Msg: "derivation path", Err: err}
	}
	account, err := wallet.Derive(path, false)
	if err != nil {
		return nil, &types.SigningError{Msg: "derive account", Err: err}
	}
	key, err := wallet.PrivateKey(account)
	if err != nil {
		return nil, &types.SigningError{Msg: "export private key", Err: err}
	}
	return key, nil
}

// AddressFromPrivateKey 从私钥推导地址
func AddressFromPrivateKey(privateKey *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(privateKey.PublicKey)
}

// NormalizeAddress 校验并归一化地址为小写 0x 形式
func NormalizeAddress(address string) (string, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return "", types.NewInvalidParams("empty address")
	}
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		addr = "0x" + addr
	}
	if !common.IsHexAddress(addr) {
		return "", types.NewInvalidParams("invalid address %q", address)
	}
	return strings.ToLower(common.HexToAddress(addr).Hex()), nil
}
