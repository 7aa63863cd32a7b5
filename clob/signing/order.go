package signing

import (
	"crypto/ecdsa"
	"crypto/rand"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gomath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/betbot/goopinion/clob/types"
)

// Order 用于签名的订单结构，字段顺序与链上 Order schema 一致
type Order struct {
	Salt          int64
	Maker         string
	Signer        string
	Taker         string
	TokenID       *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
	Expiration    *big.Int
	Nonce         *big.Int
	FeeRateBps    *big.Int
	Side          types.Side
	SignatureType types.SignatureType
}

// NewSalt 生成随机 salt。每个订单一个，防止订单哈希碰撞和重放
func NewSalt() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, &types.SigningError{Msg: "generate salt", Err: err}
	}
	return n.Int64(), nil
}

// orderTypedData 构建订单的 EIP712 TypedData
func orderTypedData(chainID types.Chain, exchangeAddress string, order *Order) apitypes.TypedData {
	domain := apitypes.TypedDataDomain{
		Name:              OrderDomainName,
		Version:           OrderDomainVersion,
		ChainId:           gomath.NewHexOrDecimal256(int64(chainID)),
		VerifyingContract: exchangeAddress,
	}

	typeDefs := apitypes.Types{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		"Order": {
			{Name: "salt", Type: "uint256"},
			{Name: "maker", Type: "address"},
			{Name: "signer", Type: "address"},
			{Name: "taker", Type: "address"},
			{Name: "tokenId", Type: "uint256"},
			{Name: "makerAmount", Type: "uint256"},
			{Name: "takerAmount", Type: "uint256"},
			{Name: "expiration", Type: "uint256"},
			{Name: "nonce", Type: "uint256"},
			{Name: "feeRateBps", Type: "uint256"},
			{Name: "side", Type: "uint8"},
			{Name: "signatureType", Type: "uint8"},
		},
	}

	message := map[string]interface{}{
		"salt":          big.NewInt(order.Salt),
		"maker":         common.HexToAddress(order.Maker).Hex(),
		"signer":        common.HexToAddress(order.Signer).Hex(),
		"taker":         common.HexToAddress(order.Taker).Hex(),
		"tokenId":       order.TokenID,
		"makerAmount":   order.MakerAmount,
		"takerAmount":   order.TakerAmount,
		"expiration":    order.Expiration,
		"nonce":         order.Nonce,
		"feeRateBps":    order.FeeRateBps,
		"side":          big.NewInt(int64(order.Side.WireValue())),
		"signatureType": big.NewInt(int64(order.SignatureType)),
	}

	return apitypes.TypedData{
		Types:       typeDefs,
		PrimaryType: "Order",
		Domain:      domain,
		Message:     message,
	}
}

// OrderHash 计算订单的 EIP712 哈希。
// 给定相同输入（含 salt）结果逐字节可复现
func OrderHash(chainID types.Chain, exchangeAddress string, order *Order) ([]byte, error) {
	typedData := orderTypedData(chainID, exchangeAddress, order)
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, &types.SigningError{Msg: "eip712 hash", Err: err}
	}
	return hash, nil
}

// SignOrder 对订单做 EIP712 签名，返回 0x 前缀的 65 字节签名。
// 私钥仅在本次调用内使用，不做任何保留
func SignOrder(privateKey *ecdsa.PrivateKey, chainID types.Chain, exchangeAddress string, order *Order) (string, error) {
	if privateKey == nil {
		return "", &types.SigningError{Msg: "nil private key"}
	}
	hash, err := OrderHash(chainID, exchangeAddress, order)
	if err != nil {
		return "", err
	}
	signature, err := crypto.Sign(hash, privateKey)
	if err != nil {
		return "", &types.SigningError{Msg: "sign order", Err: err}
	}
	return "0x" + common.Bytes2Hex(signature), nil
}

// RecoverOrderSigner 从签名恢复签名者地址，验证无需私钥
func RecoverOrderSigner(chainID types.Chain, exchangeAddress string, order *Order, signature string) (common.Address, error) {
	hash, err := OrderHash(chainID, exchangeAddress, order)
	if err != nil {
		return common.Address{}, err
	}
	sig := common.FromHex(signature)
	if len(sig) != 65 {
		return common.Address{}, &types.SigningError{Msg: "signature must be 65 bytes"}
	}
	// crypto.SigToPub 期望 v 在 0/1，链上格式是 27/28
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, &types.SigningError{Msg: "recover signer", Err: err}
	}
	return crypto.PubkeyToAddress(*pub), nil
}
