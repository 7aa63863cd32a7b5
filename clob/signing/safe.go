package signing

import "strings"

// EncodeGnosisSafeSignature 把 EOA 签名包装为 Gnosis Safe 验证格式：
// 在签名前拼接签名者地址（Safe 合约据此定位 owner）
func EncodeGnosisSafeSignature(signer, signature string) string {
	sig := strings.TrimPrefix(strings.ToLower(signature), "0x")
	addr := strings.TrimPrefix(strings.ToLower(signer), "0x")
	return "0x" + addr + sig
}
