package signing

const (
	// OrderDomainName 订单 EIP712 域名称
	OrderDomainName = "OPINION CTF Exchange"

	// OrderDomainVersion 订单 EIP712 域版本
	OrderDomainVersion = "1"
)
