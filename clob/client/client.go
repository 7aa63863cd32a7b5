package client

import (
	"crypto/ecdsa"
	"strings"
	"time"

	"github.com/betbot/goopinion/clob/signing"
	"github.com/betbot/goopinion/clob/types"
)

// DefaultCacheDir 默认话题缓存目录
const DefaultCacheDir = ".cache/topics"

// Config 客户端配置。
// PrivateKey 与 Mnemonic 二选一；其余字段留空时使用 BSC 主网默认值
type Config struct {
	PrivateKey   string
	Mnemonic     string
	AccountIndex uint32

	// MakerAddress 下单主体（通常是 Gnosis Safe 地址），签名者代其签名
	MakerAddress string

	// AuthToken 网页端获取的 Bearer token，可选
	AuthToken string

	// CollateralToken 抵押品代币地址覆盖项；必须与链配置一致
	CollateralToken string

	ChainID  types.Chain
	BaseURL  string
	CacheDir string
	Timeout  time.Duration
}

// Client Opinion.Trade CLOB 客户端
type Client struct {
	http          *httpClient
	privateKey    *ecdsa.PrivateKey
	signerAddress string
	makerAddress  string
	chainID       types.Chain
	contracts     *ContractConfig
	topics        *TopicCache
}

// New 创建客户端。密钥、地址、链配置在这里一次性校验，
// 后续调用不再重复检查
func New(cfg Config) (*Client, error) {
	var (
		key *ecdsa.PrivateKey
		err error
	)
	switch {
	case strings.TrimSpace(cfg.PrivateKey) != "":
		key, err = signing.PrivateKeyFromHex(cfg.PrivateKey)
	case strings.TrimSpace(cfg.Mnemonic) != "":
		key, err = signing.PrivateKeyFromMnemonic(cfg.Mnemonic, cfg.AccountIndex)
	default:
		return nil, types.NewInvalidParams("private key or mnemonic is required")
	}
	if err != nil {
		return nil, err
	}

	signerAddress, err := signing.NormalizeAddress(signing.AddressFromPrivateKey(key).Hex())
	if err != nil {
		return nil, err
	}
	makerAddress := signerAddress
	if strings.TrimSpace(cfg.MakerAddress) != "" {
		makerAddress, err = signing.NormalizeAddress(cfg.MakerAddress)
		if err != nil {
			return nil, err
		}
	}

	chainID := cfg.ChainID
	if chainID == 0 {
		chainID = types.DefaultChainID
	}
	contracts, err := GetContractConfig(chainID)
	if err != nil {
		return nil, err
	}
	if cfg.CollateralToken != "" && !strings.EqualFold(cfg.CollateralToken, contracts.Collateral) {
		return nil, &types.ConfigMismatchError{
			Msg: "collateral token " + cfg.CollateralToken + " does not match chain config",
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = types.DefaultAPIBaseURL
	}
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}

	c := &Client{
		http:          newHTTPClient(baseURL, cfg.AuthToken, cfg.Timeout),
		privateKey:    key,
		signerAddress: signerAddress,
		makerAddress:  makerAddress,
		chainID:       chainID,
		contracts:     contracts,
	}
	c.topics = NewTopicCache(cacheDir, c.fetchTopic)
	return c, nil
}

// SignerAddress 签名者地址（由私钥推导）
func (c *Client) SignerAddress() string {
	return c.signerAddress
}

// MakerAddress 下单主体地址
func (c *Client) MakerAddress() string {
	return c.makerAddress
}

// ChainID 链 ID
func (c *Client) ChainID() types.Chain {
	return c.chainID
}

// Topics 话题元数据缓存
func (c *Client) Topics() *TopicCache {
	return c.topics
}
