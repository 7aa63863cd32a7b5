package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/betbot/goopinion/clob/client"
	"github.com/betbot/goopinion/clob/types"
	"github.com/betbot/goopinion/pkg/config"
	"github.com/betbot/goopinion/pkg/logger"
	"github.com/betbot/goopinion/pkg/secretstore"
)

func main() {
	var (
		configPath = flag.String("config", getenv("CONFIG_FILE", ""), "配置文件路径（yaml/json，可选）")
		topicID    = flag.Int64("topic", 0, "话题 ID")
		position   = flag.String("position", "YES", "持仓方向: YES 或 NO")
		side       = flag.String("side", "BUY", "订单方向: BUY 或 SELL")
		price      = flag.String("price", "", "限价，(0,1) 开区间，例如 0.65")
		volume     = flag.String("volume", "", "委托量")
		volumeType = flag.String("volume-type", "shares", "委托量类型: shares 或 amount")
		safeRate   = flag.String("safe-rate", "", "滑点保护比例，例如 0.02（可选）")
		expiration = flag.Int64("expiration", 0, "过期时间（Unix 秒，0 表示不过期）")
		timeout    = flag.Duration("timeout", 30*time.Second, "请求超时")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "[PlaceOrder] 未找到 .env 文件，使用环境变量")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, OutputFile: cfg.LogFile}); err != nil {
		fatal(err)
	}

	if *topicID <= 0 || *price == "" || *volume == "" {
		fatal(fmt.Errorf("-topic、-price、-volume 为必填参数"))
	}
	pos, err := types.ParsePosition(*position)
	if err != nil {
		fatal(err)
	}
	orderSide, err := types.ParseSide(*side)
	if err != nil {
		fatal(err)
	}
	vt, err := types.ParseVolumeType(*volumeType)
	if err != nil {
		fatal(err)
	}

	c, err := client.New(client.Config{
		PrivateKey:      cfg.Wallet.PrivateKey,
		Mnemonic:        cfg.Wallet.Mnemonic,
		AccountIndex:    cfg.Wallet.AccountIndex,
		MakerAddress:    cfg.Wallet.MakerAddress,
		AuthToken:       cfg.AuthToken,
		CollateralToken: cfg.CollateralToken,
		ChainID:         types.Chain(cfg.ChainID),
		BaseURL:         cfg.BaseURL,
		CacheDir:        cfg.CacheDir,
		Timeout:         cfg.Timeout,
	})
	if err != nil {
		fatal(err)
	}

	logger.Infof("[PlaceOrder] signer=%s maker=%s chain=%d",
		c.SignerAddress(), c.MakerAddress(), c.ChainID())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := c.CreateLimitOrderByTopic(ctx, types.LimitOrderByTopicParams{
		TopicID:    *topicID,
		Position:   pos,
		Side:       orderSide,
		LimitPrice: *price,
		Volume:     *volume,
		VolumeType: vt,
		SafeRate:   *safeRate,
		Expiration: *expiration,
	})
	if err != nil {
		fatal(err)
	}

	if resp.Errno != 0 {
		// 业务层拒绝（余额不足、市场关闭等），打印后以非零码退出
		logger.Warnf("[PlaceOrder] 下单被拒绝: errno=%d errmsg=%s", resp.Errno, resp.Errmsg)
		os.Exit(2)
	}
	if od := resp.Result.OrderData; od != nil {
		logger.Infof("[PlaceOrder] 下单成功: trans_no=%s price=%s amount=%s",
			od.TransNo, od.Price, od.Amount)
	} else {
		logger.Infof("[PlaceOrder] 下单成功")
	}
}

// loadConfig 加载配置。环境里没有钱包材料而配置了 badger 密钥库时，
// 先从密钥库补全再加载
func loadConfig(path string) (*config.Config, error) {
	dbPath := getenv("GOOPINION_SECRET_DB", "")
	if dbPath != "" && os.Getenv("PRIVATE_KEY") == "" && os.Getenv("MNEMONIC") == "" {
		if err := hydrateFromSecretStore(dbPath); err != nil {
			return nil, err
		}
	}
	return config.LoadFromFile(path)
}

func hydrateFromSecretStore(dbPath string) error {
	keyBytes, err := secretstore.ParseKey(getenv("GOOPINION_SECRET_KEY", ""))
	if err != nil {
		return err
	}
	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          dbPath,
		EncryptionKey: keyBytes,
		ReadOnly:      true,
	})
	if err != nil {
		return err
	}
	defer ss.Close()

	creds, err := ss.LoadCredentials()
	if err != nil {
		return err
	}
	for key, val := range map[string]string{
		"PRIVATE_KEY":         creds.PrivateKey,
		"MNEMONIC":            creds.Mnemonic,
		"MAKER_ADDRESS":       creds.MakerAddress,
		"AUTHORIZATION_TOKEN": creds.AuthToken,
	} {
		if val != "" && os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
