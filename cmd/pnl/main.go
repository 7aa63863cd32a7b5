package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/betbot/goopinion/clob/client"
	"github.com/betbot/goopinion/clob/types"
	"github.com/betbot/goopinion/pkg/config"
	"github.com/betbot/goopinion/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", getenv("CONFIG_FILE", ""), "配置文件路径（yaml/json，可选）")
		topicID    = flag.Int64("topic", 0, "话题 ID（0 表示全部）")
		wallet     = flag.String("wallet", "", "钱包地址（默认使用配置的 maker 地址）")
		cashflow   = flag.Bool("cashflow", false, "输出按成交类型拆分的现金流而不是逐 token 盈亏")
		withPrices = flag.Bool("with-prices", false, "用当前订单簿最新价计算未实现盈亏（需要 -topic）")
		timeout    = flag.Duration("timeout", 60*time.Second, "请求超时")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "[PnL] 未找到 .env 文件，使用环境变量")
	}

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, OutputFile: cfg.LogFile}); err != nil {
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	params := types.TradeQueryParams{
		WalletAddress: *wallet,
		TopicID:       *topicID,
	}

	if *cashflow {
		summary, err := c.GetCashFlow(ctx, params)
		if err != nil {
			fatal(err)
		}
		printJSON(summary)
		return
	}

	var prices map[string]decimal.Decimal
	if *withPrices {
		if *topicID <= 0 {
			fatal(fmt.Errorf("-with-prices 需要指定 -topic"))
		}
		prices, err = lastPrices(ctx, c, *topicID)
		if err != nil {
			fatal(err)
		}
	}

	summary, err := c.GetPnL(ctx, params, prices)
	if err != nil {
		fatal(err)
	}
	if len(summary.UnpricedTokens) > 0 {
		logger.Warnf("[PnL] %d 个 token 缺少当前价，未实现盈亏不完整", len(summary.UnpricedTokens))
	}
	printJSON(summary)
}

// lastPrices 用两侧订单簿的最新成交价作为当前价
func lastPrices(ctx context.Context, c *client.Client, topicID int64) (map[string]decimal.Decimal, error) {
	topic, err := c.Topics().GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	pair, err := c.GetBothOrderBooks(ctx, topicID)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal)
	if p, err := decimal.NewFromString(pair.Yes.LastPrice); err == nil {
		prices[topic.YesTokenID] = p
	}
	if topic.NoTokenID != "" {
		if p, err := decimal.NewFromString(pair.No.LastPrice); err == nil {
			prices[topic.NoTokenID] = p
		}
	}
	return prices, nil
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
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
