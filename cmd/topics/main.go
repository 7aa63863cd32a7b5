package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/betbot/goopinion/clob/client"
	"github.com/betbot/goopinion/clob/types"
	"github.com/betbot/goopinion/pkg/config"
	"github.com/betbot/goopinion/pkg/logger"
)

func main() {
	var (
		configPath    = flag.String("config", getenv("CONFIG_FILE", ""), "配置文件路径（yaml/json，可选）")
		topicID       = flag.Int64("topic", 0, "话题 ID")
		refresh       = flag.Bool("refresh", false, "强制刷新（绕过缓存）")
		list          = flag.Bool("list", false, "列出已缓存的话题")
		invalidate    = flag.Bool("invalidate", false, "失效 -topic 指定的缓存条目")
		invalidateAll = flag.Bool("invalidate-all", false, "清空全部缓存")
		book          = flag.Bool("book", false, "同时拉取 YES/NO 两侧订单簿")
		timeout       = flag.Duration("timeout", 30*time.Second, "请求超时")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "[Topics] 未找到 .env 文件，使用环境变量")
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

	switch {
	case *list:
		printJSON(c.Topics().ListCached())
	case *invalidateAll:
		if err := c.Topics().InvalidateAll(); err != nil {
			fatal(err)
		}
		logger.Infof("[Topics] 缓存已清空")
	case *invalidate:
		if *topicID <= 0 {
			fatal(fmt.Errorf("-invalidate 需要指定 -topic"))
		}
		if err := c.Topics().Invalidate(*topicID); err != nil {
			fatal(err)
		}
		logger.Infof("[Topics] 话题 %d 缓存已失效", *topicID)
	default:
		if *topicID <= 0 {
			fatal(fmt.Errorf("-topic 为必填参数"))
		}
		var topic *types.Topic
		if *refresh {
			topic, err = c.Topics().RefreshTopic(ctx, *topicID)
		} else {
			topic, err = c.Topics().GetTopic(ctx, *topicID)
		}
		if err != nil {
			fatal(err)
		}
		printJSON(topic)

		if *book {
			pair, err := c.GetBothOrderBooks(ctx, *topicID)
			if err != nil {
				fatal(err)
			}
			printJSON(pair)
		}
	}
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
