package main

import (
	"bufio"
	"crypto/ecdsa"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/betbot/goopinion/clob/signing"
	"github.com/betbot/goopinion/pkg/secretstore"
)

// 把钱包材料写入加密的 badger 密钥库，并打印派生出的签名者地址。
// 各 CLI 工具在环境变量缺失时会从这里读取
func main() {
	var (
		dbPath    = flag.String("badger", getenv("GOOPINION_SECRET_DB", "data/secrets.badger"), "badger 密钥库路径")
		secretKey = flag.String("secret-key", getenv("GOOPINION_SECRET_KEY", ""), "badger 加密密钥（32 字节 base64/hex）")
		index     = flag.Uint("index", 0, "助记词派生账户索引")
		maker     = flag.String("maker", "", "下单主体地址（Gnosis Safe，可选）")
		authToken = flag.String("auth-token", "", "Bearer token（可选）")
		useKey    = flag.Bool("private-key", false, "输入私钥而不是助记词")
	)
	flag.Parse()

	keyBytes, err := secretstore.ParseKey(*secretKey)
	if err != nil {
		fatal(err)
	}
	if keyBytes == nil {
		fatal(fmt.Errorf("加密密钥必填：设置 GOOPINION_SECRET_KEY 或传 -secret-key"))
	}

	var creds secretstore.Credentials
	if *useKey {
		fmt.Fprintln(os.Stderr, "请输入私钥（hex，可带 0x 前缀），输入完成后回车：")
		creds.PrivateKey = readLine()
		if creds.PrivateKey == "" {
			fatal(errors.New("private key is empty"))
		}
	} else {
		fmt.Fprintln(os.Stderr, "请输入助记词（12/15/18/21/24 个单词），输入完成后回车：")
		creds.Mnemonic = readLine()
		if creds.Mnemonic == "" {
			fatal(errors.New("mnemonic is empty"))
		}
	}
	creds.MakerAddress = strings.TrimSpace(*maker)
	creds.AuthToken = strings.TrimSpace(*authToken)

	// 先派生地址验证材料有效，再落库
	privateKey, err := derive(creds, uint32(*index))
	if err != nil {
		fatal(err)
	}
	signer := signing.AddressFromPrivateKey(privateKey)

	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          *dbPath,
		EncryptionKey: keyBytes,
	})
	if err != nil {
		fatal(err)
	}
	defer ss.Close()

	if err := ss.SaveCredentials(creds); err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "已写入密钥库：%s\n签名者地址：%s\n", *dbPath, signer.Hex())
}

func derive(creds secretstore.Credentials, index uint32) (*ecdsa.PrivateKey, error) {
	if creds.PrivateKey != "" {
		return signing.PrivateKeyFromHex(creds.PrivateKey)
	}
	return signing.PrivateKeyFromMnemonic(creds.Mnemonic, index)
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func readLine() string {
	br := bufio.NewReader(os.Stdin)
	s, _ := br.ReadString('\n')
	return strings.TrimSpace(s)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
