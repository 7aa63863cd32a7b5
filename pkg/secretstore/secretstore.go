package secretstore

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Store is a small encrypted-at-rest KV wrapper (Badger).
// Note: encryption is provided by Badger options (value log + key registry), not by this wrapper.
type Store struct {
	db *badger.DB
}

type OpenOptions struct {
	Path          string
	EncryptionKey []byte // 32 bytes; if nil, DB is opened without encryption (not recommended)
	ReadOnly      bool
}

// Well-known keys used by the CLI tools.
const (
	KeyPrivateKey   = "wallet/private_key"
	KeyMnemonic     = "wallet/mnemonic"
	KeyMakerAddress = "wallet/maker_address"
	KeyAuthToken    = "api/auth_token"
)

// Credentials is the wallet material the trading client needs at startup.
type Credentials struct {
	PrivateKey   string
	Mnemonic     string
	MakerAddress string
	AuthToken    string
}

func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if len(opts.EncryptionKey) > 0 {
		// Badger requires index cache for encrypted workloads
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20) // 100MB
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) GetString(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return "", false, errors.New("secretstore: key is empty")
	}
	var out string
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return out, found, nil
}

func (s *Store) SetString(key string, val string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return errors.New("secretstore: key is empty")
	}
	v := []byte(val)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, v)
	})
}

// LoadCredentials reads the well-known wallet keys. Missing keys are left empty;
// the caller decides which of them are mandatory.
func (s *Store) LoadCredentials() (Credentials, error) {
	var creds Credentials
	for _, kv := range []struct {
		key string
		dst *string
	}{
		{KeyPrivateKey, &creds.PrivateKey},
		{KeyMnemonic, &creds.Mnemonic},
		{KeyMakerAddress, &creds.MakerAddress},
		{KeyAuthToken, &creds.AuthToken},
	} {
		val, ok, err := s.GetString(kv.key)
		if err != nil {
			return Credentials{}, err
		}
		if ok {
			*kv.dst = val
		}
	}
	return creds, nil
}

// SaveCredentials writes the non-empty fields. Empty fields are not touched,
// so a partial update never wipes existing material.
func (s *Store) SaveCredentials(creds Credentials) error {
	for _, kv := range []struct {
		key string
		val string
	}{
		{KeyPrivateKey, creds.PrivateKey},
		{KeyMnemonic, creds.Mnemonic},
		{KeyMakerAddress, creds.MakerAddress},
		{KeyAuthToken, creds.AuthToken},
	} {
		if kv.val == "" {
			continue
		}
		if err := s.SetString(kv.key, kv.val); err != nil {
			return err
		}
	}
	return nil
}

// ParseKey expects 32 bytes (base64 or hex). Returns nil if input is empty.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	rawHex := strings.TrimPrefix(raw, "0x")
	if b, err := hex.DecodeString(rawHex); err == nil {
		if len(b) == 32 {
			return b, nil
		}
		return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
