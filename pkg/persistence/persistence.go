package persistence

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotExists 表示记录不存在
var ErrNotExists = errors.New("persistence: record not exists")

// nameRule 记录名只允许安全字符，防止路径穿越
var nameRule = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// JSONStore 基于 JSON 文件的记录存储。
// 同一目录可被多个进程共享：写入走临时文件 + rename，
// 并发读取方不会看到写了一半的记录
type JSONStore struct {
	baseDir string
}

// NewJSONStore 创建存储，目录在首次写入时创建
func NewJSONStore(baseDir string) *JSONStore {
	return &JSONStore{baseDir: baseDir}
}

func (s *JSONStore) filePath(name string) (string, error) {
	if !nameRule.MatchString(name) {
		return "", errors.New("persistence: invalid record name " + name)
	}
	return filepath.Join(s.baseDir, name+".json"), nil
}

// Save 原子写入一条记录
func (s *JSONStore) Save(name string, data interface{}) error {
	path, err := s.filePath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load 读取一条记录，不存在时返回 ErrNotExists
func (s *JSONStore) Load(name string, data interface{}) error {
	path, err := s.filePath(name)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotExists
		}
		return err
	}
	return json.Unmarshal(b, data)
}

// Delete 删除一条记录，记录不存在不算错误
func (s *JSONStore) Delete(name string) error {
	path, err := s.filePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List 列出指定前缀的记录名（不含 .json 后缀）
func (s *JSONStore) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		name = strings.TrimSuffix(name, ".json")
		if strings.HasPrefix(name, prefix) && nameRule.MatchString(name) {
			names = append(names, name)
		}
	}
	return names, nil
}
