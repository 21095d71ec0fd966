package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wichananm65/gift-store-backend/internal/cart"
)

// CartStorage persists the cart between sessions. It holds nothing else.
type CartStorage interface {
	Load() ([]cart.Item, error)
	Save(items []cart.Item) error
}

type MemoryStorage struct {
	mu    sync.Mutex
	items []cart.Item
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() ([]cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cart.Item{}, m.items...), nil
}

func (m *MemoryStorage) Save(items []cart.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]cart.Item{}, items...)
	return nil
}

const (
	storageVersion  = 1
	backupSeparator = ".bak-"
	backupStamp     = "20060102T150405.000000000"
)

var ErrUnsupportedVersion = errors.New("unsupported cart file version")

type cartFile struct {
	Version int         `json:"version"`
	SavedAt time.Time   `json:"savedAt"`
	Cart    []cart.Item `json:"cart"`
}

// Backup is one rotated copy of the cart file.
type Backup struct {
	Path    string
	TakenAt time.Time
}

// FileStorage keeps the cart in a single JSON document. With backups
// enabled, the previous document is copied aside at most once per interval
// and only the newest maxBackups copies are kept.
type FileStorage struct {
	path           string
	maxBackups     int
	backupInterval time.Duration
	now            func() time.Time

	mu         sync.Mutex
	lastBackup time.Time
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path, now: time.Now}
}

// WithBackups enables rotation. max <= 0 disables it.
func (f *FileStorage) WithBackups(max int, interval time.Duration) *FileStorage {
	f.maxBackups = max
	f.backupInterval = interval
	return f
}

func (f *FileStorage) Load() ([]cart.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := readCartFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []cart.Item{}, nil
	}
	return items, err
}

func (f *FileStorage) Save(items []cart.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.rotate(); err != nil {
		return err
	}
	if items == nil {
		items = []cart.Item{}
	}
	return writeCartFile(f.path, cartFile{Version: storageVersion, SavedAt: f.now().UTC(), Cart: items})
}

// Backups lists the rotated copies, newest first.
func (f *FileStorage) Backups() ([]Backup, error) {
	matches, err := filepath.Glob(f.path + backupSeparator + "*")
	if err != nil {
		return nil, err
	}
	backups := make([]Backup, 0, len(matches))
	for _, m := range matches {
		stamp := strings.TrimPrefix(m, f.path+backupSeparator)
		at, err := time.Parse(backupStamp, stamp)
		if err != nil {
			continue
		}
		backups = append(backups, Backup{Path: m, TakenAt: at})
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].TakenAt.After(backups[j].TakenAt) })
	return backups, nil
}

// Restore makes the given backup the current cart and returns its lines.
func (f *FileStorage) Restore(b Backup) ([]cart.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := readCartFile(b.Path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if err := writeCartFile(f.path, cartFile{Version: storageVersion, SavedAt: f.now().UTC(), Cart: items}); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *FileStorage) rotate() error {
	if f.maxBackups <= 0 {
		return nil
	}
	now := f.now().UTC()
	if !f.lastBackup.IsZero() && now.Sub(f.lastBackup) < f.backupInterval {
		return nil
	}
	current, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path+backupSeparator+now.Format(backupStamp), current, 0o600); err != nil {
		return fmt.Errorf("write cart backup: %w", err)
	}
	f.lastBackup = now

	backups, err := f.Backups()
	if err != nil {
		return err
	}
	for _, old := range backups[min(len(backups), f.maxBackups):] {
		if err := os.Remove(old.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func readCartFile(path string) ([]cart.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc cartFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cart file: %w", err)
	}
	if doc.Version > storageVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Cart == nil {
		doc.Cart = []cart.Item{}
	}
	return doc.Cart, nil
}

// writeCartFile replaces path atomically through a temp file in the same
// directory.
func writeCartFile(path string, doc cartFile) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
