package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"dollar/internal/ast"
	"dollar/internal/diag"
	"dollar/internal/parser"
	"dollar/internal/source"
)

// Current schema version - increment when DocPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты проверки файлов по хешу содержимого.
// Безопасен для конкурентного доступа.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNode is a node without its file ID; spans are byte offsets into the
// file whose content hash keyed the entry.
type CachedNode struct {
	Kind      uint8
	Text      string
	Start     uint32
	End       uint32
	BodyStart uint32
	BodyEnd   uint32
}

// CachedError is the first validation error of a file.
type CachedError struct {
	Code      uint16
	Msg       string
	Start     uint32
	End       uint32
	NoteStart uint32
	NoteEnd   uint32
	NoteMsg   string
}

// DocPayload is what gets stored per file: either Nodes or Err.
type DocPayload struct {
	Schema uint16
	Path   string
	Stored int64 // unix seconds
	Nodes  []CachedNode
	Err    *CachedError
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app>
// (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey mixes the schema version into the content hash so that entries
// written by an older format are never read back.
func CacheKey(contentHash [32]byte) [32]byte {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	h.Write(schema[:])
	h.Write(contentHash[:])
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

func (c *DiskCache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "docs", по два символа на шард
	return filepath.Join(c.dir, "docs", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload. The file appears atomically.
func (c *DiskCache) Put(key [32]byte, payload *DocPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or an entry from another schema
// reports false without error.
func (c *DiskCache) Get(key [32]byte, out *DocPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// payloadFromResult converts a validation outcome into its cached form.
func payloadFromResult(path string, doc *ast.Document, verr error) *DocPayload {
	payload := &DocPayload{Path: path, Stored: time.Now().Unix()}
	if verr != nil {
		pe := parser.FromScanError(verr)
		ce := &CachedError{Code: uint16(pe.Code), Msg: pe.Msg, Start: pe.Span.Start, End: pe.Span.End}
		if len(pe.Notes) > 0 {
			ce.NoteStart, ce.NoteEnd, ce.NoteMsg = pe.Notes[0].Span.Start, pe.Notes[0].Span.End, pe.Notes[0].Msg
		}
		payload.Err = ce
		return payload
	}
	payload.Nodes = make([]CachedNode, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		payload.Nodes = append(payload.Nodes, CachedNode{
			Kind:      uint8(n.Kind),
			Text:      n.Text,
			Start:     n.Span.Start,
			End:       n.Span.End,
			BodyStart: n.Body.Start,
			BodyEnd:   n.Body.End,
		})
	}
	return payload
}

// restore rebuilds the document or error for file from a payload.
func (p *DocPayload) restore(file source.FileID) (*ast.Document, *parser.Error) {
	if p.Err != nil {
		pe := &parser.Error{
			Code: diag.Code(p.Err.Code),
			Span: source.Span{File: file, Start: p.Err.Start, End: p.Err.End},
			Msg:  p.Err.Msg,
		}
		if p.Err.NoteMsg != "" {
			pe.Notes = []diag.Note{{
				Span: source.Span{File: file, Start: p.Err.NoteStart, End: p.Err.NoteEnd},
				Msg:  p.Err.NoteMsg,
			}}
		}
		return nil, pe
	}
	doc := &ast.Document{File: file, Nodes: make([]ast.Node, 0, len(p.Nodes))}
	for _, n := range p.Nodes {
		node := ast.Node{
			Kind: ast.Kind(n.Kind),
			Text: n.Text,
			Span: source.Span{File: file, Start: n.Start, End: n.End},
		}
		if node.Kind == ast.DollarExp {
			node.Body = source.Span{File: file, Start: n.BodyStart, End: n.BodyEnd}
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	return doc, nil
}
