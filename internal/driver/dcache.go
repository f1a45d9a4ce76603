package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"macplugins/internal/diag"
	"macplugins/internal/observ"
	"macplugins/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// Digest — SHA-256 ключ записи кэша.
type Digest [32]byte

// DiskCache хранит результаты раскрытия по хэшу содержимого на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached expansion.
type DiskPayload struct {
	Schema      uint16
	Output      []byte
	Expanded    int
	Diagnostics []cachedDiagnostic
	Dropped     int // не влезли в MaxDiagnostics при записи
	Timing      observ.Report
}

type cachedEdit struct {
	Start, End uint32
	NewText    string
	OldText    string
}

type cachedFix struct {
	ID            string
	Title         string
	Applicability uint8
	Preferred     bool
	Edits         []cachedEdit
}

type cachedNote struct {
	Start, End uint32
	InFile     bool
	Msg        string
}

// cachedDiagnostic — диагностика без FileID: спаны восстанавливаются
// относительно файла, для которого её достали из кэша.
type cachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	InFile   bool
	Notes    []cachedNote
	Fixes    []cachedFix
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
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

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "expand", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
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
		// после Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
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
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
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

func lookupCache(c *DiskCache, key Digest, file *source.File, maxDiagnostics int, log *zerolog.Logger) (*FileResult, bool) {
	if c == nil {
		return nil, false
	}
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil {
		log.Warn().Err(err).Msg("expansion cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	bag := diag.NewBag(maxDiagnostics)
	for _, cd := range payload.Diagnostics {
		bag.Add(cd.restore(file.ID))
	}
	bag.AddDropped(payload.Dropped)
	log.Debug().Msg("expansion cache hit")
	return &FileResult{
		Path:     file.Path,
		FileID:   file.ID,
		Output:   payload.Output,
		Changed:  string(payload.Output) != string(file.Content),
		Bag:      bag,
		Expanded: payload.Expanded,
		Cached:   true,
		Timing:   payload.Timing,
	}, true
}

func storeCache(c *DiskCache, key Digest, res *FileResult, log *zerolog.Logger) {
	if c == nil {
		return
	}
	payload := &DiskPayload{
		Schema:   diskCacheSchemaVersion,
		Output:   res.Output,
		Expanded: res.Expanded,
		Dropped:  res.Bag.Dropped(),
		Timing:   res.Timing,
	}
	for _, d := range res.Bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, toCached(d, res.FileID))
	}
	if err := c.Put(key, payload); err != nil {
		log.Warn().Err(err).Msg("expansion cache write failed")
	}
}

func toCached(d diag.Diagnostic, file source.FileID) cachedDiagnostic {
	cd := cachedDiagnostic{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Start:    d.Primary.Start,
		End:      d.Primary.End,
		InFile:   d.Primary.File == file,
	}
	for _, n := range d.Notes {
		cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, InFile: n.Span.File == file, Msg: n.Msg})
	}
	for _, f := range d.Fixes {
		cf := cachedFix{ID: f.ID, Title: f.Title, Applicability: uint8(f.Applicability), Preferred: f.IsPreferred}
		for _, e := range f.Edits {
			cf.Edits = append(cf.Edits, cachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText, OldText: e.OldText})
		}
		cd.Fixes = append(cd.Fixes, cf)
	}
	return cd
}

func (cd cachedDiagnostic) restore(file source.FileID) diag.Diagnostic {
	span := func(start, end uint32, inFile bool) source.Span {
		if !inFile {
			return source.Span{Start: start, End: end}
		}
		return source.Span{File: file, Start: start, End: end}
	}
	d := diag.Diagnostic{
		Severity: diag.Severity(cd.Severity),
		Code:     diag.Code(cd.Code),
		Message:  cd.Message,
		Primary:  span(cd.Start, cd.End, cd.InFile),
	}
	for _, n := range cd.Notes {
		d.Notes = append(d.Notes, diag.Note{Span: span(n.Start, n.End, n.InFile), Msg: n.Msg})
	}
	for _, cf := range cd.Fixes {
		f := diag.Fix{ID: cf.ID, Title: cf.Title, Applicability: diag.FixApplicability(cf.Applicability), IsPreferred: cf.Preferred}
		for _, e := range cf.Edits {
			f.Edits = append(f.Edits, diag.TextEdit{Span: span(e.Start, e.End, true), NewText: e.NewText, OldText: e.OldText})
		}
		d.Fixes = append(d.Fixes, f)
	}
	return d
}
