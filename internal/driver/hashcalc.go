package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"

	"macplugins/internal/version"
)

// cacheKey: H(schema || version || macros || disabled || max || H(content)).
// Всё, что меняет вывод раскрытия или набор диагностик, должно попасть в
// ключ: bag в записи уже обрезан по MaxDiagnostics. H(content) уже посчитан
// FileSet при загрузке.
func cacheKey(contentHash [32]byte, opts Options) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	writeField(h, version.Plain())
	for _, m := range opts.Registry.All() {
		writeField(h, m.Name+"/"+m.TypeName)
	}
	writeField(h, "disabled:"+strings.Join(opts.Disabled, ","))
	writeField(h, "max:"+strconv.Itoa(opts.MaxDiagnostics))
	_, _ = h.Write(contentHash[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func writeField(h interface{ Write([]byte) (int, error) }, s string) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	_, _ = h.Write(n[:])
	_, _ = h.Write([]byte(s))
}
