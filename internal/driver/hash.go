package driver

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest - фиксированный 256 битный хеш содержимого файла вместе с настройками.
type Digest [32]byte

// String returns the hex form of the digest.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(fingerprint || path || content). Путь входит в ключ, потому
// что пути попадают в диагностики.
func combineDigest(fingerprint []byte, path string, content []byte) Digest {
	h := blake3.New()
	_, _ = h.Write(fingerprint)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(path))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint digests everything besides file content that changes results:
// the tool version and the encoded settings.
func Fingerprint(version string, settings []byte) []byte {
	sum := blake3.Sum256(append([]byte(version+"\x00"), settings...))
	return sum[:]
}
