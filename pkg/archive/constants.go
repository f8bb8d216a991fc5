package archive

// Compression selects how a package NAR is compressed
type Compression string

const (
	// CompressionXZ uses xz compression
	CompressionXZ Compression = "xz"

	// CompressionZstd uses zstd compression
	CompressionZstd Compression = "zstd"

	// CompressionNone stores the NAR as is
	CompressionNone Compression = "none"

	// DefaultCompression is used when nothing is configured
	DefaultCompression = CompressionXZ
)

// Ext returns the artifact file extension for c, e.g. ".nar.xz"
func (c Compression) Ext() string {
	switch c {
	case CompressionXZ:
		return ".nar.xz"
	case CompressionZstd:
		return ".nar.zst"
	default:
		return ".nar"
	}
}
