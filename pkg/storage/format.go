package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "CNTR"
	// Current version
	FormatVersion = 1
	// File extension for our optimized format
	FileExtension = ".centro"

	// flagUncompressed marks a payload stored without lz4 compression. Block
	// compression bails out on payloads too small to shrink, so we keep
	// those raw instead of failing the save.
	flagUncompressed = 1 << 0
)

// FileHeader represents the header of our storage file
type FileHeader struct {
	Magic    [4]byte // "CNTR"
	Version  uint8   // Format version
	Flags    uint8   // Bit 0: payload is uncompressed
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8) error {
	header := FileHeader{
		Magic:    [4]byte{'C', 'N', 'T', 'R'},
		Version:  FormatVersion,
		Flags:    flags,
		Reserved: [2]byte{0, 0},
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate magic bytes
	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	// Validate version
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// StorageData represents the actual data structure we store
type StorageData struct {
	Collections map[string]map[string]interface{} `msgpack:"collections"`
	Metadata    map[string]interface{}            `msgpack:"metadata,omitempty"`
}

// NewStorageData creates a new empty storage data structure
func NewStorageData() *StorageData {
	return &StorageData{
		Collections: make(map[string]map[string]interface{}),
		Metadata:    make(map[string]interface{}),
	}
}
