package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/centrosocial/centro-api/pkg/domain"
)

// resolvePath places a relative snapshot filename inside the configured data
// directory. Absolute paths are used as given. dataDir is fixed at
// construction, so reading it here needs no lock.
func (se *StorageEngine) resolvePath(filename string) string {
	if se.dataDir == "" || se.dataDir == "." || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(se.dataDir, filename)
}

// SaveToFile saves all collections to a single snapshot file
func (se *StorageEngine) SaveToFile(filename string) error {
	// Copy every document under the lock: encoding happens after the lock is
	// released, and a concurrent update mutates stored documents in place.
	se.mu.RLock()
	storageData := NewStorageData()
	for collName, collection := range se.collections {
		storageData.Collections[collName] = make(map[string]interface{})
		for docID, doc := range collection.Documents {
			storageData.Collections[collName][docID] = map[string]interface{}(doc.Copy())
		}
	}
	se.mu.RUnlock()

	msgpackData, err := msgpack.Marshal(storageData)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	var flags uint8
	payload := msgpackData
	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	if n > 0 {
		payload = compressedData[:n]
	} else {
		// Payload was incompressible; store it raw
		flags |= flagUncompressed
	}

	file, err := os.Create(se.resolvePath(filename))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	if err := WriteHeader(file, flags); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := file.Write(payload); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}

// LoadFromFile loads all collections from a snapshot file. A missing file is
// not an error: the engine simply starts empty and remembers the filename
// for transaction saves.
func (se *StorageEngine) LoadFromFile(filename string) error {
	se.mu.Lock()
	se.dataFile = filename
	se.mu.Unlock()

	file, err := os.Open(se.resolvePath(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("%w: invalid file header: %v", domain.ErrStoreUnavailable, err)
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	msgpackData := payload
	if header.Flags&flagUncompressed == 0 {
		msgpackData, err = decompressBlock(payload)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
	}

	var storageData StorageData
	if err := msgpack.Unmarshal(msgpackData, &storageData); err != nil {
		return fmt.Errorf("%w: failed to decode MessagePack: %v", domain.ErrStoreUnavailable, err)
	}

	se.mu.Lock()
	defer se.mu.Unlock()
	for collName, rawDocs := range storageData.Collections {
		collection := domain.NewCollection(collName)
		for docID, rawDoc := range rawDocs {
			fields, ok := rawDoc.(map[string]interface{})
			if !ok {
				return fmt.Errorf("corrupt document %s in collection %s", docID, collName)
			}
			collection.Documents[docID] = domain.Document(fields)
		}
		se.collections[collName] = collection
	}

	return nil
}

// decompressBlock undoes lz4 block compression. The uncompressed size is not
// stored in the file, so the buffer grows until the block fits.
func decompressBlock(compressed []byte) ([]byte, error) {
	size := len(compressed) * 10
	if size < 1024 {
		size = 1024
	}

	var lastErr error
	for attempts := 0; attempts < 8; attempts++ {
		decompressed := make([]byte, size)
		n, err := lz4.UncompressBlock(compressed, decompressed)
		if err == nil {
			return decompressed[:n], nil
		}
		lastErr = err
		size *= 4
	}
	return nil, lastErr
}
