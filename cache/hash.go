package cache

import (
	"bytes"
	"encoding/binary"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func cleanUpWithHash(dir string, sources ...[]byte) error {
	newHash := make([]byte, 4)
	binary.BigEndian.PutUint32(newHash, hashSources(sources...))

	hashFile := filepath.Join(dir, "hash")
	oldHash, err := os.ReadFile(hashFile)
	if err == nil && bytes.Equal(oldHash, newHash) {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}

	err = os.RemoveAll(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(os.WriteFile(hashFile, newHash, 0600))
}

func hashSources(sources ...[]byte) uint32 {
	h := fnv.New32a()
	for _, src := range sources {
		binary.Write(h, binary.BigEndian, uint64(len(src)))
		h.Write(src)
	}
	return h.Sum32()
}
