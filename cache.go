package main

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// A CacheKey names a content-addressed entry in an on-disk cache. An
// empty directory disables the cache.
type CacheKey struct {
	dir string
	key string
	log *zap.Logger
}

func MakeCacheKey(dir string, log *zap.Logger, args ...any) *CacheKey {
	h := sha256.New()

	enc := gob.NewEncoder(h)
	for _, arg := range args {
		if err := enc.Encode(arg); err != nil {
			panic("error encoding cache key: " + err.Error())
		}
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &CacheKey{dir, hex.EncodeToString(h.Sum(nil)), log}
}

func (ck *CacheKey) path() string {
	return filepath.Join(ck.dir, ck.key)
}

func (ck *CacheKey) Load(out any) bool {
	if ck.dir == "" {
		return false
	}
	f, err := os.Open(ck.path())
	if err != nil {
		return false
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	if dec.Decode(out) != nil {
		return false
	}
	ck.log.Debug("cache hit", zap.String("key", ck.key))
	return true
}

func (ck *CacheKey) Save(val any) {
	if ck.dir == "" {
		return
	}
	if err := os.MkdirAll(ck.dir, 0777); err != nil {
		ck.log.Warn("error creating cache directory", zap.String("dir", ck.dir), zap.Error(err))
		return
	}
	f, err := os.Create(ck.path())
	if err != nil {
		ck.log.Warn("error saving to cache", zap.Error(err))
		return
	}
	defer f.Close()
	enc := gob.NewEncoder(f)
	if err := enc.Encode(val); err != nil {
		panic("error encoding cache value: " + err.Error())
	}
}
