// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package asm

import (
	"fmt"
	"sync"

	"github.com/Fantom-foundation/Pancake/go/pancake"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

// Assemble turns source text into an executable program. Malformed source is
// reported as *pancake.AssemblyError, references to undefined labels as
// *pancake.ResolutionError. No program is produced in either case.
func Assemble(text string) (pancake.Program, error) {
	code, labels, err := Parse(NewLexer(text))
	if err != nil {
		return pancake.Program{}, err
	}
	return Resolve(code, labels)
}

// Config contains the configuration options of an Assembler.
type Config struct {
	// CacheSize is the maximum number of assembled programs retained. If set
	// to 0, a default size is used. If negative, no cache is used.
	CacheSize int
}

const defaultCacheSize = 1 << 10

// maxCachedSourceLength is the maximum length of a source text in bytes for
// which the assembled program is retained in the cache.
const maxCachedSourceLength = 1 << 16

// Assembler assembles source texts and caches the resulting programs indexed
// by the hash of their source. Programs are immutable and may thus be shared
// among all users of the assembler. An Assembler is safe for concurrent use.
type Assembler struct {
	config Config
	cache  *lru.Cache[Hash, pancake.Program]
}

// NewAssembler creates a new assembler with the provided configuration.
func NewAssembler(config Config) (*Assembler, error) {
	if config.CacheSize == 0 {
		config.CacheSize = defaultCacheSize
	}

	var cache *lru.Cache[Hash, pancake.Program]
	if config.CacheSize > 0 {
		var err error
		cache, err = lru.New[Hash, pancake.Program](config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create program cache: %w", err)
		}
	}
	return &Assembler{
		config: config,
		cache:  cache,
	}, nil
}

// Assemble works like the package level Assemble function but serves
// repeated requests for the same source text from the cache. Failed
// assemblies are not cached.
func (a *Assembler) Assemble(text string) (pancake.Program, error) {
	if a.cache == nil || len(text) > maxCachedSourceLength {
		return Assemble(text)
	}

	hash := HashSource(text)
	if res, exists := a.cache.Get(hash); exists {
		return res, nil
	}

	res, err := Assemble(text)
	if err != nil {
		return pancake.Program{}, err
	}
	a.cache.Add(hash, res)
	return res, nil
}

// --- source hashing ---

// Hash is the Keccak-256 hash of a source text.
type Hash [32]byte

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

// HashSource computes the Keccak-256 hash of the given source text.
func HashSource(text string) Hash {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write([]byte(text))
	var res Hash
	hasher.Read(res[:])
	keccakHasherPool.Put(hasher)
	return res
}
