package query

import "hash/fnv"

// bloomFilter is a fast-negative membership pre-check over the index's
// known terms, adapted for read-only construction at Reader open time:
// unlike a mutating store's bloom filter, this one is built once from the
// complete offset map and never updated afterward.
type bloomFilter struct {
	bits      []byte
	size      int
	numHashes int
}

func newBloomFilter(expectedItems, numHashes int) *bloomFilter {
	if expectedItems < 1 {
		expectedItems = 1
	}
	size := expectedItems * 10
	return &bloomFilter{
		bits:      make([]byte, (size+7)/8),
		size:      size,
		numHashes: numHashes,
	}
}

func (bf *bloomFilter) Add(key []byte) {
	for i := 0; i < bf.numHashes; i++ {
		bf.setBit(bf.hash(key, i))
	}
}

func (bf *bloomFilter) MayContain(key []byte) bool {
	for i := 0; i < bf.numHashes; i++ {
		if !bf.getBit(bf.hash(key, i)) {
			return false
		}
	}
	return true
}

func (bf *bloomFilter) setBit(h uint64) {
	idx := h % uint64(bf.size)
	bf.bits[idx/8] |= 1 << (idx % 8)
}

func (bf *bloomFilter) getBit(h uint64) bool {
	idx := h % uint64(bf.size)
	return bf.bits[idx/8]&(1<<(idx%8)) != 0
}

func (bf *bloomFilter) hash(key []byte, i int) uint64 {
	h := fnv.New64a()
	h.Write(key)
	h1 := h.Sum64()

	h.Reset()
	h.Write(key)
	h.Write([]byte{byte(i)})
	h2 := h.Sum64()

	return h1 + uint64(i)*h2
}
