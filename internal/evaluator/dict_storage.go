package evaluator

// dictStorage is a mutable, insertion-ordered hash table keyed by Object.
// Entries live in a dense slice; the index maps a key hash to the positions
// of the entries carrying that hash (collision bucket). Removal leaves a
// tombstone that is squeezed out once tombstones outnumber live entries.

const compactThreshold = 8

type dictEntry struct {
	hash    uint32
	key     Object
	value   Object
	deleted bool
}

type dictStorage struct {
	entries []dictEntry
	index   map[uint32][]int
	count   int
}

func newDictStorage() *dictStorage {
	return &dictStorage{index: make(map[uint32][]int)}
}

// Len returns the number of live entries
func (s *dictStorage) Len() int {
	return s.count
}

// find returns the entry position for key, or -1
func (s *dictStorage) find(hash uint32, key Object) int {
	for _, pos := range s.index[hash] {
		if ObjectsEqual(s.entries[pos].key, key) {
			return pos
		}
	}
	return -1
}

// Get returns the value for a key, or nil if not found
func (s *dictStorage) Get(key Object) Object {
	pos := s.find(hashObject(key), key)
	if pos < 0 {
		return nil
	}
	return s.entries[pos].value
}

// Put inserts or updates key. An update keeps the original position.
func (s *dictStorage) Put(key, value Object) {
	hash := hashObject(key)
	if pos := s.find(hash, key); pos >= 0 {
		s.entries[pos].value = value
		return
	}
	s.entries = append(s.entries, dictEntry{hash: hash, key: key, value: value})
	s.index[hash] = append(s.index[hash], len(s.entries)-1)
	s.count++
}

// Remove deletes key and reports whether it was present.
func (s *dictStorage) Remove(key Object) bool {
	hash := hashObject(key)
	pos := s.find(hash, key)
	if pos < 0 {
		return false
	}

	bucket := s.index[hash]
	for i, p := range bucket {
		if p == pos {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(s.index, hash)
	} else {
		s.index[hash] = bucket
	}

	s.entries[pos] = dictEntry{deleted: true}
	s.count--

	if dead := len(s.entries) - s.count; dead > compactThreshold && dead > s.count {
		s.compact()
	}
	return true
}

// compact drops tombstones and rebuilds the index.
func (s *dictStorage) compact() {
	live := make([]dictEntry, 0, s.count)
	index := make(map[uint32][]int, s.count)
	for _, entry := range s.entries {
		if entry.deleted {
			continue
		}
		live = append(live, entry)
		index[entry.hash] = append(index[entry.hash], len(live)-1)
	}
	s.entries = live
	s.index = index
}

// Items returns all key-value pairs in insertion order
func (s *dictStorage) Items() []DictItem {
	items := make([]DictItem, 0, s.count)
	for _, entry := range s.entries {
		if !entry.deleted {
			items = append(items, DictItem{Key: entry.key, Value: entry.value})
		}
	}
	return items
}

func hashObject(obj Object) uint32 {
	return obj.Hash()
}
