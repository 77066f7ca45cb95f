package inventory

// RepoMap is a string to string-list map that remembers the order keys were first
// added in. Replacing the value of an existing key keeps the key's position.
type RepoMap struct {
	keys   []string
	values map[string][]string
}

// Entry is one key of a RepoMap with its values.
type Entry struct {
	Key    string
	Values []string
}

func NewRepoMap() *RepoMap {
	return &RepoMap{values: map[string][]string{}}
}

// Set replaces the values of key.
func (m *RepoMap) Set(key string, values []string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = values
}

// Append adds value to the end of key's values, creating the key when needed.
func (m *RepoMap) Append(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

func (m *RepoMap) Get(key string) ([]string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *RepoMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *RepoMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Entries returns every key with its values, in insertion order.
func (m *RepoMap) Entries() []Entry {
	entries := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		entries = append(entries, Entry{Key: k, Values: m.values[k]})
	}
	return entries
}
