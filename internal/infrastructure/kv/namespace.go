package kv

import "strings"

type namespaced struct {
	inner  Store
	prefix string
}

// Namespace scopes every key of s under prefix + "/". Keys() only reports
// keys of that namespace, with the prefix stripped.
func Namespace(s Store, prefix string) Store {
	return &namespaced{inner: s, prefix: prefix + "/"}
}

func (n *namespaced) Get(key string) ([]byte, error) { return n.inner.Get(n.prefix + key) }

func (n *namespaced) Set(key string, value []byte) error { return n.inner.Set(n.prefix+key, value) }

func (n *namespaced) Remove(key string) error { return n.inner.Remove(n.prefix + key) }

func (n *namespaced) Keys() ([]string, error) {
	all, err := n.inner.Keys()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if rest, ok := strings.CutPrefix(k, n.prefix); ok {
			keys = append(keys, rest)
		}
	}
	return keys, nil
}
