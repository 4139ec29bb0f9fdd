package confloader

import (
	"errors"
	"os"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider is a koanf provider over a flat "section.key" map.
type mapProvider map[string]any

// ReadBytes returns an error as map provider doesn't support byte serialization.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map unflattened on ".".
func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any)
	for k, v := range m {
		set(out, k, v)
	}
	return out, nil
}

func set(dst map[string]any, key string, v any) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			child, ok := dst[key[:i]].(map[string]any)
			if !ok {
				child = make(map[string]any)
				dst[key[:i]] = child
			}
			set(child, key[i+1:], v)
			return
		}
	}
	dst[key] = v
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
