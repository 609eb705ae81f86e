package sdlskin

import (
	"github.com/veandco/go-sdl2/sdl"
)

const defaultMaxCacheSize = 8

// textureCache is a small LRU cache of rasterized textures keyed by
// source path, so repeated show/hide cycles do not re-rasterize the
// spinner or background art.
type textureCache struct {
	textures map[string]*sdl.Texture
	order    []string // insertion order for LRU eviction
	maxSize  int
}

func newTextureCache() *textureCache {
	return &textureCache{
		textures: make(map[string]*sdl.Texture),
		order:    make([]string, 0, defaultMaxCacheSize),
		maxSize:  defaultMaxCacheSize,
	}
}

// svg returns the cached texture for path, rasterizing it on a miss.
func (c *textureCache) svg(renderer *sdl.Renderer, path string, w, h int) (*sdl.Texture, error) {
	if tex := c.get(path); tex != nil {
		return tex, nil
	}

	tex, err := rasterizeSVG(renderer, path, w, h)
	if err != nil {
		return nil, err
	}
	c.set(path, tex)
	return tex, nil
}

func (c *textureCache) get(key string) *sdl.Texture {
	if texture, exists := c.textures[key]; exists {
		c.moveToEnd(key)
		return texture
	}
	return nil
}

func (c *textureCache) set(key string, texture *sdl.Texture) {
	if _, exists := c.textures[key]; exists {
		c.textures[key] = texture
		c.moveToEnd(key)
		return
	}

	if len(c.order) >= c.maxSize {
		c.evictOldest()
	}

	c.textures[key] = texture
	c.order = append(c.order, key)
}

func (c *textureCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

func (c *textureCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}

	oldest := c.order[0]
	c.order = c.order[1:]

	if texture, exists := c.textures[oldest]; exists {
		texture.Destroy()
		delete(c.textures, oldest)
	}
}

func (c *textureCache) destroy() {
	for _, texture := range c.textures {
		texture.Destroy()
	}
	c.textures = make(map[string]*sdl.Texture)
	c.order = c.order[:0]
}
