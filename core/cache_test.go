package core

import (
	"testing"
	"time"

	"github.com/nvollmar/sharefs/storage"
)

func TestInfoCacheGetSet(t *testing.T) {
	c := newInfoCache(time.Minute, 10)
	defer c.Stop()

	if _, ok := c.Get("/miss"); ok {
		t.Error("empty cache reported a hit")
	}

	fi := storage.FileInfo{Name: "a.txt", Path: "/a.txt", Exists: true, Size: 5}
	c.Set("/a.txt", fi)

	got, ok := c.Get("/a.txt")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != fi {
		t.Errorf("got %+v, want %+v", got, fi)
	}
}

func TestInfoCacheExpiry(t *testing.T) {
	c := newInfoCache(10*time.Millisecond, 10)
	defer c.Stop()

	c.Set("/a.txt", storage.FileInfo{Path: "/a.txt", Exists: true})
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("/a.txt"); ok {
		t.Error("expired entry still served")
	}
}

func TestInfoCacheInvalidatePrefix(t *testing.T) {
	c := newInfoCache(time.Minute, 10)
	defer c.Stop()

	c.Set("/dir/a.txt", storage.FileInfo{Path: "/dir/a.txt", Exists: true})
	c.Set("/dir/b.txt", storage.FileInfo{Path: "/dir/b.txt", Exists: true})
	c.Set("/other.txt", storage.FileInfo{Path: "/other.txt", Exists: true})

	c.InvalidatePrefix("/dir")

	if _, ok := c.Get("/dir/a.txt"); ok {
		t.Error("/dir/a.txt survived prefix invalidation")
	}
	if _, ok := c.Get("/dir/b.txt"); ok {
		t.Error("/dir/b.txt survived prefix invalidation")
	}
	if _, ok := c.Get("/other.txt"); !ok {
		t.Error("/other.txt wrongly invalidated")
	}
}

func TestInfoCacheEviction(t *testing.T) {
	c := newInfoCache(time.Minute, 2)
	defer c.Stop()

	c.Set("/one", storage.FileInfo{Path: "/one", Exists: true})
	c.Set("/two", storage.FileInfo{Path: "/two", Exists: true})
	c.Set("/three", storage.FileInfo{Path: "/three", Exists: true})

	count := 0
	for _, p := range []string{"/one", "/two", "/three"} {
		if _, ok := c.Get(p); ok {
			count++
		}
	}
	if count > 2 {
		t.Errorf("cache holds %d entries, max is 2", count)
	}
}

func TestInfoCacheStopIdempotent(t *testing.T) {
	c := newInfoCache(time.Minute, 10)
	c.Stop()
	c.Stop()
}
