package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/emailqa/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("https://acme.com/shop#top")
	b := Key("https://acme.com/shop")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Key("https://acme.com/learn"))
	assert.Contains(t, a, "emailqa:probe:v1:")
}

func TestMemory(t *testing.T) {
	m := NewMemory(0)
	require.NoError(t, m.Set("k", []byte("v"), 0))

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, m.Delete("k"))
	_, ok = m.Get("k")
	assert.False(t, ok)
}

func TestDisk_Expiry(t *testing.T) {
	d := NewDisk(t.TempDir(), time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	require.NoError(t, d.Set("emailqa:probe:v1:abc", []byte(`{"a":1}`), 0))
	v, ok := d.Get("emailqa:probe:v1:abc")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))

	now = now.Add(2 * time.Minute)
	_, ok = d.Get("emailqa:probe:v1:abc")
	assert.False(t, ok)
	_, err := os.Stat(d.path("emailqa:probe:v1:abc"))
	assert.True(t, os.IsNotExist(err))
}

func TestDisk_DeleteMissing(t *testing.T) {
	d := NewDisk(t.TempDir(), 0)
	assert.NoError(t, d.Delete("nothing"))
}

func TestLayered_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewDisk(dir, time.Hour).Set("k", []byte(`"x"`), 0))

	l := NewLayered(dir, time.Hour)
	v, ok := l.Get("k")
	require.True(t, ok)
	assert.Equal(t, `"x"`, string(v))

	v, ok = l.memory.Get("k")
	require.True(t, ok)
	assert.Equal(t, `"x"`, string(v))
}

func TestProbes_RoundTrip(t *testing.T) {
	p := NewProbes(NewMemory(time.Hour), time.Hour)
	in := model.ProbeResult{
		URL:         "https://acme.com/shop",
		StatusCode:  200,
		IsReachable: true,
		Kind:        model.LinkKindWeb,
	}
	require.NoError(t, p.Put(in.URL, in))

	out, ok := p.Get(in.URL)
	require.True(t, ok)
	assert.Equal(t, in, out)

	require.NoError(t, p.Put("https://acme.com/robots-blocked", model.ProbeResult{Skipped: true}))
	_, ok = p.Get("https://acme.com/robots-blocked")
	assert.False(t, ok)
}

func TestProbes_CorruptEntry(t *testing.T) {
	m := NewMemory(time.Hour)
	require.NoError(t, m.Set(Key("https://acme.com"), []byte("not json"), 0))

	p := NewProbes(m, time.Hour)
	_, ok := p.Get("https://acme.com")
	assert.False(t, ok)
	_, ok = m.Get(Key("https://acme.com"))
	assert.False(t, ok)
}
