package agents

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	chromeUA  = "Mozilla/5.0 ... Chrome/100"
	firefoxUA = "Mozilla/5.0 ... Firefox/99"
	safariUA  = "Mozilla/5.0 ... Safari/15"
)

type fixedRand int

func (f fixedRand) IntN(n int) int {
	return min(int(f), n-1)
}

func newTestStore(t *testing.T, desktop, mobile string, opts ...Option) *Store {
	t.Helper()
	fsys := fstest.MapFS{
		"desktop.txt": {Data: []byte(desktop)},
		"mobile.txt":  {Data: []byte(mobile)},
	}
	store, err := New(append([]Option{WithFS(fsys, "desktop.txt", "mobile.txt")}, opts...)...)
	require.NoError(t, err)
	return store
}

func threeBrowsers() string {
	return chromeUA + "\n" + firefoxUA + "\n" + safariUA + "\n"
}

func TestNewBundled(t *testing.T) {
	store, err := New()
	require.NoError(t, err)
	assert.Positive(t, store.Len(Desktop))
	assert.Positive(t, store.Len(Mobile))
}

func TestLoadTrimsAndSkipsBlankLines(t *testing.T) {
	store := newTestStore(t, "\n  "+chromeUA+"  \n\n\t\n"+firefoxUA+"\r\n", "  mobile-one \n")

	assert.Equal(t, []string{chromeUA, firefoxUA}, store.desktop.agents)
	assert.Equal(t, []string{"mobile-one"}, store.mobile.agents)
}

func TestLoadKeepsDuplicates(t *testing.T) {
	store := newTestStore(t, "a\na\nb\n", "m\n")
	assert.Equal(t, 3, store.Len(Desktop))
}

func TestLoadStripsByteOrderMark(t *testing.T) {
	store := newTestStore(t, "\ufeff"+chromeUA+"\n"+firefoxUA, "m")
	assert.Equal(t, chromeUA, store.desktop.agents[0])
}

func TestNewMissingSource(t *testing.T) {
	fsys := fstest.MapFS{"desktop.txt": {Data: []byte(chromeUA)}}

	_, err := New(WithFS(fsys, "desktop.txt", "missing.txt"))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing.txt", notFound.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = New(WithFS(fsys, "missing.txt", "desktop.txt"))
	require.ErrorAs(t, err, &notFound)
}

func TestNewEmptySource(t *testing.T) {
	fsys := fstest.MapFS{
		"desktop.txt": {Data: []byte(chromeUA)},
		"mobile.txt":  {Data: []byte("\n   \n\t\n")},
	}
	_, err := New(WithFS(fsys, "desktop.txt", "mobile.txt"))
	var empty *EmptySourceError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "mobile.txt", empty.Path)
}

func TestWithSources(t *testing.T) {
	dir := t.TempDir()
	desktop := filepath.Join(dir, "desktop.txt")
	require.NoError(t, os.WriteFile(desktop, []byte(threeBrowsers()), 0o644))

	store, err := New(WithSources(desktop, ""))
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len(Desktop))

	bundledStore, err := New()
	require.NoError(t, err)
	assert.Equal(t, bundledStore.Len(Mobile), store.Len(Mobile))

	_, err = New(WithSources(filepath.Join(dir, "nope.txt"), ""))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestWithSourcesPathNamedLikeBundledFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DesktopFile), []byte("on-disk-desktop\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	store, err := New(WithSources(DesktopFile, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"on-disk-desktop"}, store.desktop.agents)

	_, err = New(WithSources("", MobileFile))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, MobileFile, notFound.Path)
}

func TestLoadVeryLongLine(t *testing.T) {
	long := "Mozilla/5.0 " + strings.Repeat("x", 2*1024*1024)
	store := newTestStore(t, chromeUA+"\n"+long+"\n", "m")

	require.Equal(t, 2, store.Len(Desktop))
	assert.Equal(t, long, store.desktop.agents[1])
}

func TestSelectFiltersByBrowser(t *testing.T) {
	store := newTestStore(t, threeBrowsers(), "m")

	for i := 0; i < 50; i++ {
		ua, err := store.Select(Desktop, "chrome")
		require.NoError(t, err)
		assert.Equal(t, chromeUA, ua)
	}
}

func TestSelectFilterIgnoresCase(t *testing.T) {
	store := newTestStore(t, threeBrowsers(), "m")

	ua, err := store.Select(Desktop, "FireFox")
	require.NoError(t, err)
	assert.Equal(t, firefoxUA, ua)
}

func TestSelectNoMatch(t *testing.T) {
	store := newTestStore(t, threeBrowsers(), "m")

	_, err := store.Select(Desktop, "opera")
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, Desktop, noMatch.Mode)
	assert.Equal(t, "opera", noMatch.Browser)

	_, err = store.Select(Mobile, "klingon")
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, Mobile, noMatch.Mode)
}

func TestSelectUsesModeList(t *testing.T) {
	store := newTestStore(t, threeBrowsers(), "mobile-a\nmobile-b\n")

	for i := 0; i < 100; i++ {
		ua, err := store.Select(Mobile, "")
		require.NoError(t, err)
		assert.Contains(t, store.mobile.agents, ua)

		ua, err = store.Select(Desktop, "")
		require.NoError(t, err)
		assert.Contains(t, store.desktop.agents, ua)
	}
}

func TestSelectUsesInjectedRand(t *testing.T) {
	store := newTestStore(t, threeBrowsers(), "m", WithRand(fixedRand(2)))

	ua, err := store.Select(Desktop, "")
	require.NoError(t, err)
	assert.Equal(t, safariUA, ua)
}

func TestSelectSpreadsOverCandidates(t *testing.T) {
	store, err := New()
	require.NoError(t, err)

	for _, mode := range []Mode{Desktop, Mobile} {
		seen := make(map[string]int)
		for i := 0; i < 1000; i++ {
			ua, err := store.Select(mode, "")
			require.NoError(t, err)
			seen[ua]++
		}
		assert.Greater(t, len(seen), 1, "mode %s", mode)
	}
}

func TestSeededRandIsReproducible(t *testing.T) {
	a, err := New(WithRand(NewSeededRand(42)))
	require.NoError(t, err)
	b, err := New(WithRand(NewSeededRand(42)))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		uaA, err := a.Select(Desktop, "")
		require.NoError(t, err)
		uaB, err := b.Select(Desktop, "")
		require.NoError(t, err)
		assert.Equal(t, uaA, uaB)
	}
}

func TestSelectReturnsTrimmedValues(t *testing.T) {
	store, err := New()
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		ua, err := store.MobileAgent()
		require.NoError(t, err)
		assert.NotEmpty(t, ua)
		assert.Equal(t, strings.TrimSpace(ua), ua)
	}
}

func TestCount(t *testing.T) {
	store := newTestStore(t, threeBrowsers(), "m")

	assert.Equal(t, 3, store.Count(Desktop, ""))
	assert.Equal(t, 1, store.Count(Desktop, "SAFARI"))
	assert.Equal(t, 0, store.Count(Mobile, "chrome"))
}

func TestConcurrentSelect(t *testing.T) {
	store, err := New(WithRand(NewSeededRand(7)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := store.Select(Mobile, "chrome"); err != nil {
					t.Errorf("Select: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefaultIsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}
