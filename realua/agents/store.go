package agents

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"useragenter/realua/realua/logger"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
)

const (
	DesktopFile = "data/desktop_useragent.txt"
	MobileFile  = "data/mobile_useragent.txt"
)

//go:embed data/*.txt
var bundled embed.FS

type list struct {
	agents []string
	// lowercase form of each entry, same index
	folded []string
}

// Store holds the desktop and mobile lists. It is never modified after New
// returns and may be used from several goroutines.
type Store struct {
	desktop list
	mobile  list
	rand    Rand
}

type source struct {
	fsys fs.FS
	path string
}

type options struct {
	desktop source
	mobile  source
	rand    Rand
}

type Option func(*options)

// WithSources reads the lists from the given paths on the local filesystem.
// An empty path keeps the bundled list for that mode.
func WithSources(desktop, mobile string) Option {
	return func(o *options) {
		if desktop != "" {
			o.desktop = source{fsys: osFS{}, path: desktop}
		}
		if mobile != "" {
			o.mobile = source{fsys: osFS{}, path: mobile}
		}
	}
}

// WithFS reads both lists from fsys.
func WithFS(fsys fs.FS, desktop, mobile string) Option {
	return func(o *options) {
		o.desktop = source{fsys: fsys, path: desktop}
		o.mobile = source{fsys: fsys, path: mobile}
	}
}

func WithRand(r Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// osFS opens names as plain OS paths, absolute or relative to the working
// directory.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func New(opts ...Option) (*Store, error) {
	o := options{
		desktop: source{fsys: bundled, path: DesktopFile},
		mobile:  source{fsys: bundled, path: MobileFile},
		rand:    globalRand{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	desktop, err := loadList(o.desktop.fsys, o.desktop.path)
	if err != nil {
		return nil, err
	}
	mobile, err := loadList(o.mobile.fsys, o.mobile.path)
	if err != nil {
		return nil, err
	}
	logger.Logd(fmt.Sprintf("loaded %d desktop and %d mobile user agents", len(desktop.agents), len(mobile.agents)))

	return &Store{
		desktop: desktop,
		mobile:  mobile,
		rand:    o.rand,
	}, nil
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
	defaultErr   error
)

// Default returns a process-wide store over the bundled lists.
func Default() (*Store, error) {
	defaultOnce.Do(func() {
		defaultStore, defaultErr = New()
	})
	return defaultStore, defaultErr
}

func loadList(fsys fs.FS, path string) (list, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return list{}, &NotFoundError{Path: path, Err: err}
		}
		return list{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := bufio.NewReader(transform.NewReader(f, decoder))

	caser := cases.Lower(language.Und)
	var l list
	for {
		// lines have no length limit
		raw, err := reader.ReadString('\n')
		if line := strings.TrimSpace(raw); line != "" {
			l.agents = append(l.agents, line)
			l.folded = append(l.folded, caser.String(line))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return list{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	if len(l.agents) == 0 {
		return list{}, &EmptySourceError{Path: path}
	}
	return l, nil
}

func (s *Store) list(mode Mode) list {
	if mode == Mobile {
		return s.mobile
	}
	return s.desktop
}

func (s *Store) candidates(mode Mode, browser string) []string {
	l := s.list(mode)
	if browser == "" {
		return l.agents
	}
	needle := cases.Lower(language.Und).String(browser)
	var matched []string
	for i, folded := range l.folded {
		if strings.Contains(folded, needle) {
			matched = append(matched, l.agents[i])
		}
	}
	return matched
}

// Select returns a random user agent from the mode's list. A non-empty
// browser keeps only entries containing it, ignoring case.
func (s *Store) Select(mode Mode, browser string) (string, error) {
	agents := s.candidates(mode, browser)
	if len(agents) == 0 {
		return "", &NoMatchError{Mode: mode, Browser: browser}
	}
	return agents[s.rand.IntN(len(agents))], nil
}

// Count reports how many entries Select would choose from.
func (s *Store) Count(mode Mode, browser string) int {
	return len(s.candidates(mode, browser))
}

func (s *Store) Len(mode Mode) int {
	return len(s.list(mode).agents)
}
