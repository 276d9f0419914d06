package agents

const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
	BrowserSafari  = "safari"
	BrowserLinux   = "linux"
	BrowserMac     = "mac"
)

// GetAgent parses mode ("" is desktop) and selects with the given filter.
func (s *Store) GetAgent(mode, browser string) (string, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return "", err
	}
	return s.Select(m, browser)
}

func (s *Store) DesktopAgent() (string, error) {
	return s.Select(Desktop, "")
}

func (s *Store) MobileAgent() (string, error) {
	return s.Select(Mobile, "")
}

func (s *Store) ChromeAgent() (string, error) {
	return s.Select(Desktop, BrowserChrome)
}

func (s *Store) FirefoxAgent() (string, error) {
	return s.Select(Desktop, BrowserFirefox)
}

func (s *Store) SafariAgent() (string, error) {
	return s.Select(Desktop, BrowserSafari)
}

func (s *Store) MobileChromeAgent() (string, error) {
	return s.Select(Mobile, BrowserChrome)
}

func (s *Store) DesktopChromeAgent() (string, error) {
	return s.Select(Desktop, BrowserChrome)
}

func (s *Store) MobileFirefoxAgent() (string, error) {
	return s.Select(Mobile, BrowserFirefox)
}

func (s *Store) DesktopFirefoxAgent() (string, error) {
	return s.Select(Desktop, BrowserFirefox)
}

func (s *Store) MobileSafariAgent() (string, error) {
	return s.Select(Mobile, BrowserSafari)
}

func (s *Store) DesktopSafariAgent() (string, error) {
	return s.Select(Desktop, BrowserSafari)
}

func (s *Store) DesktopLinuxAgent() (string, error) {
	return s.Select(Desktop, BrowserLinux)
}

func (s *Store) DesktopMacAgent() (string, error) {
	return s.Select(Desktop, BrowserMac)
}
