package agents

import "github.com/mssola/useragent"

// Description is a best-effort breakdown of a user agent string. It is only
// used for output; entries are never rejected based on it.
type Description struct {
	UserAgent      string `json:"user_agent"`
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browser_version,omitempty"`
	Engine         string `json:"engine,omitempty"`
	EngineVersion  string `json:"engine_version,omitempty"`
	OS             string `json:"os,omitempty"`
	Platform       string `json:"platform,omitempty"`
	Mobile         bool   `json:"mobile"`
}

func Describe(ua string) Description {
	parsed := useragent.New(ua)
	browser, browserVersion := parsed.Browser()
	engine, engineVersion := parsed.Engine()

	return Description{
		UserAgent:      ua,
		Browser:        browser,
		BrowserVersion: browserVersion,
		Engine:         engine,
		EngineVersion:  engineVersion,
		OS:             parsed.OS(),
		Platform:       parsed.Platform(),
		Mobile:         parsed.Mobile(),
	}
}
