// Package useragent classifies raw User-Agent strings into the device,
// browser, and OS buckets the analytics breakdowns report on. Rules are
// ordered substring tokens loaded from an embedded YAML database; the
// first matching rule wins.
package useragent

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yml
var rulesFile []byte

// UserAgent is the classification result for a single User-Agent string.
type UserAgent struct {
	UserAgent string
	Device    string
	Browser   string
	OS        string
	Bot       bool
}

type deviceRule struct {
	Token  string `yaml:"token"`
	Device string `yaml:"device"`
}

type tabletOverride struct {
	Token   string `yaml:"token"`
	Without string `yaml:"without"`
}

type namedRule struct {
	Token string `yaml:"token"`
	Name  string `yaml:"name"`
}

type ruleSet struct {
	Bots             []string         `yaml:"bots"`
	Devices          []deviceRule     `yaml:"devices"`
	TabletOverrides  []tabletOverride `yaml:"tablet_overrides"`
	Browsers         []namedRule      `yaml:"browsers"`
	OperatingSystems []namedRule      `yaml:"operating_systems"`
}

var (
	rules     *ruleSet
	rulesOnce sync.Once
	rulesErr  error
)

func loadRules() (*ruleSet, error) {
	rulesOnce.Do(func() {
		var rs ruleSet
		if err := yaml.Unmarshal(rulesFile, &rs); err != nil {
			rulesErr = fmt.Errorf("failed to parse user agent rules: %w", err)
			return
		}
		rules = &rs
	})
	return rules, rulesErr
}

// Parse classifies a User-Agent string. Unrecognized or empty strings fall
// back to a desktop device with unknown browser and OS.
func Parse(userAgent string) *UserAgent {
	result := &UserAgent{
		UserAgent: userAgent,
		Device:    "desktop",
		Browser:   "unknown",
		OS:        "unknown",
	}

	rs, err := loadRules()
	if err != nil || userAgent == "" {
		return result
	}

	ua := strings.ToLower(userAgent)

	for _, token := range rs.Bots {
		if strings.Contains(ua, token) {
			result.Bot = true
			break
		}
	}

	for _, rule := range rs.Devices {
		if strings.Contains(ua, rule.Token) {
			result.Device = rule.Device
			break
		}
	}
	if result.Device == "desktop" {
		for _, rule := range rs.TabletOverrides {
			if strings.Contains(ua, rule.Token) && !strings.Contains(ua, rule.Without) {
				result.Device = "tablet"
				break
			}
		}
	}

	for _, rule := range rs.Browsers {
		if strings.Contains(ua, rule.Token) {
			result.Browser = rule.Name
			break
		}
	}

	for _, rule := range rs.OperatingSystems {
		if strings.Contains(ua, rule.Token) {
			result.OS = rule.Name
			break
		}
	}

	return result
}
