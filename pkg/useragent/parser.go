package useragent

import (
	"fmt"
	"os"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Device types assigned to visits.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// Parser classifies User-Agent strings into coarse device types for visit
// records. A nil *Parser is valid: classification then falls back to
// keyword matching via DetectDeviceType.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// NewParser creates a parser from a uap-core regexes file.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file %s: %w", regexFilePath, err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized", zap.String("regexes_file", regexFilePath))

	return &Parser{
		parser: parser,
		log:    log,
	}, nil
}

// DeviceType classifies a User-Agent string. Works on a nil receiver.
func (p *Parser) DeviceType(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}
	if p == nil {
		return DetectDeviceType(userAgent)
	}

	client := p.parser.Parse(userAgent)

	if isBot(client.UserAgent.Family) || containsFold(userAgent, "bot") || containsFold(userAgent, "crawler") || containsFold(userAgent, "spider") {
		return DeviceBot
	}

	osFamily := client.Os.Family
	switch {
	case containsFold(osFamily, "iOS"):
		if strings.Contains(userAgent, "iPad") {
			return DeviceTablet
		}
		return DeviceMobile
	case containsFold(osFamily, "Android"):
		// Android tablets typically lack "Mobile" in the User-Agent
		if !strings.Contains(userAgent, "Mobile") {
			return DeviceTablet
		}
		return DeviceMobile
	case containsFold(osFamily, "Windows Phone"), containsFold(osFamily, "BlackBerry"):
		return DeviceMobile
	}

	deviceFamily := client.Device.Family
	if containsFold(deviceFamily, "iPad") || containsFold(deviceFamily, "Tablet") || containsFold(deviceFamily, "Kindle") {
		return DeviceTablet
	}

	for _, desktop := range []string{"Windows", "Mac OS X", "macOS", "Linux", "Ubuntu", "Chrome OS", "FreeBSD"} {
		if containsFold(osFamily, desktop) {
			return DeviceDesktop
		}
	}

	return DeviceUnknown
}

// DetectDeviceType is the keyword fallback used when no regexes file is
// available.
func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	for _, keyword := range []string{"bot", "crawler", "spider", "scraper"} {
		if strings.Contains(ua, keyword) {
			return DeviceBot
		}
	}

	for _, keyword := range []string{"tablet", "ipad", "kindle", "silk", "playbook"} {
		if strings.Contains(ua, keyword) {
			return DeviceTablet
		}
	}

	for _, keyword := range []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone", "opera mini"} {
		if strings.Contains(ua, keyword) {
			return DeviceMobile
		}
	}

	if ua == "" {
		return DeviceUnknown
	}
	return DeviceDesktop
}

func isBot(uaFamily string) bool {
	botFamilies := []string{
		"Googlebot", "Bingbot", "Slurp", "DuckDuckBot", "Baiduspider",
		"YandexBot", "facebookexternalhit", "Twitterbot", "LinkedInBot",
	}
	for _, family := range botFamilies {
		if containsFold(uaFamily, family) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
