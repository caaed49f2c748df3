// Package link classifies user-submitted links by provider.
// All checks are pure functions over package-level pattern tables.
package link

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

// Kind 链接类别
type Kind string

const (
	KindMagnet  Kind = "magnet"
	KindGdrive  Kind = "gdrive"
	KindGdtot   Kind = "gdtot"
	KindUnified Kind = "unified"
	KindUdrive  Kind = "udrive"
	KindMega    Kind = "mega"
	KindURL     Kind = "url"
	KindUnknown Kind = "unknown"
)

// Mega链接类型
const (
	MegaFolder = "folder"
	MegaFile   = "file"
)

var (
	// unifiedHosts appdrive 一类聚合站
	unifiedHosts = []string{"appdrive", "driveapp", "driveace", "gdflix", "drivebit", "drivesharer", "drivepro"}
	// udriveHosts hubdrive 一类聚合站
	udriveHosts = []string{"hubdrive", "katdrive", "kolop", "drivefire", "drivebuzz"}
	// UdriveDomain 直接按子串匹配的 udrive 域名
	UdriveDomain = "drivehub.ws"
	// GdriveDomain Google Drive
	GdriveDomain = "drive.google.com"
	// MegaDomains Mega
	MegaDomains = []string{"mega.nz", "mega.co.nz"}
)

var (
	magnetRegex = regexp.MustCompile(`magnet:\?xt=urn:(btih|btmh):[a-zA-Z0-9]*\s*`)
	// 不以 / 开头的条件由 IsURL 单独判断
	urlRegex   = regexp.MustCompile(`^(rtmps?://|mms://|rtsp://|https?://|ftp://)?([^/:]+:[^/@]+@)?(www\.)?([^/:\s]+\.[^/:\s]+)(:\d+)?(/[^#\s]*[\s\S]*)?(\?[^#\s]*)?(#.*)?$`)
	gdtotRegex = regexp.MustCompile(`^https?://.+\.gdtot\.\S+`)

	unifiedRegex = hostFamilyRegex(unifiedHosts)
	udriveRegex  = hostFamilyRegex(udriveHosts)
)

// hostFamilyRegex 由主机名表构造 ^https?://(a|b|c)\.\S+
func hostFamilyRegex(hosts []string) *regexp.Regexp {
	quoted := make([]string, len(hosts))
	for i, h := range hosts {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return regexp.MustCompile(`^https?://(` + strings.Join(quoted, "|") + `)\.\S+`)
}

// IsMagnet 是否磁力链接
func IsMagnet(url string) bool {
	return magnetRegex.MatchString(url)
}

// IsURL 宽松的URL格式检查, 结尾的单个换行不影响匹配
func IsURL(url string) bool {
	if strings.HasPrefix(url, "/") {
		return false
	}
	return urlRegex.MatchString(strings.TrimSuffix(url, "\n"))
}

// IsGdriveLink Google Drive 链接
func IsGdriveLink(url string) bool {
	return strings.Contains(url, GdriveDomain)
}

// IsGdtotLink gdtot 链接
func IsGdtotLink(url string) bool {
	return gdtotRegex.MatchString(url)
}

// IsUnifiedLink appdrive 家族链接
func IsUnifiedLink(url string) bool {
	return unifiedRegex.MatchString(url)
}

// IsUdriveLink hubdrive 家族链接
func IsUdriveLink(url string) bool {
	if strings.Contains(url, UdriveDomain) {
		return true
	}
	return udriveRegex.MatchString(url)
}

// IsMegaLink Mega 链接
func IsMegaLink(url string) bool {
	for _, d := range MegaDomains {
		if strings.Contains(url, d) {
			return true
		}
	}
	return false
}

// MegaLinkType 判断 Mega 链接是文件夹还是文件, 无法判断时按文件处理
func MegaLinkType(url string) string {
	switch {
	case strings.Contains(url, "folder"):
		return MegaFolder
	case strings.Contains(url, "file"):
		return MegaFile
	case strings.Contains(url, "/#F!"):
		return MegaFolder
	default:
		return MegaFile
	}
}

// Classify 按提交链路的优先级给出链接类别
// 各家族表相互独立, 这里按固定顺序取第一个命中的类别
func Classify(url string) Kind {
	url = strings.TrimSpace(url)
	switch {
	case IsMagnet(url):
		return KindMagnet
	case IsGdtotLink(url):
		return KindGdtot
	case IsUnifiedLink(url):
		return KindUnified
	case IsUdriveLink(url):
		return KindUdrive
	case IsGdriveLink(url):
		return KindGdrive
	case IsMegaLink(url):
		return KindMega
	case IsURL(url):
		return KindURL
	default:
		return KindUnknown
	}
}

// MagnetInfo 磁力链接的元信息
type MagnetInfo struct {
	InfoHash    string   `json:"info_hash"`
	DisplayName string   `json:"display_name,omitempty"`
	Trackers    []string `json:"trackers,omitempty"`
}

// ParseMagnet 解析磁力链接
func ParseMagnet(uri string) (*MagnetInfo, error) {
	if !IsMagnet(uri) {
		return nil, fmt.Errorf("not a magnet link")
	}
	m, err := metainfo.ParseMagnetUri(strings.TrimSpace(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to parse magnet: %w", err)
	}
	return &MagnetInfo{
		InfoHash:    m.InfoHash.HexString(),
		DisplayName: m.DisplayName,
		Trackers:    m.Trackers,
	}, nil
}
