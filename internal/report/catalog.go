package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	msgTitle     = "Solar position report"
	msgDateTime  = "Date/time:        %s %s"
	msgLocation  = "Location:         latitude %.6f°, longitude %.6f°, elevation %.2f m"
	msgZenith    = "Zenith:           %.6f°"
	msgAzimuth   = "Azimuth:          %.6f°"
	msgIncidence = "Incidence:        %.6f°"
	msgSunrise   = "Sunrise:          %s"
	msgTransit   = "Sun transit:      %s"
	msgSunset    = "Sunset:           %s"
	msgEOT       = "Equation of time: %.6f minutes"
	msgNoEvent   = "none (Sun does not rise or set)"
)

var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

func init() {
	zh := language.SimplifiedChinese
	for key, text := range map[string]string{
		msgTitle:     "太阳位置报告",
		msgDateTime:  "日期时间：%s %s",
		msgLocation:  "位置：纬度 %.6f°，经度 %.6f°，海拔 %.2f 米",
		msgZenith:    "天顶角：%.6f°",
		msgAzimuth:   "方位角：%.6f°",
		msgIncidence: "入射角：%.6f°",
		msgSunrise:   "日出：%s",
		msgTransit:   "日中：%s",
		msgSunset:    "日落：%s",
		msgEOT:       "时差：%.6f 分钟",
		msgNoEvent:   "无（极昼或极夜）",
	} {
		if err := message.SetString(zh, key, text); err != nil {
			panic(err)
		}
	}
}

// Supported returns the languages reports can be rendered in.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Match picks the best supported language for the given preferences, each
// either a BCP 47 tag or an Accept-Language header value. English is the
// fallback.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return language.English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}
