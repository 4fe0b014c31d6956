package api

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Languages lists the locales user-facing messages are translated to.
var Languages = []language.Tag{
	language.English,
	language.Chinese,
	language.Malay,
	language.Tamil,
}

var matcher = language.NewMatcher(Languages)

// Keys are reason codes for rejections and response codes otherwise.
var translations = map[language.Tag]map[string]string{
	language.English: {
		"no_numeric_content":    "No ticket numbers could be read. Please retake the photo.",
		"classification_failed": "This does not look like a TOTO or 4D ticket.",
		"wrong_count":           "The ticket has the wrong number of numbers.",
		"out_of_range":          "A number on the ticket is outside the allowed range.",
		"duplicate_numbers":     "The ticket repeats a number.",
		"ambiguous_grouping":    "The 4D numbers could not be told apart.",
		"digit_count_mismatch":  "The 4D digits do not split into 4-digit numbers.",
		"ocr_unavailable":       "Text recognition is unavailable. Please try again later.",
		"bad_request":           "The request could not be read. Upload a JPEG or PNG image.",
		"payload_too_large":     "The image is too large.",
		"not_found":             "Not found.",
		"internal_error":        "Something went wrong. Please try again.",
	},
	language.Chinese: {
		"no_numeric_content":    "无法读取彩票号码，请重新拍照。",
		"classification_failed": "这不像是 TOTO 或 4D 彩票。",
		"wrong_count":           "彩票上的号码数量不正确。",
		"out_of_range":          "彩票上有号码超出允许范围。",
		"duplicate_numbers":     "彩票上有重复的号码。",
		"ambiguous_grouping":    "无法区分 4D 号码。",
		"digit_count_mismatch":  "4D 数字无法分成四位数号码。",
		"ocr_unavailable":       "文字识别暂时不可用，请稍后再试。",
		"bad_request":           "无法读取请求，请上传 JPEG 或 PNG 图片。",
		"payload_too_large":     "图片太大。",
		"not_found":             "未找到。",
		"internal_error":        "出现错误，请重试。",
	},
	language.Malay: {
		"no_numeric_content":    "Tiada nombor tiket dapat dibaca. Sila ambil gambar semula.",
		"classification_failed": "Ini tidak kelihatan seperti tiket TOTO atau 4D.",
		"wrong_count":           "Bilangan nombor pada tiket tidak betul.",
		"out_of_range":          "Terdapat nombor pada tiket di luar julat yang dibenarkan.",
		"duplicate_numbers":     "Tiket mengandungi nombor berulang.",
		"ambiguous_grouping":    "Nombor 4D tidak dapat dibezakan.",
		"digit_count_mismatch":  "Digit 4D tidak dapat dibahagikan kepada nombor 4 digit.",
		"ocr_unavailable":       "Pengecaman teks tidak tersedia. Sila cuba lagi nanti.",
		"bad_request":           "Permintaan tidak dapat dibaca. Muat naik imej JPEG atau PNG.",
		"payload_too_large":     "Imej terlalu besar.",
		"not_found":             "Tidak dijumpai.",
		"internal_error":        "Sesuatu tidak kena. Sila cuba lagi.",
	},
	language.Tamil: {
		"no_numeric_content":    "டிக்கெட் எண்களைப் படிக்க முடியவில்லை. மீண்டும் புகைப்படம் எடுக்கவும்.",
		"classification_failed": "இது TOTO அல்லது 4D டிக்கெட் போல் தெரியவில்லை.",
		"wrong_count":           "டிக்கெட்டில் எண்களின் எண்ணிக்கை தவறானது.",
		"out_of_range":          "டிக்கெட்டில் உள்ள ஒரு எண் அனுமதிக்கப்பட்ட வரம்பிற்கு வெளியே உள்ளது.",
		"duplicate_numbers":     "டிக்கெட்டில் ஒரு எண் மீண்டும் வருகிறது.",
		"ambiguous_grouping":    "4D எண்களைப் பிரித்தறிய முடியவில்லை.",
		"digit_count_mismatch":  "4D இலக்கங்களை 4 இலக்க எண்களாகப் பிரிக்க முடியவில்லை.",
		"ocr_unavailable":       "உரை அறிதல் தற்போது கிடைக்கவில்லை. பின்னர் மீண்டும் முயற்சிக்கவும்.",
		"bad_request":           "கோரிக்கையைப் படிக்க முடியவில்லை. JPEG அல்லது PNG படத்தைப் பதிவேற்றவும்.",
		"payload_too_large":     "படம் மிகப் பெரியது.",
		"not_found":             "கிடைக்கவில்லை.",
		"internal_error":        "ஏதோ தவறு நடந்தது. மீண்டும் முயற்சிக்கவும்.",
	},
}

var messages = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}()

// Locale picks the response language from ?lang= first, then
// Accept-Language. Unsupported or missing preferences give English.
func Locale(r *http.Request) language.Tag {
	var prefs []language.Tag
	if q := r.URL.Query().Get("lang"); q != "" {
		if t, err := language.Parse(q); err == nil {
			prefs = append(prefs, t)
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			prefs = append(prefs, tags...)
		}
	}
	_, idx, conf := matcher.Match(prefs...)
	if conf == language.No {
		return language.English
	}
	return Languages[idx]
}

// Localize returns the message for key in tag.
func Localize(tag language.Tag, key string) string {
	return message.NewPrinter(tag, message.Catalog(messages)).Sprintf(key)
}
