package translate

import (
	"maps"
	"slices"
)

var languages = map[string]string{
	"Afrikaans": "af", "Albanian": "sq", "Amharic": "am", "Arabic": "ar",
	"Armenian": "hy", "Azerbaijani": "az", "Basque": "eu", "Belarusian": "be",
	"Bengali": "bn", "Bosnian": "bs", "Bulgarian": "bg", "Catalan": "ca",
	"Cebuano": "ceb", "Chichewa": "ny", "Chinese (simplified)": "zh-CN",
	"Chinese (traditional)": "zh-TW", "Corsican": "co", "Croatian": "hr",
	"Czech": "cs", "Danish": "da", "Dutch": "nl", "English": "en",
	"Esperanto": "eo", "Estonian": "et", "Filipino": "tl", "Finnish": "fi",
	"French": "fr", "Frisian": "fy", "Galician": "gl", "Georgian": "ka",
	"German": "de", "Greek": "el", "Gujarati": "gu", "Haitian creole": "ht",
	"Hausa": "ha", "Hawaiian": "haw", "Hebrew": "iw", "Hindi": "hi",
	"Hmong": "hmn", "Hungarian": "hu", "Icelandic": "is", "Igbo": "ig",
	"Indonesian": "id", "Irish": "ga", "Italian": "it", "Japanese": "ja",
	"Javanese": "jw", "Kannada": "kn", "Kazakh": "kk", "Khmer": "km",
	"Korean": "ko", "Kurdish (kurmanji)": "ku", "Kyrgyz": "ky", "Lao": "lo",
	"Latin": "la", "Latvian": "lv", "Lithuanian": "lt", "Luxembourgish": "lb",
	"Macedonian": "mk", "Malagasy": "mg", "Malay": "ms", "Malayalam": "ml",
	"Maltese": "mt", "Maori": "mi", "Marathi": "mr", "Mongolian": "mn",
	"Myanmar (burmese)": "my", "Nepali": "ne", "Norwegian": "no", "Pashto": "ps",
	"Persian": "fa", "Polish": "pl", "Portuguese": "pt", "Punjabi": "pa",
	"Romanian": "ro", "Russian": "ru", "Samoan": "sm", "Scots gaelic": "gd",
	"Serbian": "sr", "Sesotho": "st", "Shona": "sn", "Sindhi": "sd",
	"Sinhala": "si", "Slovak": "sk", "Slovenian": "sl", "Somali": "so",
	"Spanish": "es", "Sundanese": "su", "Swahili": "sw", "Swedish": "sv",
	"Tajik": "tg", "Tamil": "ta", "Telugu": "te", "Thai": "th", "Turkish": "tr",
	"Ukrainian": "uk", "Urdu": "ur", "Uzbek": "uz", "Vietnamese": "vi",
	"Welsh": "cy", "Xhosa": "xh", "Yiddish": "yi", "Yoruba": "yo", "Zulu": "zu",
}

// Languages returns the supported language names in alphabetical order.
func Languages() []string {
	return slices.Sorted(maps.Keys(languages))
}

// Code returns the ISO code of a supported language name.
func Code(language string) (string, bool) {
	code, ok := languages[language]
	return code, ok
}
